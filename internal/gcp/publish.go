package gcp

import (
	"fmt"
	"time"
)

// FolderName names the folder a plan's materials are published into.
func FolderName(topic string, day time.Time) string {
	return fmt.Sprintf("StudyBuddy - %s - %s", topic, day.Format("2006-01-02"))
}
