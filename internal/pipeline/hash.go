package pipeline

import (
	"crypto/sha256"
	"fmt"

	"github.com/dgallion1/studybuddy/internal/simplify"
)

// ContentHashHex computes the hex-encoded SHA-256 hash of data.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h)
}

// guideCacheKey identifies a study guide by everything that shapes it.
func guideCacheKey(topic string, difficulty simplify.Difficulty, text string) string {
	return "guide:" + ContentHashHex([]byte(topic+"\x00"+string(difficulty)+"\x00"+text))
}
