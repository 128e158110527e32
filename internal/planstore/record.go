package planstore

import (
	"slices"
	"time"

	"github.com/dgallion1/studybuddy/internal/pipeline"
	"github.com/dgallion1/studybuddy/internal/simplify"
)

// PlanRecord is the stored form of a finished workflow run.
type PlanRecord struct {
	PlanID            string        `firestore:"planId"`
	UserID            string        `firestore:"userId"`
	Topic             string        `firestore:"topic"`
	Difficulty        string        `firestore:"difficulty"`
	DurationDays      int           `firestore:"durationDays"`
	Status            string        `firestore:"status"`
	CurrentStep       string        `firestore:"currentStep"`
	Errors            []string      `firestore:"errors"`
	ResearchSummary   string        `firestore:"researchSummary,omitempty"`
	SimplifiedContent string        `firestore:"simplifiedContent,omitempty"`
	FileURL           string        `firestore:"fileUrl,omitempty"`
	FolderURL         string        `firestore:"folderUrl,omitempty"`
	Events            []EventRecord `firestore:"events,omitempty"`
	UpdatedAt         time.Time     `firestore:"updatedAt,serverTimestamp"`
}

type EventRecord struct {
	ID    string    `firestore:"id"`
	Title string    `firestore:"title"`
	Start time.Time `firestore:"start"`
	End   time.Time `firestore:"end"`
	Link  string    `firestore:"link,omitempty"`
}

type questionRecord struct {
	Question      string   `firestore:"question"`
	Options       []string `firestore:"options"`
	CorrectAnswer int      `firestore:"correctAnswer"`
	Explanation   string   `firestore:"explanation"`
}

type quizRecord struct {
	Questions []questionRecord `firestore:"questions"`
	CreatedAt time.Time        `firestore:"createdAt,serverTimestamp"`
}

func recordFromState(s pipeline.State) PlanRecord {
	rec := PlanRecord{
		PlanID:            s.PlanID,
		UserID:            s.UserID,
		Topic:             s.Topic,
		Difficulty:        string(s.Difficulty),
		DurationDays:      s.DurationDays,
		Status:            pipeline.Status(s),
		CurrentStep:       s.CurrentStep,
		Errors:            slices.Clone(s.Errors),
		ResearchSummary:   s.ResearchSummary,
		SimplifiedContent: s.SimplifiedContent,
	}
	if rec.Errors == nil {
		rec.Errors = []string{}
	}
	if s.Upload != nil {
		rec.FileURL = s.Upload.FileURL
		rec.FolderURL = s.Upload.FolderURL
	}
	for _, ev := range s.CalendarEvents {
		rec.Events = append(rec.Events, EventRecord{ID: ev.ID, Title: ev.Title, Start: ev.Start, End: ev.End, Link: ev.Link})
	}
	return rec
}

func quizFromQuestions(qs []simplify.QuizQuestion) quizRecord {
	rec := quizRecord{Questions: make([]questionRecord, 0, len(qs))}
	for _, q := range qs {
		rec.Questions = append(rec.Questions, questionRecord{
			Question:      q.Question,
			Options:       slices.Clone(q.Options),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return rec
}
