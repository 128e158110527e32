package pipeline

import (
	"context"

	"github.com/dgallion1/studybuddy/internal/chunker"
	"github.com/dgallion1/studybuddy/internal/parser"
	"github.com/dgallion1/studybuddy/internal/simplify"
)

// Extractor turns uploaded materials into one combined text.
type Extractor interface {
	ExtractBatch(ctx context.Context, files []parser.File) (string, error)
}

// Model is the generative side of the pipeline; *simplify.Driver implements it.
type Model interface {
	Simplify(ctx context.Context, content, topic string, difficulty simplify.Difficulty, pos *simplify.ChunkPosition) (string, error)
	SimplifyChunks(ctx context.Context, chunks []chunker.TextChunk, topic string, difficulty simplify.Difficulty) (string, error)
	Schedule(ctx context.Context, topic string, durationDays int, difficulty simplify.Difficulty) ([]simplify.StudySession, error)
	Tutor(ctx context.Context, message, studyContext string, history []simplify.ChatMessage) (string, error)
	Quiz(ctx context.Context, studyContext string, n int) ([]simplify.QuizQuestion, error)
}

// Renderer lays out a markdown study guide as a PDF.
type Renderer interface {
	Render(markdown, title string) ([]byte, error)
}

// Document is a rendered artifact ready to publish.
type Document struct {
	PlanID   string
	Topic    string
	FileName string
	MIMEType string
	Content  []byte
}

// Publisher stores a document somewhere the student can open it.
type Publisher interface {
	Publish(ctx context.Context, doc Document) (Upload, error)
}

// Calendar creates study session events.
type Calendar interface {
	CreateEvent(ctx context.Context, ev CalendarEvent) (CalendarEvent, error)
}

// ContentCache stores generated study guides by key.
type ContentCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
