package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/studybuddy/internal/chunker"
	"github.com/dgallion1/studybuddy/internal/parser"
	"github.com/dgallion1/studybuddy/internal/simplify"
)

var fixedNow = time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractBatch(ctx context.Context, files []parser.File) (string, error) {
	return f.text, f.err
}

type fakeModel struct {
	guide       string
	simplifyErr error
	panicOn     string
	sessions    []simplify.StudySession
	answer      string
	questions   []simplify.QuizQuestion

	simplifyCalls int
	chunkCalls    [][]chunker.TextChunk
	tutorHistory  []simplify.ChatMessage
	quizN         int
}

func (m *fakeModel) Simplify(ctx context.Context, content, topic string, d simplify.Difficulty, pos *simplify.ChunkPosition) (string, error) {
	if m.panicOn == "simplify" {
		panic("model exploded")
	}
	m.simplifyCalls++
	return m.guide, m.simplifyErr
}

func (m *fakeModel) SimplifyChunks(ctx context.Context, chunks []chunker.TextChunk, topic string, d simplify.Difficulty) (string, error) {
	m.chunkCalls = append(m.chunkCalls, chunks)
	return m.guide, m.simplifyErr
}

func (m *fakeModel) Schedule(ctx context.Context, topic string, days int, d simplify.Difficulty) ([]simplify.StudySession, error) {
	if m.sessions == nil {
		return nil, errors.New("no sessions scripted")
	}
	return m.sessions, nil
}

func (m *fakeModel) Tutor(ctx context.Context, message, studyContext string, history []simplify.ChatMessage) (string, error) {
	m.tutorHistory = history
	return m.answer, nil
}

func (m *fakeModel) Quiz(ctx context.Context, studyContext string, n int) ([]simplify.QuizQuestion, error) {
	m.quizN = n
	return m.questions, nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(markdown, title string) ([]byte, error) {
	return []byte("%PDF-1.7 " + title), nil
}

type fakePublisher struct {
	docs []Document
}

func (p *fakePublisher) Publish(ctx context.Context, doc Document) (Upload, error) {
	p.docs = append(p.docs, doc)
	return Upload{FileID: "file-1", FileURL: "https://files/1", FolderID: "folder-1", FolderURL: "https://folders/1"}, nil
}

type fakeCalendar struct {
	failTitles map[string]bool
	created    []CalendarEvent
}

func (c *fakeCalendar) CreateEvent(ctx context.Context, ev CalendarEvent) (CalendarEvent, error) {
	if c.failTitles[ev.Title] {
		return CalendarEvent{}, errors.New("calendar unavailable")
	}
	ev.ID = "evt-" + ev.Title
	c.created = append(c.created, ev)
	return ev, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (c *memCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = map[string]string{}
	}
	c.data[key] = value
	return nil
}

func twoSessions() []simplify.StudySession {
	return []simplify.StudySession{
		{Title: "Basics", Description: "Intro", DurationMinutes: 60, DayOffset: 0, TimeOfDay: "morning"},
		{Title: "Review", Description: "Recap", DurationMinutes: 45, DayOffset: 2, TimeOfDay: "evening"},
	}
}

func newTestOrchestrator(ext Extractor, model Model, cal Calendar, cache ContentCache) (*Orchestrator, *fakePublisher) {
	pub := &fakePublisher{}
	o := New(testLogger(), Deps{
		Extractor: ext,
		Model:     model,
		Renderer:  fakeRenderer{},
		Publisher: pub,
		Calendar:  cal,
		Cache:     cache,
		Chunking:  chunker.DefaultConfig(),
		Now:       func() time.Time { return fixedNow },
	})
	return o, pub
}

func planSeed() State {
	return State{
		UserID:       "user-1",
		PlanID:       "plan-1",
		Materials:    []parser.File{{Path: "/tmp/a.txt", OriginalName: "a.txt", MIMEType: parser.MIMEText}},
		Topic:        "Cells",
		Difficulty:   simplify.Beginner,
		DurationDays: 7,
	}
}
