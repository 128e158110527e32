package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/studybuddy/internal/chunker"
	"github.com/dgallion1/studybuddy/internal/simplify"
)

func TestStudyPlan_AllStagesSucceed(t *testing.T) {
	model := &fakeModel{guide: "# Cells - Study Guide", sessions: twoSessions()}
	cal := &fakeCalendar{}
	o, pub := newTestOrchestrator(&fakeExtractor{text: "Cells are small."}, model, cal, nil)

	s := o.StudyPlan(context.Background(), planSeed())

	if Status(s) != StatusCompleted {
		t.Fatalf("expected completed, got errors %v", s.Errors)
	}
	if s.CurrentStep != "scheduler_complete" {
		t.Errorf("expected scheduler_complete, got %q", s.CurrentStep)
	}
	if s.ExtractedText != "Cells are small." || s.SimplifiedContent != "# Cells - Study Guide" {
		t.Errorf("unexpected research output %q / %q", s.ExtractedText, s.SimplifiedContent)
	}
	if s.ResearchSummary == "" {
		t.Error("expected research summary")
	}
	if string(s.PDF) != "%PDF-1.7 Cells" {
		t.Errorf("unexpected pdf %q", s.PDF)
	}
	if s.Upload == nil || s.Upload.FolderURL != "https://folders/1" {
		t.Fatalf("unexpected upload %+v", s.Upload)
	}
	if len(pub.docs) != 1 || pub.docs[0].FileName != "Cells - Study Guide.pdf" || pub.docs[0].PlanID != "plan-1" {
		t.Errorf("unexpected published docs %+v", pub.docs)
	}
	if len(s.CalendarEvents) != 2 {
		t.Fatalf("expected 2 events, got %d", len(s.CalendarEvents))
	}
	if !strings.Contains(s.CalendarEvents[0].Description, "Study materials: https://folders/1") {
		t.Errorf("expected materials link in description, got %q", s.CalendarEvents[0].Description)
	}
	if s.CalendarEvents[1].ID != "evt-Review" {
		t.Errorf("expected created event id, got %q", s.CalendarEvents[1].ID)
	}
}

func TestStudyPlan_ErrorsAccumulateAcrossStages(t *testing.T) {
	ext := &fakeExtractor{err: errors.New("no extractable content in any file")}
	model := &fakeModel{guide: "unused", sessions: twoSessions()}
	o, pub := newTestOrchestrator(ext, model, &fakeCalendar{}, nil)

	s := o.StudyPlan(context.Background(), planSeed())

	if Status(s) != StatusFailed {
		t.Fatal("expected failed status")
	}
	if len(s.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(s.Errors), s.Errors)
	}
	for i, prefix := range []string{"research stage failed", "compiler stage failed", "scheduler stage failed"} {
		if !strings.HasPrefix(s.Errors[i], prefix) {
			t.Errorf("error %d: expected prefix %q, got %q", i, prefix, s.Errors[i])
		}
	}
	if s.CurrentStep != "scheduler_failed" {
		t.Errorf("expected scheduler_failed, got %q", s.CurrentStep)
	}
	if model.simplifyCalls != 0 || len(pub.docs) != 0 {
		t.Error("downstream collaborators should not be called without input")
	}
}

func TestStudyPlan_PartialFailureKeepsEarlierOutputs(t *testing.T) {
	model := &fakeModel{guide: "# Guide", sessions: twoSessions()}
	cal := &fakeCalendar{failTitles: map[string]bool{"Basics": true, "Review": true}}
	o, _ := newTestOrchestrator(&fakeExtractor{text: "text"}, model, cal, nil)

	s := o.StudyPlan(context.Background(), planSeed())

	if len(s.Errors) != 1 || !strings.Contains(s.Errors[0], "no calendar events could be created") {
		t.Fatalf("unexpected errors %v", s.Errors)
	}
	if s.Upload == nil || s.SimplifiedContent == "" {
		t.Error("expected research and compiler outputs to survive a scheduler failure")
	}
	if s.CalendarEvents != nil {
		t.Error("failed scheduler should not contribute events")
	}
}

func TestStudyPlan_SkipsFailedEvents(t *testing.T) {
	model := &fakeModel{guide: "# Guide", sessions: twoSessions()}
	cal := &fakeCalendar{failTitles: map[string]bool{"Basics": true}}
	o, _ := newTestOrchestrator(&fakeExtractor{text: "text"}, model, cal, nil)

	s := o.StudyPlan(context.Background(), planSeed())

	if Status(s) != StatusCompleted {
		t.Fatalf("expected completed, got %v", s.Errors)
	}
	if len(s.CalendarEvents) != 1 || s.CalendarEvents[0].Title != "Review" {
		t.Errorf("expected only the Review event, got %+v", s.CalendarEvents)
	}
}

func TestStudyPlan_ChunksLargeText(t *testing.T) {
	model := &fakeModel{guide: "# Guide", sessions: twoSessions()}
	o, _ := newTestOrchestrator(&fakeExtractor{text: strings.Repeat("Cells divide. ", 100)}, model, &fakeCalendar{}, nil)
	o.Chunking = chunker.Config{MaxTokens: 50, OverlapTokens: 5, EstimatedCharsPerToken: 4}

	s := o.StudyPlan(context.Background(), planSeed())

	if Status(s) != StatusCompleted {
		t.Fatalf("expected completed, got %v", s.Errors)
	}
	if len(model.chunkCalls) != 1 || len(model.chunkCalls[0]) < 2 {
		t.Fatalf("expected one chunked simplification, got %v", len(model.chunkCalls))
	}
	if model.simplifyCalls != 0 {
		t.Error("whole-text simplify should not run for chunked text")
	}
}

func TestStudyPlan_UsesGuideCache(t *testing.T) {
	cache := &memCache{}
	model := &fakeModel{guide: "# Fresh", sessions: twoSessions()}
	o, _ := newTestOrchestrator(&fakeExtractor{text: "text"}, model, &fakeCalendar{}, cache)

	first := o.StudyPlan(context.Background(), planSeed())
	model.guide = "# Should not be used"
	second := o.StudyPlan(context.Background(), planSeed())

	if model.simplifyCalls != 1 {
		t.Errorf("expected a single model call, got %d", model.simplifyCalls)
	}
	if first.SimplifiedContent != "# Fresh" || second.SimplifiedContent != "# Fresh" {
		t.Errorf("expected cached guide, got %q and %q", first.SimplifiedContent, second.SimplifiedContent)
	}
}

func TestStudyPlan_RecoversFromPanic(t *testing.T) {
	model := &fakeModel{panicOn: "simplify", sessions: twoSessions()}
	o, _ := newTestOrchestrator(&fakeExtractor{text: "text"}, model, &fakeCalendar{}, nil)

	s := o.StudyPlan(context.Background(), planSeed())

	if len(s.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %v", s.Errors)
	}
	if !strings.Contains(s.Errors[0], "panic: model exploded") {
		t.Errorf("expected panic in research error, got %q", s.Errors[0])
	}
}

func TestStudyPlan_AssignsPlanID(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeExtractor{err: errors.New("x")}, &fakeModel{}, &fakeCalendar{}, nil)
	seed := planSeed()
	seed.PlanID = ""

	if s := o.StudyPlan(context.Background(), seed); s.PlanID == "" {
		t.Error("expected a generated plan id")
	}
}

func TestChat_KeepsRecentHistory(t *testing.T) {
	model := &fakeModel{answer: "Osmosis moves water."}
	o, _ := newTestOrchestrator(nil, model, nil, nil)

	var prior []simplify.ChatMessage
	for i := 0; i < 12; i++ {
		prior = append(prior, simplify.ChatMessage{Role: simplify.RoleUser, Content: "q"})
	}
	s := o.Chat(context.Background(), State{
		PlanID:        "plan-1",
		UserMessage:   "What is osmosis?",
		PriorTurns:    prior,
		StudyMaterial: "# Guide",
	})

	if Status(s) != StatusCompleted || s.CurrentStep != "tutor_complete" {
		t.Fatalf("unexpected outcome %q %v", s.CurrentStep, s.Errors)
	}
	if len(model.tutorHistory) != 10 {
		t.Errorf("expected 10 turns sent to the model, got %d", len(model.tutorHistory))
	}
	if len(s.ChatHistory) != 12 {
		t.Fatalf("expected 12 turns in history, got %d", len(s.ChatHistory))
	}
	question, last := s.ChatHistory[10], s.ChatHistory[11]
	if question.Role != simplify.RoleUser || !question.Timestamp.Equal(fixedNow) {
		t.Errorf("unexpected question turn %+v", question)
	}
	if last.Role != simplify.RoleAssistant || last.Content != "Osmosis moves water." {
		t.Errorf("unexpected last turn %+v", last)
	}
	// Microsecond-truncated timestamps must still order the reply after the question.
	if !last.Timestamp.Truncate(time.Microsecond).After(question.Timestamp.Truncate(time.Microsecond)) {
		t.Errorf("reply at %v does not sort after question at %v", last.Timestamp, question.Timestamp)
	}
	if s.AssistantResponse != "Osmosis moves water." {
		t.Errorf("unexpected response %q", s.AssistantResponse)
	}
}

func TestChat_RequiresMessage(t *testing.T) {
	o, _ := newTestOrchestrator(nil, &fakeModel{}, nil, nil)
	s := o.Chat(context.Background(), State{PlanID: "p"})

	if s.CurrentStep != "tutor_failed" || len(s.Errors) != 1 {
		t.Fatalf("expected tutor_failed with one error, got %q %v", s.CurrentStep, s.Errors)
	}
}

func TestQuiz(t *testing.T) {
	qs := []simplify.QuizQuestion{{Question: "Q?", Options: []string{"a", "b", "c", "d"}}}
	model := &fakeModel{questions: qs}
	o, _ := newTestOrchestrator(nil, model, nil, nil)

	s := o.Quiz(context.Background(), State{PlanID: "p"})
	if s.CurrentStep != "quiz_failed" {
		t.Fatalf("expected quiz_failed without material, got %q", s.CurrentStep)
	}

	s = o.Quiz(context.Background(), State{PlanID: "p", StudyMaterial: "# Guide"})
	if s.CurrentStep != "quiz_complete" || len(s.QuizQuestions) != 1 {
		t.Fatalf("unexpected outcome %q %v", s.CurrentStep, s.Errors)
	}
	if model.quizN != simplify.DefaultQuizSize {
		t.Errorf("expected default quiz size, got %d", model.quizN)
	}
}

func TestEventForSession(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	today := time.Date(2026, 1, 31, 22, 15, 0, 0, loc)

	tests := []struct {
		timeOfDay string
		offset    int
		wantStart time.Time
	}{
		{"morning", 0, time.Date(2026, 1, 31, 9, 0, 0, 0, loc)},
		{"afternoon", 1, time.Date(2026, 2, 1, 14, 0, 0, 0, loc)},
		{"evening", 2, time.Date(2026, 2, 2, 19, 0, 0, 0, loc)},
		{"", 3, time.Date(2026, 2, 3, 10, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		sess := simplify.StudySession{Title: "S", Description: "D", DurationMinutes: 75, DayOffset: tt.offset, TimeOfDay: tt.timeOfDay}
		ev := EventForSession(sess, today, "https://x")
		if !ev.Start.Equal(tt.wantStart) {
			t.Errorf("%q: expected start %v, got %v", tt.timeOfDay, tt.wantStart, ev.Start)
		}
		if ev.End.Sub(ev.Start) != 75*time.Minute {
			t.Errorf("%q: expected 75 minute session, got %v", tt.timeOfDay, ev.End.Sub(ev.Start))
		}
		if ev.Description != "D\n\nStudy materials: https://x" {
			t.Errorf("unexpected description %q", ev.Description)
		}
	}
}
