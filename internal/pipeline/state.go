package pipeline

import (
	"slices"
	"time"

	"github.com/dgallion1/studybuddy/internal/parser"
	"github.com/dgallion1/studybuddy/internal/simplify"
)

// Terminal workflow statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Upload locates a published study guide.
type Upload struct {
	FileID    string `json:"file_id"`
	FileURL   string `json:"file_url"`
	FolderID  string `json:"folder_id,omitempty"`
	FolderURL string `json:"folder_url,omitempty"`
}

// Link returns the URL students should open for the materials.
func (u Upload) Link() string {
	if u.FolderURL != "" {
		return u.FolderURL
	}
	return u.FileURL
}

// CalendarEvent is a scheduled study session.
type CalendarEvent struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Link        string    `json:"link,omitempty"`
}

// State is the record that flows through a workflow. Input fields are set by
// the caller; each stage owns its output fields; CurrentStep and Errors are
// maintained by the orchestrator.
type State struct {
	UserID        string                 `json:"user_id"`
	PlanID        string                 `json:"plan_id"`
	Materials     []parser.File          `json:"materials,omitempty"`
	Topic         string                 `json:"topic"`
	Difficulty    simplify.Difficulty    `json:"difficulty"`
	DurationDays  int                    `json:"duration_days"`
	UserMessage   string                 `json:"user_message,omitempty"`
	PriorTurns    []simplify.ChatMessage `json:"-"`
	StudyMaterial string                 `json:"-"`

	ExtractedText     string                  `json:"-"`
	ResearchSummary   string                  `json:"research_summary,omitempty"`
	SimplifiedContent string                  `json:"simplified_content,omitempty"`
	PDF               []byte                  `json:"-"`
	Upload            *Upload                 `json:"upload,omitempty"`
	CalendarEvents    []CalendarEvent         `json:"calendar_events,omitempty"`
	ChatHistory       []simplify.ChatMessage  `json:"chat_history,omitempty"`
	AssistantResponse string                  `json:"assistant_response,omitempty"`
	QuizQuestions     []simplify.QuizQuestion `json:"quiz_questions,omitempty"`

	CurrentStep string   `json:"current_step"`
	Errors      []string `json:"errors"`
}

// Patch is the delta one stage contributes. Zero-valued fields leave the
// state untouched.
type Patch struct {
	Step string
	Err  string

	ExtractedText     string
	ResearchSummary   string
	SimplifiedContent string
	PDF               []byte
	Upload            *Upload
	CalendarEvents    []CalendarEvent
	ChatHistory       []simplify.ChatMessage
	AssistantResponse string
	QuizQuestions     []simplify.QuizQuestion
}

// Apply returns a new State with p merged in. The receiver is not modified.
func (s State) Apply(p Patch) State {
	next := s
	if p.Step != "" {
		next.CurrentStep = p.Step
	}
	if p.Err != "" {
		next.Errors = append(slices.Clip(s.Errors), p.Err)
	}
	if p.ExtractedText != "" {
		next.ExtractedText = p.ExtractedText
	}
	if p.ResearchSummary != "" {
		next.ResearchSummary = p.ResearchSummary
	}
	if p.SimplifiedContent != "" {
		next.SimplifiedContent = p.SimplifiedContent
	}
	if p.PDF != nil {
		next.PDF = p.PDF
	}
	if p.Upload != nil {
		u := *p.Upload
		next.Upload = &u
	}
	if p.CalendarEvents != nil {
		next.CalendarEvents = p.CalendarEvents
	}
	if p.ChatHistory != nil {
		next.ChatHistory = p.ChatHistory
	}
	if p.AssistantResponse != "" {
		next.AssistantResponse = p.AssistantResponse
	}
	if p.QuizQuestions != nil {
		next.QuizQuestions = p.QuizQuestions
	}
	return next
}

// Status is StatusCompleted when no stage recorded an error.
func Status(s State) string {
	if len(s.Errors) == 0 {
		return StatusCompleted
	}
	return StatusFailed
}

// studyContext picks the best available material for tutoring and quizzes.
func studyContext(s State) string {
	switch {
	case s.SimplifiedContent != "":
		return s.SimplifiedContent
	case s.StudyMaterial != "":
		return s.StudyMaterial
	default:
		return s.ExtractedText
	}
}
