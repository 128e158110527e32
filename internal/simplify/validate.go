package simplify

import "strings"

// Session length bounds in minutes.
const (
	minSessionMinutes     = 15
	maxSessionMinutes     = 240
	defaultSessionMinutes = 60
)

var validTimesOfDay = map[string]bool{
	"morning":   true,
	"afternoon": true,
	"evening":   true,
}

// ValidateSession checks a model-proposed session, clamping recoverable
// fields in place. Returns false if the session should be dropped.
func ValidateSession(s *StudySession, durationDays int) bool {
	if s == nil {
		return false
	}
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		return false
	}
	if s.DurationMinutes < minSessionMinutes || s.DurationMinutes > maxSessionMinutes {
		s.DurationMinutes = defaultSessionMinutes
	}
	if s.DayOffset < 0 {
		s.DayOffset = 0
	}
	if durationDays > 0 && s.DayOffset >= durationDays {
		s.DayOffset = durationDays - 1
	}
	s.TimeOfDay = strings.ToLower(strings.TrimSpace(s.TimeOfDay))
	if !validTimesOfDay[s.TimeOfDay] {
		s.TimeOfDay = ""
	}
	return true
}

// ValidateQuestion checks a quiz question. Returns true if valid.
func ValidateQuestion(q *QuizQuestion) bool {
	if q == nil {
		return false
	}
	if strings.TrimSpace(q.Question) == "" {
		return false
	}
	if len(q.Options) < 2 {
		return false
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return false
		}
	}
	return q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options)
}
