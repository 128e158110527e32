package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/dgallion1/studybuddy/internal/simplify"
)

func (o *Orchestrator) schedule(ctx context.Context, s State) (Patch, error) {
	if s.Upload == nil {
		return Patch{}, errors.New("no published study guide to link")
	}
	if s.DurationDays <= 0 {
		return Patch{}, errors.New("plan duration must be at least one day")
	}
	if o.Model == nil || o.Calendar == nil {
		return Patch{}, errors.New("model and calendar are required")
	}
	log := o.log.With("plan_id", s.PlanID, "stage", "scheduler")

	sessions, err := o.Model.Schedule(ctx, s.Topic, s.DurationDays, s.Difficulty)
	if err != nil {
		return Patch{}, err
	}

	today := o.Now().In(o.Location)
	events := make([]CalendarEvent, 0, len(sessions))
	for _, sess := range sessions {
		created, err := o.Calendar.CreateEvent(ctx, EventForSession(sess, today, s.Upload.Link()))
		if err != nil {
			log.Warn("calendar event not created", "title", sess.Title, "error", err)
			continue
		}
		events = append(events, created)
	}
	if len(events) == 0 {
		return Patch{}, errors.New("no calendar events could be created")
	}
	log.Info("scheduled sessions", "created", len(events), "proposed", len(sessions))

	return Patch{CalendarEvents: events}, nil
}

// sessionHour maps a time of day onto the hour a session starts.
func sessionHour(timeOfDay string) int {
	switch timeOfDay {
	case "morning":
		return 9
	case "afternoon":
		return 14
	case "evening":
		return 19
	default:
		return 10
	}
}

// EventForSession places a session on the calendar relative to today, in
// today's location, and points its description at the study materials.
func EventForSession(sess simplify.StudySession, today time.Time, materialsURL string) CalendarEvent {
	y, m, d := today.Date()
	start := time.Date(y, m, d+sess.DayOffset, sessionHour(sess.TimeOfDay), 0, 0, 0, today.Location())

	desc := sess.Description
	if materialsURL != "" {
		desc += "\n\nStudy materials: " + materialsURL
	}
	return CalendarEvent{
		Title:       sess.Title,
		Description: desc,
		Start:       start,
		End:         start.Add(time.Duration(sess.DurationMinutes) * time.Minute),
	}
}
