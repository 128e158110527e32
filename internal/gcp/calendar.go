package gcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/studybuddy/internal/pipeline"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Reminder lead times in minutes.
const (
	popupReminderMinutes = 30
	emailReminderMinutes = 60
)

// Calendar creates study sessions as Google Calendar events.
type Calendar struct {
	svc        *calendar.Service
	calendarID string
	timeZone   string
	log        *slog.Logger
}

func NewCalendar(ctx context.Context, ts oauth2.TokenSource, calendarID, timeZone string, log *slog.Logger) (*Calendar, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("calendar.NewService: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	if timeZone == "" {
		timeZone = "UTC"
	}
	return &Calendar{svc: svc, calendarID: calendarID, timeZone: timeZone, log: log}, nil
}

func (c *Calendar) CreateEvent(ctx context.Context, ev pipeline.CalendarEvent) (pipeline.CalendarEvent, error) {
	created, err := c.svc.Events.Insert(c.calendarID, apiEvent(ev, c.timeZone)).Context(ctx).Do()
	if err != nil {
		return pipeline.CalendarEvent{}, fmt.Errorf("insert event %q: %w", ev.Title, err)
	}
	c.log.Debug("calendar event created", "event_id", created.Id, "start", ev.Start)

	ev.ID = created.Id
	ev.Link = created.HtmlLink
	return ev, nil
}

func apiEvent(ev pipeline.CalendarEvent, timeZone string) *calendar.Event {
	return &calendar.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Start:       &calendar.EventDateTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: timeZone},
		End:         &calendar.EventDateTime{DateTime: ev.End.Format(time.RFC3339), TimeZone: timeZone},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: popupReminderMinutes},
				{Method: "email", Minutes: emailReminderMinutes},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}
