package scheduler

import (
	"context"
	"time"

	"github.com/ymatsui/aical/internal/models"
)

// CreateEventInput describes the event to be written to the calendar.
// StartTime is wall-clock JST.
type CreateEventInput struct {
	Summary         string
	StartTime       time.Time
	DurationMinutes int
	Description     string
	Attendees       []string
	AddMeetLink     bool
}

// CalendarGateway is the external calendar collaborator. Times cross this
// boundary as absolute instants; the implementation owns wire formats.
type CalendarGateway interface {
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]models.Event, error)
	CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error)
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	UpdateEvent(ctx context.Context, eventID string, update models.MeetingUpdate) (*models.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// IntentParser extracts a structured meeting candidate from free text.
// Parse never fails: unrecoverable extraction errors surface as a canonical
// incomplete candidate instead.
type IntentParser interface {
	Parse(ctx context.Context, command string, history []string) models.MeetingCandidate
	ParseUpdate(ctx context.Context, command string) models.MeetingUpdate
}

// NotificationDispatcher hands off a best-effort notification. Dispatch
// must not block on delivery and must never surface delivery failure.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n models.MeetingNotification)
}

// DecisionRecorder persists scheduling decisions for later review.
type DecisionRecorder interface {
	Record(ctx context.Context, d *models.SchedulingDecision) error
}
