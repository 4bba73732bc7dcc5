package models

import "time"

// Event is the calendar-agnostic view of a booked event.
// Start and End are absolute instants (UTC).
type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	MeetLink    string    `json:"meet_link,omitempty"`
	Attendees   []string  `json:"attendees,omitempty"`
	Organizer   string    `json:"organizer,omitempty"`
	Creator     string    `json:"creator,omitempty"`
}

// MeetingNotification is the payload handed to the notification gateway
// after an event has been committed to the calendar.
type MeetingNotification struct {
	EventID         string    `json:"event_id"`
	Topic           string    `json:"topic"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	MeetLink        string    `json:"meet_link,omitempty"`
	Recipients      []string  `json:"recipients"`
}
