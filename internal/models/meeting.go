package models

import (
	"time"
)

// MeetingStatus represents the outcome of candidate validation
type MeetingStatus string

const (
	// StatusValid means the candidate passed every policy rule and may be booked
	StatusValid MeetingStatus = "valid"
	// StatusIncomplete means no usable start time could be extracted
	StatusIncomplete MeetingStatus = "incomplete"
	// StatusNoAttendees means no valid attendee email was extracted
	StatusNoAttendees MeetingStatus = "no_attendees"
	// StatusTooSoon means the start time is in the past or inside the minimum lead time
	StatusTooSoon MeetingStatus = "too_soon"
	// StatusNotWorkingHours means the start time falls inside JST working hours
	// on a working day; those slots are rejected rather than auto-booked
	StatusNotWorkingHours MeetingStatus = "not_working_hours"
)

// DecisionSource tags where a candidate's status judgment came from
type DecisionSource string

const (
	// DecisionSourceAI marks a status derived from the language model's extraction
	DecisionSourceAI DecisionSource = "ai"
	// DecisionSourceFallback marks a status recomputed by the deterministic rules
	DecisionSourceFallback DecisionSource = "fallback"
)

// MeetingCandidate is the structured meeting intent extracted from a command.
// StartTime is wall-clock JST; a nil StartTime means no date/time was resolved.
type MeetingCandidate struct {
	Topic           string         `json:"topic"`
	StartTime       *time.Time     `json:"start_time,omitempty"`
	DurationMinutes int            `json:"duration"`
	Attendees       []string       `json:"attendees"`
	Description     string         `json:"description"`
	Status          MeetingStatus  `json:"status"`
	Reason          string         `json:"reason"`
	DecisionSource  DecisionSource `json:"decision_source"`
}

// MeetingUpdate carries only the fields an update command changes.
// Nil fields are left untouched on the event.
type MeetingUpdate struct {
	Summary         *string    `json:"summary,omitempty"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Description     *string    `json:"description,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u MeetingUpdate) Empty() bool {
	return u.Summary == nil && u.StartTime == nil && u.DurationMinutes == nil && u.Description == nil
}
