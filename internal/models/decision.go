package models

import (
	"time"

	"github.com/google/uuid"
)

// SchedulingDecision is an audit record of one pass through the decision
// pipeline: what the user asked, what the pipeline decided, and why.
type SchedulingDecision struct {
	ID             uuid.UUID      `json:"id"`
	Command        string         `json:"command"`
	Status         MeetingStatus  `json:"status"`
	Reason         string         `json:"reason"`
	DecisionSource DecisionSource `json:"decision_source"`
	EventID        string         `json:"event_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
