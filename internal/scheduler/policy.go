// Package scheduler contains the decision pipeline: deterministic policy
// evaluation, reconciliation of model-derived judgments against that policy,
// calendar conflict detection, and the booking orchestration itself.
package scheduler

import (
	"time"

	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/timeutil"
)

// MinimumLeadTime is the shortest interval between "now" and a meeting's
// start for it to be bookable.
const MinimumLeadTime = 5 * time.Hour

// PolicyEvaluator computes a status judgment for a candidate from its
// normalized fields and the current time. Implementations must be pure:
// same fields and same instant always yield the same answer.
type PolicyEvaluator interface {
	Evaluate(c models.MeetingCandidate, now time.Time) (models.MeetingStatus, string)
}

// RuleEvaluator is the deterministic policy authority. It ignores whatever
// status a candidate already carries and rederives it from the rules alone.
type RuleEvaluator struct {
	calendar *timeutil.WorkingCalendar
}

// NewRuleEvaluator creates a rule evaluator using the given working calendar.
func NewRuleEvaluator(calendar *timeutil.WorkingCalendar) *RuleEvaluator {
	return &RuleEvaluator{calendar: calendar}
}

// Evaluate applies the policy rules in priority order; the first matching
// rule wins. The conditions are not mutually exclusive, so the order is
// part of the contract: missing start time beats missing attendees beats
// lead time beats working hours.
func (e *RuleEvaluator) Evaluate(c models.MeetingCandidate, now time.Time) (models.MeetingStatus, string) {
	if c.StartTime == nil {
		return models.StatusIncomplete, "Date/time not specified."
	}

	if len(c.Attendees) == 0 {
		return models.StatusNoAttendees, "No attendees specified."
	}

	start := c.StartTime.In(timeutil.JST)
	if start.Sub(now) < MinimumLeadTime {
		return models.StatusTooSoon, "Meeting is less than 5 hours away."
	}

	// In-hours slots on working days are reserved for human scheduling,
	// so the automation declines them rather than booking.
	if e.calendar.IsWorkingHours(start) {
		return models.StatusNotWorkingHours, "Within working hours (9-19 JST)."
	}

	return models.StatusValid, "ok"
}
