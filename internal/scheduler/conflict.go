package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/timeutil"
)

// listMargin widens the fetch window around the candidate slot so events
// straddling the window edges are seen by the overlap test.
const listMargin = time.Hour

// ConflictChecker tests a candidate slot against existing calendar events.
// The decision itself is pure; only the event fetch does I/O.
type ConflictChecker struct {
	calendar CalendarGateway
}

// NewConflictChecker creates a conflict checker over the given gateway.
func NewConflictChecker(calendar CalendarGateway) *ConflictChecker {
	return &ConflictChecker{calendar: calendar}
}

// HasOverlap reports whether [start, start+duration) overlaps any existing
// non-cancelled event, excluding excludeEventID when non-empty (used for
// updates, where the event being moved must not conflict with itself).
// A non-positive duration never overlaps.
func (c *ConflictChecker) HasOverlap(ctx context.Context, start time.Time, durationMinutes int, excludeEventID string) (bool, error) {
	if durationMinutes <= 0 {
		return false, nil
	}

	startUTC := timeutil.ToUTC(start)
	endUTC := startUTC.Add(time.Duration(durationMinutes) * time.Minute)

	events, err := c.calendar.ListEvents(ctx, startUTC.Add(-listMargin), endUTC.Add(listMargin))
	if err != nil {
		return false, fmt.Errorf("failed to list events for conflict check: %w", err)
	}

	return overlapsAny(events, startUTC, endUTC, excludeEventID), nil
}

// overlapsAny applies the half-open overlap test against fetched events.
func overlapsAny(events []models.Event, startUTC, endUTC time.Time, excludeEventID string) bool {
	for _, ev := range events {
		if ev.Status == "cancelled" {
			continue
		}
		if excludeEventID != "" && ev.ID == excludeEventID {
			continue
		}
		if ev.Start.IsZero() || ev.End.IsZero() {
			// All-day or malformed events carry no concrete instant.
			continue
		}
		if timeutil.Overlaps(ev.Start, ev.End, startUTC, endUTC) {
			return true
		}
	}
	return false
}
