package scheduler

import (
	"testing"
	"time"

	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/timeutil"
)

func jst(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, timeutil.JST)
}

func jstPtr(year int, month time.Month, day, hour, min, sec int) *time.Time {
	t := jst(year, month, day, hour, min, sec)
	return &t
}

func TestRuleEvaluatorPriorityOrder(t *testing.T) {
	evaluator := NewRuleEvaluator(timeutil.NewWorkingCalendar())
	// Saturday morning, so weekday rules are not in play unless a test puts them there.
	now := jst(2025, time.March, 1, 10, 0, 0)

	tests := []struct {
		name      string
		candidate models.MeetingCandidate
		want      models.MeetingStatus
	}{
		{
			name:      "no start time",
			candidate: models.MeetingCandidate{Attendees: []string{"sarah@company.com"}},
			want:      models.StatusIncomplete,
		},
		{
			name:      "no start time beats no attendees",
			candidate: models.MeetingCandidate{},
			want:      models.StatusIncomplete,
		},
		{
			name: "no attendees beats too soon",
			candidate: models.MeetingCandidate{
				StartTime: jstPtr(2025, time.March, 1, 10, 30, 0),
			},
			want: models.StatusNoAttendees,
		},
		{
			name: "one hour of lead time is too soon",
			candidate: models.MeetingCandidate{
				StartTime: jstPtr(2025, time.March, 1, 11, 0, 0),
				Attendees: []string{"sarah@company.com"},
			},
			want: models.StatusTooSoon,
		},
		{
			name: "past start time is too soon",
			candidate: models.MeetingCandidate{
				StartTime: jstPtr(2025, time.February, 28, 10, 0, 0),
				Attendees: []string{"sarah@company.com"},
			},
			want: models.StatusTooSoon,
		},
		{
			name: "weekend evening is valid",
			candidate: models.MeetingCandidate{
				StartTime: jstPtr(2025, time.March, 1, 20, 0, 0),
				Attendees: []string{"sarah@company.com"},
			},
			want: models.StatusValid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := evaluator.Evaluate(tt.candidate, now)
			if got != tt.want {
				t.Errorf("Evaluate() status = %q, want %q (reason %q)", got, tt.want, reason)
			}
			if reason == "" {
				t.Error("Evaluate() returned empty reason")
			}
		})
	}
}

func TestRuleEvaluatorLeadTimeBoundary(t *testing.T) {
	evaluator := NewRuleEvaluator(timeutil.NewWorkingCalendar())
	// Saturday so the working-hours rule stays out of the way.
	now := jst(2025, time.March, 1, 10, 0, 0)
	attendees := []string{"sarah@company.com"}

	tests := []struct {
		name  string
		start time.Time
		want  models.MeetingStatus
	}{
		{"one minute short of lead time", now.Add(5*time.Hour - time.Minute), models.StatusTooSoon},
		{"exactly at lead time", now.Add(5 * time.Hour), models.StatusValid},
		{"one second past lead time", now.Add(5*time.Hour + time.Second), models.StatusValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := tt.start
			got, _ := evaluator.Evaluate(models.MeetingCandidate{StartTime: &start, Attendees: attendees}, now)
			if got != tt.want {
				t.Errorf("Evaluate() status = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRuleEvaluatorWorkingHours(t *testing.T) {
	evaluator := NewRuleEvaluator(timeutil.NewWorkingCalendar())
	attendees := []string{"sarah@company.com"}

	tests := []struct {
		name  string
		now   time.Time
		start time.Time
		want  models.MeetingStatus
	}{
		{
			name:  "weekday mid-morning is rejected",
			now:   jst(2025, time.March, 2, 10, 0, 0),
			start: jst(2025, time.March, 3, 10, 0, 0), // Monday
			want:  models.StatusNotWorkingHours,
		},
		{
			name:  "weekday nine sharp is rejected",
			now:   jst(2025, time.March, 2, 10, 0, 0),
			start: jst(2025, time.March, 3, 9, 0, 0),
			want:  models.StatusNotWorkingHours,
		},
		{
			name:  "weekday nineteen hundred is bookable",
			now:   jst(2025, time.March, 2, 10, 0, 0),
			start: jst(2025, time.March, 3, 19, 0, 0),
			want:  models.StatusValid,
		},
		{
			name:  "weekday early morning is bookable",
			now:   jst(2025, time.March, 2, 10, 0, 0),
			start: jst(2025, time.March, 3, 7, 0, 0),
			want:  models.StatusValid,
		},
		{
			name:  "in-hours slot inside lead window reports too soon",
			now:   jst(2025, time.March, 3, 9, 0, 0),
			start: jst(2025, time.March, 3, 10, 0, 0),
			want:  models.StatusTooSoon,
		},
		{
			name:  "public holiday mid-morning is bookable",
			now:   jst(2024, time.December, 30, 10, 0, 0),
			start: jst(2025, time.January, 1, 10, 0, 0), // New Year's Day, a Wednesday
			want:  models.StatusValid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := tt.start
			got, _ := evaluator.Evaluate(models.MeetingCandidate{StartTime: &start, Attendees: attendees}, tt.now)
			if got != tt.want {
				t.Errorf("Evaluate() status = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRuleEvaluatorIsDeterministic(t *testing.T) {
	evaluator := NewRuleEvaluator(timeutil.NewWorkingCalendar())
	now := jst(2025, time.March, 1, 10, 0, 0)
	candidate := models.MeetingCandidate{
		StartTime: jstPtr(2025, time.March, 1, 20, 0, 0),
		Attendees: []string{"sarah@company.com"},
	}

	firstStatus, firstReason := evaluator.Evaluate(candidate, now)
	for i := 0; i < 3; i++ {
		status, reason := evaluator.Evaluate(candidate, now)
		if status != firstStatus || reason != firstReason {
			t.Fatalf("Evaluate() not stable: got (%q, %q), want (%q, %q)", status, reason, firstStatus, firstReason)
		}
	}
}

func TestRuleEvaluatorIgnoresCarriedStatus(t *testing.T) {
	evaluator := NewRuleEvaluator(timeutil.NewWorkingCalendar())
	now := jst(2025, time.March, 1, 10, 0, 0)

	// A candidate claiming validity but missing attendees must still be
	// rederived from its fields.
	candidate := models.MeetingCandidate{
		StartTime:      jstPtr(2025, time.March, 1, 20, 0, 0),
		Status:         models.StatusValid,
		DecisionSource: models.DecisionSourceAI,
	}

	got, _ := evaluator.Evaluate(candidate, now)
	if got != models.StatusNoAttendees {
		t.Errorf("Evaluate() status = %q, want %q", got, models.StatusNoAttendees)
	}
}
