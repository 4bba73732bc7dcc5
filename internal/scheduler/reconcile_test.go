package scheduler

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/timeutil"
)

func TestDecisionUsable(t *testing.T) {
	start := jstPtr(2025, time.March, 1, 20, 0, 0)

	tests := []struct {
		name      string
		candidate models.MeetingCandidate
		want      bool
	}{
		{
			name: "well-formed valid decision",
			candidate: models.MeetingCandidate{
				StartTime:      start,
				Attendees:      []string{"sarah@company.com"},
				Status:         models.StatusValid,
				DecisionSource: models.DecisionSourceAI,
			},
			want: true,
		},
		{
			name: "rejection statuses need no supporting fields",
			candidate: models.MeetingCandidate{
				Status:         models.StatusIncomplete,
				DecisionSource: models.DecisionSourceAI,
			},
			want: true,
		},
		{
			name: "fallback source is never trusted as-is",
			candidate: models.MeetingCandidate{
				StartTime:      start,
				Attendees:      []string{"sarah@company.com"},
				Status:         models.StatusValid,
				DecisionSource: models.DecisionSourceFallback,
			},
			want: false,
		},
		{
			name: "unrecognized status",
			candidate: models.MeetingCandidate{
				StartTime:      start,
				Attendees:      []string{"sarah@company.com"},
				Status:         models.MeetingStatus("approved"),
				DecisionSource: models.DecisionSourceAI,
			},
			want: false,
		},
		{
			name: "valid claim without start time",
			candidate: models.MeetingCandidate{
				Attendees:      []string{"sarah@company.com"},
				Status:         models.StatusValid,
				DecisionSource: models.DecisionSourceAI,
			},
			want: false,
		},
		{
			name: "valid claim without attendees",
			candidate: models.MeetingCandidate{
				StartTime:      start,
				Status:         models.StatusValid,
				DecisionSource: models.DecisionSourceAI,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecisionUsable(tt.candidate); got != tt.want {
				t.Errorf("DecisionUsable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReconcilerPassesThroughUsableDecision(t *testing.T) {
	reconciler := NewReconciler(NewRuleEvaluator(timeutil.NewWorkingCalendar()), zap.NewNop())
	now := jst(2025, time.March, 1, 10, 0, 0)

	candidate := models.MeetingCandidate{
		Topic:          "planning",
		StartTime:      jstPtr(2025, time.March, 1, 20, 0, 0),
		Attendees:      []string{"sarah@company.com"},
		Status:         models.StatusValid,
		Reason:         "ok",
		DecisionSource: models.DecisionSourceAI,
	}

	got := reconciler.Reconcile(candidate, now)
	if got.Status != models.StatusValid {
		t.Errorf("Reconcile() status = %q, want %q", got.Status, models.StatusValid)
	}
	if got.DecisionSource != models.DecisionSourceAI {
		t.Errorf("Reconcile() decision source = %q, want %q", got.DecisionSource, models.DecisionSourceAI)
	}
}

func TestReconcilerOverridesUnsupportedValidClaim(t *testing.T) {
	reconciler := NewReconciler(NewRuleEvaluator(timeutil.NewWorkingCalendar()), zap.NewNop())
	now := jst(2025, time.March, 1, 10, 0, 0)

	// The extractor claims the meeting is bookable but produced no attendees.
	candidate := models.MeetingCandidate{
		Topic:          "planning",
		StartTime:      jstPtr(2025, time.March, 1, 20, 0, 0),
		Status:         models.StatusValid,
		Reason:         "ok",
		DecisionSource: models.DecisionSourceAI,
	}

	got := reconciler.Reconcile(candidate, now)
	if got.Status != models.StatusNoAttendees {
		t.Errorf("Reconcile() status = %q, want %q", got.Status, models.StatusNoAttendees)
	}
	if got.DecisionSource != models.DecisionSourceFallback {
		t.Errorf("Reconcile() decision source = %q, want %q", got.DecisionSource, models.DecisionSourceFallback)
	}
	if got.Reason == "ok" {
		t.Error("Reconcile() kept the extractor's reason after overriding its status")
	}
}

func TestReconcilerRecomputesUnrecognizedStatus(t *testing.T) {
	reconciler := NewReconciler(NewRuleEvaluator(timeutil.NewWorkingCalendar()), zap.NewNop())
	now := jst(2025, time.March, 1, 10, 0, 0)

	candidate := models.MeetingCandidate{
		StartTime:      jstPtr(2025, time.March, 1, 20, 0, 0),
		Attendees:      []string{"sarah@company.com"},
		Status:         models.MeetingStatus("maybe"),
		DecisionSource: models.DecisionSourceAI,
	}

	got := reconciler.Reconcile(candidate, now)
	if got.Status != models.StatusValid {
		t.Errorf("Reconcile() status = %q, want %q", got.Status, models.StatusValid)
	}
	if got.DecisionSource != models.DecisionSourceFallback {
		t.Errorf("Reconcile() decision source = %q, want %q", got.DecisionSource, models.DecisionSourceFallback)
	}
}

func TestReconcilerPreservesExtractedFields(t *testing.T) {
	reconciler := NewReconciler(NewRuleEvaluator(timeutil.NewWorkingCalendar()), zap.NewNop())
	now := jst(2025, time.March, 1, 10, 0, 0)

	candidate := models.MeetingCandidate{
		Topic:           "retro",
		StartTime:       jstPtr(2025, time.March, 1, 20, 0, 0),
		DurationMinutes: 45,
		Attendees:       []string{"sarah@company.com"},
		Description:     "sprint retro",
		Status:          models.MeetingStatus("maybe"),
		DecisionSource:  models.DecisionSourceAI,
	}

	got := reconciler.Reconcile(candidate, now)
	if got.Topic != candidate.Topic || got.DurationMinutes != candidate.DurationMinutes || got.Description != candidate.Description {
		t.Error("Reconcile() mutated extracted fields while recomputing status")
	}
	if got.StartTime == nil || !got.StartTime.Equal(*candidate.StartTime) {
		t.Error("Reconcile() mutated the start time while recomputing status")
	}
}
