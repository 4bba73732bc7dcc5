package scheduler

import (
	"time"

	"go.uber.org/zap"

	"github.com/ymatsui/aical/internal/models"
	"github.com/ymatsui/aical/internal/validation"
)

// DecisionUsable reports whether a candidate's attached status can be
// trusted as-is. The language model is treated as a field extractor, not a
// policy authority: its decision is used only when it is well-formed and,
// for a "valid" claim, actually backed by the fields required for validity.
func DecisionUsable(c models.MeetingCandidate) bool {
	if c.DecisionSource != models.DecisionSourceAI {
		return false
	}
	if !validation.IsMeetingStatus(string(c.Status)) {
		return false
	}
	if c.Status == models.StatusValid {
		if c.StartTime == nil {
			return false
		}
		if len(c.Attendees) == 0 {
			return false
		}
	}
	return true
}

// Reconciler selects between the extractor's status and a deterministic
// recomputation. It never re-invokes the language model; doubt is resolved
// by rerunning the rules over the same normalized fields.
type Reconciler struct {
	fallback PolicyEvaluator
	logger   *zap.Logger
}

// NewReconciler creates a reconciler backed by the given fallback evaluator.
func NewReconciler(fallback PolicyEvaluator, logger *zap.Logger) *Reconciler {
	return &Reconciler{fallback: fallback, logger: logger}
}

// Reconcile returns a candidate whose status is guaranteed consistent with
// its own fields. A usable AI decision passes through untouched; anything
// else gets its status recomputed by the fallback rules.
func (r *Reconciler) Reconcile(c models.MeetingCandidate, now time.Time) models.MeetingCandidate {
	if DecisionUsable(c) {
		return c
	}

	previousStatus := c.Status
	c.Status, c.Reason = r.fallback.Evaluate(c, now)
	c.DecisionSource = models.DecisionSourceFallback

	if r.logger != nil {
		r.logger.Info("fallback_rules_applied",
			zap.String("previous_status", string(previousStatus)),
			zap.String("status", string(c.Status)),
			zap.String("reason", c.Reason),
		)
	}
	return c
}
