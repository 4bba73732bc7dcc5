package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ymatsui/aical/internal/models"
)

// DecisionRepository persists scheduling decision audit records.
type DecisionRepository struct {
	db *DB
}

// NewDecisionRepository creates a new decision repository.
func NewDecisionRepository(db *DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// Record inserts one decision.
func (r *DecisionRepository) Record(ctx context.Context, d *models.SchedulingDecision) error {
	query := `
		INSERT INTO scheduling_decisions (id, command, status, reason, decision_source, event_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.Command,
		d.Status,
		d.Reason,
		d.DecisionSource,
		d.EventID,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record scheduling decision: %w", err)
	}
	return nil
}

// ListRecent returns the newest decisions, newest first.
func (r *DecisionRepository) ListRecent(ctx context.Context, limit int) ([]*models.SchedulingDecision, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, command, status, reason, decision_source, event_id, created_at
		FROM scheduling_decisions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduling decisions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var decisions []*models.SchedulingDecision
	for rows.Next() {
		d := &models.SchedulingDecision{}
		if err := rows.Scan(&d.ID, &d.Command, &d.Status, &d.Reason, &d.DecisionSource, &d.EventID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scheduling decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scheduling decisions: %w", err)
	}
	return decisions, nil
}
