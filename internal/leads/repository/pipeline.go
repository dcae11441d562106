package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PipelineChange describes one effective stage transition.
type PipelineChange struct {
	LeadID    uuid.UUID
	FromStage string
	ToStage   string
	// Status replaces the lead status when non-nil.
	Status *string
	// TouchLastAction stamps last_action_at with At.
	TouchLastAction bool
	WonAt           *time.Time
	DealValue       *float64
	At              time.Time
}

// ApplyTransition updates the stage and appends a stage_change activity in
// one transaction. The row is locked and its current stage compared against
// FromStage; a mismatch returns ErrStageChanged.
func (r *Repository) ApplyTransition(ctx context.Context, change PipelineChange) (Lead, error) {
	var lead Lead
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `SELECT stage FROM leads WHERE id = $1 FOR UPDATE`, change.LeadID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if current != change.FromStage {
			return ErrStageChanged
		}

		lead, err = scanLead(tx.QueryRow(ctx, `
			UPDATE leads SET
				stage = $2,
				status = COALESCE($3, status),
				last_action_at = CASE WHEN $4 THEN $5 ELSE last_action_at END,
				won_at = COALESCE($6, won_at),
				deal_value = COALESCE($7, deal_value),
				updated_at = $5
			WHERE id = $1
			RETURNING `+leadColumns,
			change.LeadID, change.ToStage, change.Status, change.TouchLastAction, change.At,
			change.WonAt, change.DealValue,
		))
		if err != nil {
			return err
		}

		_, err = insertActivity(ctx, tx, change.LeadID, "stage_change", map[string]any{
			"from": change.FromStage,
			"to":   change.ToStage,
		}, change.At)
		return err
	})
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}
