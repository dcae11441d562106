package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sales_pipeline_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Activity is one append-only record in a lead's status_history trail.
type Activity struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	ActionType string
	Metadata   map[string]any
	CreatedAt  time.Time
}

type AppendActivityParams struct {
	LeadID     uuid.UUID
	ActionType string
	Metadata   map[string]any
	At         time.Time
	// MarkContacted also stamps last_action_at and moves the status to
	// Contacted within the same transaction, unless the lead is already won.
	MarkContacted bool
}

// AppendActivity inserts an activity record, optionally touching the lead in
// the same transaction.
func (r *Repository) AppendActivity(ctx context.Context, params AppendActivityParams) (Activity, error) {
	var activity Activity
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		activity, err = insertActivity(ctx, tx, params.LeadID, params.ActionType, params.Metadata, params.At)
		if err != nil {
			return err
		}
		if !params.MarkContacted {
			return nil
		}

		var stage, status string
		err = tx.QueryRow(ctx, `SELECT stage, status FROM leads WHERE id = $1 FOR UPDATE`, params.LeadID).Scan(&stage, &status)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE leads SET status = $2, last_action_at = $3, updated_at = $3
			WHERE id = $1
		`, params.LeadID, domain.StatusAfterContact(stage, status), params.At)
		return err
	})
	if err != nil {
		return Activity{}, err
	}
	return activity, nil
}

func insertActivity(ctx context.Context, tx pgx.Tx, leadID uuid.UUID, actionType string, metadata map[string]any, at time.Time) (Activity, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return Activity{}, err
	}

	activity := Activity{LeadID: leadID, ActionType: actionType, Metadata: metadata}
	err = tx.QueryRow(ctx, `
		INSERT INTO status_history (lead_id, action_type, metadata, created_at)
		VALUES ($1, $2, $3::jsonb, $4)
		RETURNING id, created_at
	`, leadID, actionType, metadataJSON, at).Scan(&activity.ID, &activity.CreatedAt)
	if isForeignKeyViolation(err) {
		return Activity{}, ErrNotFound
	}
	if err != nil {
		return Activity{}, err
	}
	return activity, nil
}

// ListActivities returns a lead's activities newest first.
func (r *Repository) ListActivities(ctx context.Context, leadID uuid.UUID, limit int) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, action_type, metadata, created_at
		FROM status_history
		WHERE lead_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, leadID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		var item Activity
		var metadata []byte
		if err := rows.Scan(&item.ID, &item.LeadID, &item.ActionType, &metadata, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Metadata = map[string]any{}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}
