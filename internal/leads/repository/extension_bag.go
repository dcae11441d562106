package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MergeRawDataParams replaces one top-level key of raw_data and optionally
// appends an activity describing the change.
type MergeRawDataParams struct {
	LeadID   uuid.UUID
	Key      string
	Value    any
	At       time.Time
	Activity *ActivityEntry
}

// ActivityEntry is an activity appended alongside another write.
type ActivityEntry struct {
	ActionType string
	Metadata   map[string]any
}

// MergeRawData applies the merge with jsonb || inside the database, so
// concurrent writers of other keys are never lost.
func (r *Repository) MergeRawData(ctx context.Context, params MergeRawDataParams) (Lead, error) {
	valueJSON, err := json.Marshal(params.Value)
	if err != nil {
		return Lead{}, err
	}

	var lead Lead
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		lead, err = scanLead(tx.QueryRow(ctx, `
			UPDATE leads SET
				raw_data = COALESCE(raw_data, '{}'::jsonb) || jsonb_build_object($2::text, $3::jsonb),
				updated_at = $4
			WHERE id = $1
			RETURNING `+leadColumns,
			params.LeadID, params.Key, valueJSON, params.At,
		))
		if err != nil {
			return err
		}
		if params.Activity == nil {
			return nil
		}
		_, err = insertActivity(ctx, tx, params.LeadID, params.Activity.ActionType, params.Activity.Metadata, params.At)
		return err
	})
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}
