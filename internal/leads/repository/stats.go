package repository

import (
	"context"
	"time"
)

// ListStale returns Active leads whose last action is older than before,
// oldest first.
func (r *Repository) ListStale(ctx context.Context, before time.Time, limit int) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE status = 'Active' AND last_action_at < $1
		ORDER BY last_action_at ASC
		LIMIT $2
	`, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeads(rows)
}

// SumWonValueSince totals deal_value of leads won at or after since.
func (r *Repository) SumWonValueSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(deal_value), 0)::float8
		FROM leads
		WHERE stage = 'ClosedWon' AND won_at >= $1
	`, since).Scan(&total)
	return total, err
}

// CountByStage returns the number of leads per stage. Stages without leads
// are absent from the map.
func (r *Repository) CountByStage(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT stage, COUNT(*) FROM leads GROUP BY stage`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var stage string
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, err
		}
		counts[stage] = n
	}
	return counts, rows.Err()
}
