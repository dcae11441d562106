package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("goal not found")

// Goal represents the goal database model
type Goal struct {
	ID          uuid.UUID
	Type        string
	Description string
	TargetDate  time.Time
	Amount      *float64
	TargetCount *int
	Scope       string
	Status      string
	CreatedAt   time.Time
}

type CreateGoalParams struct {
	Type        string
	Description string
	TargetDate  time.Time
	Amount      *float64
	TargetCount *int
	Scope       string
}

// Repository provides database operations for goals
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new goals repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const goalColumns = `id, type, description, target_date, amount::float8, target_count, COALESCE(scope, ''), status, created_at`

func scanGoal(row pgx.Row) (Goal, error) {
	var g Goal
	err := row.Scan(&g.ID, &g.Type, &g.Description, &g.TargetDate, &g.Amount, &g.TargetCount, &g.Scope, &g.Status, &g.CreatedAt)
	return g, err
}

// Create inserts a new Active goal
func (r *Repository) Create(ctx context.Context, params CreateGoalParams) (Goal, error) {
	g, err := scanGoal(r.pool.QueryRow(ctx, `
		INSERT INTO goals (type, description, target_date, amount, target_count, scope)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING `+goalColumns,
		params.Type, params.Description, params.TargetDate, params.Amount, params.TargetCount, params.Scope,
	))
	if err != nil {
		return Goal{}, fmt.Errorf("failed to create goal: %w", err)
	}
	return g, nil
}

// ListActive returns Active goals, newest first
func (r *Repository) ListActive(ctx context.Context) ([]Goal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE status = 'Active'
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := make([]Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// Complete marks a goal Completed
func (r *Repository) Complete(ctx context.Context, id uuid.UUID) (Goal, error) {
	g, err := scanGoal(r.pool.QueryRow(ctx, `
		UPDATE goals SET status = 'Completed'
		WHERE id = $1
		RETURNING `+goalColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Goal{}, ErrNotFound
	}
	if err != nil {
		return Goal{}, fmt.Errorf("failed to complete goal: %w", err)
	}
	return g, nil
}

// LatestActiveWithAmount returns the most recently created Active goal that
// carries a revenue amount.
func (r *Repository) LatestActiveWithAmount(ctx context.Context) (Goal, error) {
	g, err := scanGoal(r.pool.QueryRow(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE status = 'Active' AND amount IS NOT NULL
		ORDER BY created_at DESC
		LIMIT 1
	`))
	if errors.Is(err, pgx.ErrNoRows) {
		return Goal{}, ErrNotFound
	}
	if err != nil {
		return Goal{}, fmt.Errorf("failed to load active goal: %w", err)
	}
	return g, nil
}
