package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("appointment not found")
	ErrLeadNotFound = errors.New("lead not found")
)

const pgForeignKeyViolation = "23503"

// Appointment represents the appointment database model
type Appointment struct {
	ID        uuid.UUID `db:"id"`
	LeadID    uuid.UUID `db:"lead_id"`
	Title     string    `db:"title"`
	Date      time.Time `db:"date"`
	Type      string    `db:"type"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

// Repository provides database operations for appointments
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new appointments repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const appointmentColumns = `id, lead_id, title, date, type, status, created_at`

func scanAppointment(row pgx.Row) (Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.LeadID, &a.Title, &a.Date, &a.Type, &a.Status, &a.CreatedAt)
	return a, err
}

// Create inserts a new appointment. ErrLeadNotFound is returned when the
// lead does not exist.
func (r *Repository) Create(ctx context.Context, appt Appointment) (Appointment, error) {
	saved, err := scanAppointment(r.pool.QueryRow(ctx, `
		INSERT INTO appointments (lead_id, title, date, type, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+appointmentColumns,
		appt.LeadID, appt.Title, appt.Date, appt.Type, appt.Status,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return Appointment{}, ErrLeadNotFound
		}
		return Appointment{}, fmt.Errorf("failed to create appointment: %w", err)
	}
	return saved, nil
}

// ListByLead returns a lead's appointments ordered by date ascending
func (r *Repository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE lead_id = $1
		ORDER BY date ASC
	`, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	items := make([]Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// UpdateStatus sets the status of an appointment
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx, `
		UPDATE appointments SET status = $2
		WHERE id = $1
		RETURNING `+appointmentColumns, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Appointment{}, ErrNotFound
	}
	if err != nil {
		return Appointment{}, fmt.Errorf("failed to update appointment status: %w", err)
	}
	return a, nil
}
