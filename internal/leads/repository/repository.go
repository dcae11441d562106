package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("lead not found")
	// ErrStageChanged is returned when the lead's stage moved between the
	// caller's read and the transition write.
	ErrStageChanged = errors.New("lead stage changed concurrently")
)

const pgForeignKeyViolation = "23503"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID               uuid.UUID
	BusinessName     string
	Address          string
	Website          string
	Phone            string
	Email            string
	Industry         string
	Description      string
	PainPoint        string
	SuggestedMessage string
	Stage            string
	Status           string
	DealValue        *float64
	WonAt            *time.Time
	RawData          map[string]any
	CreatedAt        time.Time
	LastActionAt     time.Time
	UpdatedAt        time.Time
}

type CreateLeadParams struct {
	BusinessName     string
	Address          string
	Website          string
	Phone            string
	Email            string
	Industry         string
	Description      string
	PainPoint        string
	SuggestedMessage string
	Stage            string
	Status           string
	RawData          map[string]any
	LastActionAt     time.Time
}

// UpdateLeadParams carries a partial update; nil fields are left unchanged.
type UpdateLeadParams struct {
	BusinessName     *string
	Address          *string
	Website          *string
	Phone            *string
	Email            *string
	Industry         *string
	Description      *string
	PainPoint        *string
	SuggestedMessage *string
	DealValue        *float64
}

type ListParams struct {
	Limit  int
	Offset int
}

const leadColumns = `id, business_name, COALESCE(address, ''), COALESCE(website, ''), COALESCE(phone, ''),
	COALESCE(email, ''), COALESCE(industry, ''), COALESCE(description, ''), COALESCE(pain_point, ''),
	COALESCE(suggested_message, ''), stage, status, deal_value::float8, won_at, raw_data,
	created_at, last_action_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	var raw []byte
	err := row.Scan(
		&lead.ID, &lead.BusinessName, &lead.Address, &lead.Website, &lead.Phone,
		&lead.Email, &lead.Industry, &lead.Description, &lead.PainPoint,
		&lead.SuggestedMessage, &lead.Stage, &lead.Status, &lead.DealValue, &lead.WonAt, &raw,
		&lead.CreatedAt, &lead.LastActionAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	lead.RawData = map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &lead.RawData); err != nil {
			return Lead{}, err
		}
	}
	return lead, nil
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	rawJSON, err := json.Marshal(params.RawData)
	if err != nil {
		return Lead{}, err
	}

	return scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			business_name, address, website, phone, email, industry, description,
			pain_point, suggested_message, stage, status, raw_data, last_action_at
		) VALUES (
			$1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12::jsonb, $13
		)
		RETURNING `+leadColumns,
		params.BusinessName, params.Address, params.Website, params.Phone, params.Email,
		params.Industry, params.Description, params.PainPoint, params.SuggestedMessage,
		params.Stage, params.Status, rawJSON, params.LastActionAt,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
}

// List returns leads newest first along with the total count.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads, err := collectLeads(rows)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func collectLeads(rows pgx.Rows) ([]Lead, error) {
	items := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, lead)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET
			business_name = COALESCE($2, business_name),
			address = COALESCE($3, address),
			website = COALESCE($4, website),
			phone = COALESCE($5, phone),
			email = COALESCE($6, email),
			industry = COALESCE($7, industry),
			description = COALESCE($8, description),
			pain_point = COALESCE($9, pain_point),
			suggested_message = COALESCE($10, suggested_message),
			deal_value = COALESCE($11, deal_value),
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, params.BusinessName, params.Address, params.Website, params.Phone, params.Email,
		params.Industry, params.Description, params.PainPoint, params.SuggestedMessage, params.DealValue,
	))
}

// Delete removes the lead; activities and appointments cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
