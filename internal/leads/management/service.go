// Package management handles lead ingestion and CRUD operations.
// This is a vertically sliced feature package containing service logic
// for creating, reading, and updating leads.
package management

import (
	"context"
	"errors"
	"time"

	"sales_pipeline_backend/internal/events"
	"sales_pipeline_backend/internal/leads/domain"
	"sales_pipeline_backend/internal/leads/repository"
	"sales_pipeline_backend/internal/leads/transport"
	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/phone"
	"sales_pipeline_backend/platform/sanitize"
	"sales_pipeline_backend/platform/validator"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Repository defines the data access interface needed by the management service.
// This is a consumer-driven interface - only what management needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	CountByStage(ctx context.Context) (map[string]int, error)
}

// Service handles lead management operations.
type Service struct {
	repo     Repository
	eventBus events.Bus
	val      *validator.Validator
	phones   phone.Normalizer
	now      func() time.Time
}

// New creates a new lead management service.
func New(repo Repository, eventBus events.Bus, val *validator.Validator, phones phone.Normalizer) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		val:      val,
		phones:   phones,
		now:      time.Now,
	}
}

// Ingest normalizes an inbound payload and stores it as a new lead.
// Duplicates are accepted; nothing about the payload is used as a key.
func (s *Service) Ingest(ctx context.Context, payload map[string]any, source string) (transport.LeadResponse, error) {
	nl, err := domain.Normalize(payload, s.now().UTC())
	if err != nil {
		var missing *domain.MissingFieldError
		if errors.As(err, &missing) {
			return transport.LeadResponse{}, apperr.ValidationFields("validation failed",
				apperr.FieldError{Field: missing.Field, Message: "required"})
		}
		return transport.LeadResponse{}, err
	}

	if nl.Email != "" {
		if err := s.val.Var(nl.Email, "email"); err != nil {
			return transport.LeadResponse{}, apperr.ValidationFields("validation failed",
				apperr.FieldError{Field: "business.email", Message: "must be a valid email address"})
		}
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		BusinessName:     sanitize.Line(nl.BusinessName),
		Address:          sanitize.Line(nl.Address),
		Website:          sanitize.Line(nl.Website),
		Phone:            s.phones.E164(nl.Phone),
		Email:            nl.Email,
		Industry:         sanitize.Line(nl.Industry),
		Description:      sanitize.Text(nl.Description),
		PainPoint:        sanitize.Text(nl.PainPoint),
		SuggestedMessage: sanitize.Text(nl.SuggestedMessage),
		Stage:            nl.Stage,
		Status:           nl.Status,
		RawData:          nl.RawData,
		LastActionAt:     nl.LastActionAt,
	})
	if err != nil {
		return transport.LeadResponse{}, apperr.Storage("leads.ingest", err)
	}

	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		BusinessName: lead.BusinessName,
		Source:       source,
	})

	return transport.ToLeadResponse(lead), nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError("leads.get", err)
	}
	return transport.ToLeadResponse(lead), nil
}

// List returns leads newest first. Limits outside (0, MaxListLimit] are clamped.
func (s *Service) List(ctx context.Context, limit, offset int) (transport.LeadListResponse, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	leads, total, err := s.repo.List(ctx, repository.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		return transport.LeadListResponse{}, apperr.Storage("leads.list", err)
	}

	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = transport.ToLeadResponse(lead)
	}
	return transport.LeadListResponse{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// Update applies a partial update to the lead's business fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	params := repository.UpdateLeadParams{
		BusinessName:     lineOrNil(req.BusinessName),
		Address:          lineOrNil(req.Address),
		Website:          lineOrNil(req.Website),
		Email:            req.Email,
		Industry:         lineOrNil(req.Industry),
		Description:      sanitize.TextPtr(req.Description),
		PainPoint:        sanitize.TextPtr(req.PainPoint),
		SuggestedMessage: sanitize.TextPtr(req.SuggestedMessage),
		DealValue:        req.DealValue,
	}
	if req.Phone != nil {
		normalized := s.phones.E164(*req.Phone)
		params.Phone = &normalized
	}
	if params.BusinessName != nil && *params.BusinessName == "" {
		return transport.LeadResponse{}, apperr.ValidationFields("validation failed",
			apperr.FieldError{Field: "businessName", Message: "required"})
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError("leads.update", err)
	}
	return transport.ToLeadResponse(lead), nil
}

// Funnel returns the number of leads per stage in funnel order. Every stage
// is present, including empty ones.
func (s *Service) Funnel(ctx context.Context) (transport.FunnelResponse, error) {
	counts, err := s.repo.CountByStage(ctx)
	if err != nil {
		return transport.FunnelResponse{}, apperr.Storage("leads.funnel", err)
	}

	resp := transport.FunnelResponse{Stages: make([]transport.StageCount, 0, len(domain.PipelineStages))}
	for _, stage := range domain.PipelineStages {
		n := counts[stage]
		resp.Stages = append(resp.Stages, transport.StageCount{Stage: stage, Count: n})
		resp.Total += n
	}
	return resp, nil
}

func lineOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitize.Line(*s)
	return &v
}

func mapRepoError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	return apperr.Storage(op, err)
}
