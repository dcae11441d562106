package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"sales_pipeline_backend/internal/goals/repository"
	"sales_pipeline_backend/internal/goals/transport"
	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Repository is the data access the goals service needs.
type Repository interface {
	Create(ctx context.Context, params repository.CreateGoalParams) (repository.Goal, error)
	ListActive(ctx context.Context) ([]repository.Goal, error)
	Complete(ctx context.Context, id uuid.UUID) (repository.Goal, error)
	LatestActiveWithAmount(ctx context.Context) (repository.Goal, error)
}

// Service provides business logic for goals
type Service struct {
	repo Repository
}

// New creates a new goals service
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new Active goal. The request is expected to be validated.
func (s *Service) Create(ctx context.Context, req transport.CreateGoalRequest) (transport.GoalResponse, error) {
	targetDate, err := time.Parse(transport.TargetDateLayout, req.TargetDate)
	if err != nil {
		return transport.GoalResponse{}, apperr.ValidationFields("validation failed",
			apperr.FieldError{Field: "targetDate", Message: "must be a date in YYYY-MM-DD format"})
	}

	description := sanitize.Line(req.Description)
	if description == "" {
		return transport.GoalResponse{}, apperr.ValidationFields("validation failed",
			apperr.FieldError{Field: "description", Message: "required"})
	}

	g, err := s.repo.Create(ctx, repository.CreateGoalParams{
		Type:        string(req.Type),
		Description: description,
		TargetDate:  targetDate,
		Amount:      req.Amount,
		TargetCount: req.TargetCount,
		Scope:       strings.TrimSpace(sanitize.Line(req.Scope)),
	})
	if err != nil {
		return transport.GoalResponse{}, apperr.Storage("goals.create", err)
	}
	return toResponse(g), nil
}

// ListActive returns the Active goals, newest first.
func (s *Service) ListActive(ctx context.Context) (transport.GoalListResponse, error) {
	goals, err := s.repo.ListActive(ctx)
	if err != nil {
		return transport.GoalListResponse{}, apperr.Storage("goals.list", err)
	}
	items := make([]transport.GoalResponse, 0, len(goals))
	for _, g := range goals {
		items = append(items, toResponse(g))
	}
	return transport.GoalListResponse{Items: items}, nil
}

// Complete marks a goal Completed.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (transport.GoalResponse, error) {
	g, err := s.repo.Complete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.GoalResponse{}, apperr.NotFound("goal not found")
	}
	if err != nil {
		return transport.GoalResponse{}, apperr.Storage("goals.complete", err)
	}
	return toResponse(g), nil
}

// RevenueTarget returns the amount of the most recent Active goal that has
// one. ok is false when no such goal exists.
func (s *Service) RevenueTarget(ctx context.Context) (amount float64, ok bool, err error) {
	g, err := s.repo.LatestActiveWithAmount(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, apperr.Storage("goals.latest", err)
	}
	if g.Amount == nil {
		return 0, false, nil
	}
	return *g.Amount, true, nil
}

func toResponse(g repository.Goal) transport.GoalResponse {
	return transport.GoalResponse{
		ID:          g.ID,
		Type:        transport.GoalType(g.Type),
		Description: g.Description,
		TargetDate:  g.TargetDate.Format(transport.TargetDateLayout),
		Amount:      g.Amount,
		TargetCount: g.TargetCount,
		Scope:       g.Scope,
		Status:      transport.GoalStatus(g.Status),
		CreatedAt:   g.CreatedAt,
	}
}
