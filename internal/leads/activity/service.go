// Package activity records sales activities against leads.
package activity

import (
	"context"
	"errors"
	"strings"
	"time"

	"sales_pipeline_backend/internal/events"
	"sales_pipeline_backend/internal/leads/domain"
	"sales_pipeline_backend/internal/leads/repository"
	"sales_pipeline_backend/internal/leads/transport"
	"sales_pipeline_backend/platform/apperr"

	"github.com/google/uuid"
)

const listLimit = 200

// Service logs activities and applies their first-order effects.
type Service struct {
	repo     repository.ActivityStore
	eventBus events.Bus
	now      func() time.Time
}

func New(repo repository.ActivityStore, eventBus events.Bus) *Service {
	return &Service{repo: repo, eventBus: eventBus, now: time.Now}
}

// Log appends an activity. A call or email (any case) also marks the lead
// Contacted and stamps last_action_at; the stage is left alone. Both writes
// commit together.
func (s *Service) Log(ctx context.Context, leadID uuid.UUID, actionType string, metadata map[string]any) (transport.ActivityResponse, error) {
	actionType = strings.TrimSpace(actionType)
	if actionType == "" {
		return transport.ActivityResponse{}, apperr.ValidationFields("validation failed",
			apperr.FieldError{Field: "actionType", Message: "required"})
	}

	record, err := s.repo.AppendActivity(ctx, repository.AppendActivityParams{
		LeadID:        leadID,
		ActionType:    actionType,
		Metadata:      metadata,
		At:            s.now().UTC(),
		MarkContacted: domain.IsQualifyingContact(actionType),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ActivityResponse{}, apperr.NotFound("lead not found")
		}
		return transport.ActivityResponse{}, apperr.Storage("activity.log", err)
	}

	s.eventBus.Publish(ctx, events.ActivityLogged{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		ActionType: actionType,
	})

	return transport.ToActivityResponse(record), nil
}

// List returns a lead's activities newest first.
func (s *Service) List(ctx context.Context, leadID uuid.UUID) (transport.ActivityListResponse, error) {
	records, err := s.repo.ListActivities(ctx, leadID, listLimit)
	if err != nil {
		return transport.ActivityListResponse{}, apperr.Storage("activity.list", err)
	}
	items := make([]transport.ActivityResponse, len(records))
	for i, r := range records {
		items[i] = transport.ToActivityResponse(r)
	}
	return transport.ActivityListResponse{Items: items}, nil
}
