// Package pipeline implements the lead stage state machine.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"sales_pipeline_backend/internal/events"
	"sales_pipeline_backend/internal/leads/domain"
	"sales_pipeline_backend/internal/leads/ports"
	"sales_pipeline_backend/internal/leads/repository"
	"sales_pipeline_backend/internal/leads/transport"
	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Repository defines the data access the state machine needs.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
	repository.PipelineWriter
}

// TransitionParams is a requested stage change.
type TransitionParams struct {
	Stage     string
	Confirm   bool
	DealValue *float64
}

// Service applies stage transitions and their side effects.
type Service struct {
	repo     Repository
	notifier ports.Notifier
	goals    ports.GoalProgressReader
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

func New(repo Repository, notifier ports.Notifier, goals ports.GoalProgressReader, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		goals:    goals,
		eventBus: eventBus,
		log:      log,
		now:      time.Now,
	}
}

// SetGoalProgressReader injects the goal progress source after construction.
// Engagement depends on the leads repository, so it is wired last.
func (s *Service) SetGoalProgressReader(goals ports.GoalProgressReader) {
	s.goals = goals
}

// Transition moves a lead to params.Stage.
//
// A request for the current stage changes nothing. ClosedLost removes the
// lead and requires Confirm. ClosedWon marks the lead Won and raises exactly
// one success notification.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, params TransitionParams) (transport.TransitionResponse, error) {
	if params.DealValue != nil && (*params.DealValue < 0 || math.IsNaN(*params.DealValue)) {
		return transport.TransitionResponse{}, apperr.ValidationFields("validation failed",
			apperr.FieldError{Field: "dealValue", Message: "must be greater than or equal to 0"})
	}

	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TransitionResponse{}, mapRepoError("pipeline.load", err)
	}

	kind, err := domain.PlanTransition(lead.Stage, params.Stage)
	if err != nil {
		var te *domain.TransitionError
		if errors.As(err, &te) && te.Unknown {
			return transport.TransitionResponse{}, apperr.ValidationFields("validation failed",
				apperr.FieldError{Field: "stage", Message: err.Error()})
		}
		return transport.TransitionResponse{}, apperr.Conflict(err.Error())
	}

	switch kind {
	case domain.TransitionNoop:
		resp := transport.ToLeadResponse(lead)
		return transport.TransitionResponse{Lead: &resp, Noop: true}, nil
	case domain.TransitionTerminate:
		if err := s.terminate(ctx, lead, params.Confirm); err != nil {
			return transport.TransitionResponse{}, err
		}
		return transport.TransitionResponse{Deleted: true}, nil
	}

	now := s.now().UTC()
	change := repository.PipelineChange{
		LeadID:          lead.ID,
		FromStage:       lead.Stage,
		ToStage:         params.Stage,
		TouchLastAction: params.Stage == domain.PipelineStageContacted,
		At:              now,
	}
	if kind == domain.TransitionWin {
		won := domain.LeadStatusWon
		change.Status = &won
		change.WonAt = &now
		change.DealValue = params.DealValue
	}

	updated, err := s.repo.ApplyTransition(ctx, change)
	if err != nil {
		if errors.Is(err, repository.ErrStageChanged) {
			return transport.TransitionResponse{}, apperr.Conflict("lead stage changed, reload and retry")
		}
		return transport.TransitionResponse{}, mapRepoError("pipeline.transition", err)
	}

	s.eventBus.Publish(ctx, events.PipelineStageChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    updated.ID,
		OldStage:  lead.Stage,
		NewStage:  updated.Stage,
	})

	if kind == domain.TransitionWin {
		s.announceWin(ctx, updated, now)
	}

	resp := transport.ToLeadResponse(updated)
	return transport.TransitionResponse{Lead: &resp}, nil
}

// Terminate deletes a lead through the ClosedLost path.
func (s *Service) Terminate(ctx context.Context, id uuid.UUID, confirm bool) error {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapRepoError("pipeline.load", err)
	}
	return s.terminate(ctx, lead, confirm)
}

func (s *Service) terminate(ctx context.Context, lead repository.Lead, confirm bool) error {
	if !confirm {
		return apperr.ValidationFields("confirmation required",
			apperr.FieldError{Field: "confirm", Message: "must be true to permanently delete the lead"})
	}
	if err := s.repo.Delete(ctx, lead.ID); err != nil {
		return mapRepoError("pipeline.terminate", err)
	}

	s.log.Info("lead terminated", slog.String("leadId", lead.ID.String()), slog.String("fromStage", lead.Stage))
	s.eventBus.Publish(ctx, events.LeadTerminated{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		BusinessName: lead.BusinessName,
	})
	return nil
}

// announceWin raises the single success notification for a won deal. The
// transition has already committed; a notification failure is only logged.
func (s *Service) announceWin(ctx context.Context, lead repository.Lead, wonAt time.Time) {
	s.eventBus.Publish(ctx, events.DealWon{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		BusinessName: lead.BusinessName,
		DealValue:    lead.DealValue,
		WonAt:        wonAt,
	})

	var progress ports.GoalProgress
	ok := false
	if s.goals != nil {
		progress, ok = s.goals.CurrentGoalProgress(ctx, wonAt)
	}
	n := WinNotification(lead.ID, progress, ok)
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.WithContext(ctx).Warn("deal won notification failed",
			slog.String("leadId", lead.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

var moneyPrinter = message.NewPrinter(language.English)

// WinNotification builds the ClosedWon notification. When the month's goal
// is within reach the message reports the remaining amount.
func WinNotification(leadID uuid.UUID, progress ports.GoalProgress, haveGoal bool) ports.Notification {
	link := fmt.Sprintf("/leads/%s/presentation", leadID)
	if haveGoal && progress.IsClose {
		remaining := progress.TargetAmount - progress.CurrentAmount
		return ports.Notification{
			Type:    "success",
			Title:   "Finish Line in Sight",
			Message: fmt.Sprintf("You are at %d%% of your goal. Only $%s to go!", int(math.Round(progress.Progress*100)), formatMoney(remaining)),
			Link:    link,
		}
	}
	return ports.Notification{
		Type:    "success",
		Title:   "Mission Accomplished",
		Message: "Deal secured. Revenue has been recorded.",
		Link:    link,
	}
}

func formatMoney(v float64) string {
	if v == math.Trunc(v) {
		return moneyPrinter.Sprintf("%d", int64(v))
	}
	return moneyPrinter.Sprintf("%.2f", v)
}

func mapRepoError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	return apperr.Storage(op, err)
}
