package inapp

import (
	"context"
	"errors"
	"log/slog"

	"sales_pipeline_backend/internal/events"
	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/logger"
	"sales_pipeline_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Store is the persistence the in-app service needs.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Notification, error)
	ListLatest(ctx context.Context, limit int) ([]Notification, error)
	CountUnread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) (int64, error)
}

type Service struct {
	repo     Store
	eventBus events.Bus
	log      *logger.Logger
}

func NewService(repo Store, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		log:      log,
	}
}

type SendParams struct {
	Type    string // "info", "success", "warning", "error"
	Title   string
	Message string
	Link    string
}

// Send persists the notification and announces it to the delivery channels.
func (s *Service) Send(ctx context.Context, p SendParams) (Notification, error) {
	if p.Type == "" {
		p.Type = "info"
	}
	switch p.Type {
	case "info", "success", "warning", "error":
	default:
		return Notification{}, apperr.ValidationFields("validation failed",
			apperr.FieldError{Field: "type", Message: "must be one of: info success warning error"})
	}

	title := sanitize.Line(p.Title)
	message := sanitize.Text(p.Message)
	if title == "" || message == "" {
		var fields []apperr.FieldError
		if title == "" {
			fields = append(fields, apperr.FieldError{Field: "title", Message: "required"})
		}
		if message == "" {
			fields = append(fields, apperr.FieldError{Field: "message", Message: "required"})
		}
		return Notification{}, apperr.ValidationFields("validation failed", fields...)
	}

	var link *string
	if l := sanitize.Line(p.Link); l != "" {
		link = &l
	}

	n, err := s.repo.Create(ctx, CreateParams{
		Type:    p.Type,
		Title:   title,
		Message: message,
		Link:    link,
	})
	if err != nil {
		s.log.Error("failed to persist in-app notification", slog.String("error", err.Error()), slog.String("title", title))
		return Notification{}, apperr.Storage("notification.create", err)
	}

	s.eventBus.Publish(ctx, events.NotificationCreated{
		BaseEvent:      events.NewBaseEvent(),
		NotificationID: n.ID,
		Type:           n.Type,
		Title:          n.Title,
		Message:        n.Message,
		Link:           n.Link,
		CreatedAt:      n.CreatedAt,
	})

	return n, nil
}

// List returns the latest notifications. A limit outside 1..MaxListLimit
// falls back to DefaultListLimit or is capped.
func (s *Service) List(ctx context.Context, limit int) ([]Notification, error) {
	if limit < 1 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	items, err := s.repo.ListLatest(ctx, limit)
	if err != nil {
		return nil, apperr.Storage("notification.list", err)
	}
	return items, nil
}

func (s *Service) CountUnread(ctx context.Context) (int, error) {
	count, err := s.repo.CountUnread(ctx)
	if err != nil {
		return 0, apperr.Storage("notification.count_unread", err)
	}
	return count, nil
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	err := s.repo.MarkRead(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("notification not found")
	}
	if err != nil {
		return apperr.Storage("notification.mark_read", err)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx)
	if err != nil {
		return 0, apperr.Storage("notification.mark_all_read", err)
	}
	return n, nil
}
