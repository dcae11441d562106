package service

import (
	"context"
	"errors"

	"sales_pipeline_backend/internal/appointments/repository"
	"sales_pipeline_backend/internal/appointments/transport"
	"sales_pipeline_backend/internal/events"
	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Repository is the data access the appointments service needs.
type Repository interface {
	Create(ctx context.Context, appt repository.Appointment) (repository.Appointment, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]repository.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (repository.Appointment, error)
}

// Service provides business logic for appointments
type Service struct {
	repo     Repository
	eventBus events.Bus
}

// New creates a new appointments service
func New(repo Repository, eventBus events.Bus) *Service {
	return &Service{repo: repo, eventBus: eventBus}
}

// Create books an appointment for a lead. Type defaults to Discovery and
// status to Scheduled.
func (s *Service) Create(ctx context.Context, leadID uuid.UUID, req transport.CreateAppointmentRequest) (transport.AppointmentResponse, error) {
	title := sanitize.Line(req.Title)
	if title == "" {
		return transport.AppointmentResponse{}, apperr.ValidationFields("validation failed",
			apperr.FieldError{Field: "title", Message: "required"})
	}

	apptType := req.Type
	if apptType == "" {
		apptType = transport.AppointmentTypeDiscovery
	}
	status := req.Status
	if status == "" {
		status = transport.AppointmentStatusScheduled
	}

	appt, err := s.repo.Create(ctx, repository.Appointment{
		LeadID: leadID,
		Title:  title,
		Date:   req.Date.UTC(),
		Type:   string(apptType),
		Status: string(status),
	})
	if errors.Is(err, repository.ErrLeadNotFound) {
		return transport.AppointmentResponse{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return transport.AppointmentResponse{}, apperr.Storage("appointments.create", err)
	}

	s.eventBus.Publish(ctx, events.AppointmentScheduled{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		LeadID:        appt.LeadID,
		Title:         appt.Title,
		Type:          appt.Type,
		Date:          appt.Date,
	})

	return toResponse(appt), nil
}

// ListByLead returns a lead's appointments ordered by date ascending.
func (s *Service) ListByLead(ctx context.Context, leadID uuid.UUID) (transport.AppointmentListResponse, error) {
	appts, err := s.repo.ListByLead(ctx, leadID)
	if err != nil {
		return transport.AppointmentListResponse{}, apperr.Storage("appointments.list", err)
	}
	items := make([]transport.AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		items = append(items, toResponse(a))
	}
	return transport.AppointmentListResponse{Items: items}, nil
}

// UpdateStatus changes an appointment's status.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status transport.AppointmentStatus) (transport.AppointmentResponse, error) {
	appt, err := s.repo.UpdateStatus(ctx, id, string(status))
	if errors.Is(err, repository.ErrNotFound) {
		return transport.AppointmentResponse{}, apperr.NotFound("appointment not found")
	}
	if err != nil {
		return transport.AppointmentResponse{}, apperr.Storage("appointments.status", err)
	}
	return toResponse(appt), nil
}

func toResponse(a repository.Appointment) transport.AppointmentResponse {
	return transport.AppointmentResponse{
		ID:        a.ID,
		LeadID:    a.LeadID,
		Title:     a.Title,
		Date:      a.Date,
		Type:      transport.AppointmentType(a.Type),
		Status:    transport.AppointmentStatus(a.Status),
		CreatedAt: a.CreatedAt,
	}
}
