// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"sales_pipeline_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a lead is ingested.
type LeadCreated struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	BusinessName string    `json:"businessName"`
	Source       string    `json:"source"` // "api" or "webhook"
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// PipelineStageChanged is published after an effective stage transition.
type PipelineStageChanged struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	OldStage string    `json:"oldStage"`
	NewStage string    `json:"newStage"`
}

func (e PipelineStageChanged) EventName() string { return "leads.pipeline.stage_changed" }

// DealWon is published when a lead enters ClosedWon.
type DealWon struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	BusinessName string    `json:"businessName"`
	DealValue    *float64  `json:"dealValue,omitempty"`
	WonAt        time.Time `json:"wonAt"`
}

func (e DealWon) EventName() string { return "leads.deal.won" }

// LeadTerminated is published when a lead is removed via ClosedLost.
type LeadTerminated struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	BusinessName string    `json:"businessName"`
}

func (e LeadTerminated) EventName() string { return "leads.lead.terminated" }

// ActivityLogged is published when an activity record is appended.
type ActivityLogged struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	ActionType string    `json:"actionType"`
}

func (e ActivityLogged) EventName() string { return "leads.activity.logged" }

// =============================================================================
// Appointments Domain Events
// =============================================================================

// AppointmentScheduled is published when an appointment is created.
type AppointmentScheduled struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	LeadID        uuid.UUID `json:"leadId"`
	Title         string    `json:"title"`
	Type          string    `json:"type"`
	Date          time.Time `json:"date"`
}

func (e AppointmentScheduled) EventName() string { return "appointments.appointment.scheduled" }

// =============================================================================
// Notification Domain Events
// =============================================================================

// NotificationCreated is published after an in-app notification is persisted.
// Delivery channels (SSE, Web Push, email) subscribe to it.
type NotificationCreated struct {
	BaseEvent
	NotificationID uuid.UUID `json:"notificationId"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Link           *string   `json:"link,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (e NotificationCreated) EventName() string { return "notifications.notification.created" }
