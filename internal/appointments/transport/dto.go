package transport

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentType defines the type of appointment
type AppointmentType string

const (
	AppointmentTypeDiscovery  AppointmentType = "Discovery"
	AppointmentTypeDemo       AppointmentType = "Demo"
	AppointmentTypeContract   AppointmentType = "Contract"
	AppointmentTypeOnboarding AppointmentType = "Onboarding"
)

// AppointmentStatus defines the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "Scheduled"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

// CreateAppointmentRequest is the request body for creating an appointment
type CreateAppointmentRequest struct {
	Title  string            `json:"title" validate:"required,min=1,max=200"`
	Date   time.Time         `json:"date" validate:"required"`
	Type   AppointmentType   `json:"type,omitempty" validate:"omitempty,oneof=Discovery Demo Contract Onboarding"`
	Status AppointmentStatus `json:"status,omitempty" validate:"omitempty,oneof=Scheduled Completed Cancelled"`
}

// UpdateAppointmentStatusRequest is the request body for updating appointment status
type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" validate:"required,oneof=Scheduled Completed Cancelled"`
}

// AppointmentResponse is the response body for an appointment
type AppointmentResponse struct {
	ID        uuid.UUID         `json:"id"`
	LeadID    uuid.UUID         `json:"leadId"`
	Title     string            `json:"title"`
	Date      time.Time         `json:"date"`
	Type      AppointmentType   `json:"type"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// AppointmentListResponse is the response for listing a lead's appointments
type AppointmentListResponse struct {
	Items []AppointmentResponse `json:"items"`
}
