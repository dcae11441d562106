package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// UpdateLeadRequest is a partial update of the lead's business fields.
type UpdateLeadRequest struct {
	BusinessName     *string  `json:"businessName,omitempty" validate:"omitempty,min=1,max=200"`
	Address          *string  `json:"address,omitempty" validate:"omitempty,max=300"`
	Website          *string  `json:"website,omitempty" validate:"omitempty,max=300"`
	Phone            *string  `json:"phone,omitempty" validate:"omitempty,max=40"`
	Email            *string  `json:"email,omitempty" validate:"omitempty,email"`
	Industry         *string  `json:"industry,omitempty" validate:"omitempty,max=120"`
	Description      *string  `json:"description,omitempty" validate:"omitempty,max=4000"`
	PainPoint        *string  `json:"painPoint,omitempty" validate:"omitempty,max=2000"`
	SuggestedMessage *string  `json:"suggestedMessage,omitempty" validate:"omitempty,max=2000"`
	DealValue        *float64 `json:"dealValue,omitempty" validate:"omitempty,gte=0"`
}

// TransitionStageRequest moves a lead to another pipeline stage. Confirm is
// required when the target is ClosedLost.
type TransitionStageRequest struct {
	Stage     string   `json:"stage" validate:"required"`
	Confirm   bool     `json:"confirm"`
	DealValue *float64 `json:"dealValue,omitempty" validate:"omitempty,gte=0"`
}

type LogActivityRequest struct {
	ActionType string         `json:"actionType" validate:"required,max=100"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// BANTRequest carries the qualification answers. Omitted fields are left
// out of the stored record; blank ones are kept blank.
type BANTRequest struct {
	Budget    *string `json:"budget,omitempty" validate:"omitempty,max=500"`
	Authority *string `json:"authority,omitempty" validate:"omitempty,max=500"`
	Need      *string `json:"need,omitempty" validate:"omitempty,max=500"`
	Timing    *string `json:"timing,omitempty" validate:"omitempty,max=500"`
}

// Response DTOs

type LeadResponse struct {
	ID               uuid.UUID      `json:"id"`
	BusinessName     string         `json:"businessName"`
	Address          string         `json:"address,omitempty"`
	Website          string         `json:"website,omitempty"`
	Phone            string         `json:"phone,omitempty"`
	Email            string         `json:"email,omitempty"`
	Industry         string         `json:"industry,omitempty"`
	Description      string         `json:"description,omitempty"`
	PainPoint        string         `json:"painPoint,omitempty"`
	SuggestedMessage string         `json:"suggestedMessage,omitempty"`
	Stage            string         `json:"stage"`
	Status           string         `json:"status"`
	DealValue        *float64       `json:"dealValue,omitempty"`
	WonAt            *time.Time     `json:"wonAt,omitempty"`
	RawData          map[string]any `json:"rawData"`
	CreatedAt        time.Time      `json:"createdAt"`
	LastActionAt     time.Time      `json:"lastActionAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

type IngestResponse struct {
	Success bool         `json:"success"`
	Lead    LeadResponse `json:"lead"`
}

type LeadListResponse struct {
	Items  []LeadResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// TransitionResponse reports the outcome of a stage change. Lead is nil when
// the lead was deleted.
type TransitionResponse struct {
	Lead    *LeadResponse `json:"lead,omitempty"`
	Noop    bool          `json:"noop"`
	Deleted bool          `json:"deleted"`
}

type ActivityResponse struct {
	ID         uuid.UUID      `json:"id"`
	LeadID     uuid.UUID      `json:"leadId"`
	ActionType string         `json:"actionType"`
	Metadata   map[string]any `json:"metadata"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type ActivityListResponse struct {
	Items []ActivityResponse `json:"items"`
}

type StageCount struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

type FunnelResponse struct {
	Stages []StageCount `json:"stages"`
	Total  int          `json:"total"`
}
