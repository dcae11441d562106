package transport

import (
	"time"

	"github.com/google/uuid"
)

// GoalType is the period a goal covers.
type GoalType string

const (
	GoalTypeMonthly   GoalType = "Monthly"
	GoalTypeQuarterly GoalType = "Quarterly"
)

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "Active"
	GoalStatusCompleted GoalStatus = "Completed"
)

// TargetDateLayout is the wire format of a goal's target date.
const TargetDateLayout = "2006-01-02"

// CreateGoalRequest is the request body for creating a goal
type CreateGoalRequest struct {
	Type        GoalType `json:"type" validate:"required,oneof=Monthly Quarterly"`
	Description string   `json:"description" validate:"required,max=500"`
	TargetDate  string   `json:"targetDate" validate:"required,datetime=2006-01-02"`
	Amount      *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
	TargetCount *int     `json:"targetCount,omitempty" validate:"omitempty,gte=0"`
	Scope       string   `json:"scope,omitempty" validate:"max=200"`
}

// GoalResponse is the response body for a goal
type GoalResponse struct {
	ID          uuid.UUID  `json:"id"`
	Type        GoalType   `json:"type"`
	Description string     `json:"description"`
	TargetDate  string     `json:"targetDate"`
	Amount      *float64   `json:"amount,omitempty"`
	TargetCount *int       `json:"targetCount,omitempty"`
	Scope       string     `json:"scope,omitempty"`
	Status      GoalStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// GoalListResponse wraps the active goals
type GoalListResponse struct {
	Items []GoalResponse `json:"items"`
}
