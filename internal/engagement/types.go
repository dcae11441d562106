package engagement

import (
	"time"

	"github.com/google/uuid"
)

// StaleLead is an Active lead nobody has acted on recently.
type StaleLead struct {
	ID           uuid.UUID `json:"id"`
	BusinessName string    `json:"businessName"`
	LastActionAt time.Time `json:"lastActionAt"`
}

// Progress is the current month's won revenue measured against the active goal.
type Progress struct {
	CurrentAmount float64 `json:"currentAmount"`
	TargetAmount  float64 `json:"targetAmount"`
	Progress      float64 `json:"progress"`
	IsClose       bool    `json:"isClose"`
}

// Notification is what engagement raises through the notifier.
type Notification struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link"`
}

// CheckResult lists the notifications raised by one engagement check.
type CheckResult struct {
	Notifications []Notification `json:"notifications"`
}

// StaleLeadsResponse wraps the stale lead list.
type StaleLeadsResponse struct {
	Items []StaleLead `json:"items"`
}

// GoalProgressResponse reports progress or its absence.
type GoalProgressResponse struct {
	HasGoal  bool      `json:"hasGoal"`
	Progress *Progress `json:"progress,omitempty"`
}
