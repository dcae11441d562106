// Package ports defines the interfaces the leads module needs from other
// bounded contexts. Implementations live in internal/adapters.
package ports

import (
	"context"
	"time"
)

// Notification is an in-app notification the leads module wants raised.
type Notification struct {
	Type    string
	Title   string
	Message string
	Link    string
}

// Notifier raises in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// GoalProgress is the current month's won revenue against the active goal.
type GoalProgress struct {
	CurrentAmount float64
	TargetAmount  float64
	Progress      float64
	IsClose       bool
}

// GoalProgressReader reports goal progress. ok is false when there is no
// active goal with an amount or the lookup failed.
type GoalProgressReader interface {
	CurrentGoalProgress(ctx context.Context, now time.Time) (progress GoalProgress, ok bool)
}
