package adapters

import (
	"context"
	"time"

	"sales_pipeline_backend/internal/engagement"
	leadports "sales_pipeline_backend/internal/leads/ports"
)

// ProgressSource computes goal progress.
type ProgressSource interface {
	GoalProgress(ctx context.Context, now time.Time) (engagement.Progress, bool)
}

// GoalProgressReader lets the pipeline ask engagement how close the goal is
// when a deal is won.
type GoalProgressReader struct {
	source ProgressSource
}

func NewGoalProgressReader(source ProgressSource) *GoalProgressReader {
	return &GoalProgressReader{source: source}
}

func (a *GoalProgressReader) CurrentGoalProgress(ctx context.Context, now time.Time) (leadports.GoalProgress, bool) {
	p, ok := a.source.GoalProgress(ctx, now)
	if !ok {
		return leadports.GoalProgress{}, false
	}
	return leadports.GoalProgress{
		CurrentAmount: p.CurrentAmount,
		TargetAmount:  p.TargetAmount,
		Progress:      p.Progress,
		IsClose:       p.IsClose,
	}, true
}

var (
	_ leadports.GoalProgressReader = (*GoalProgressReader)(nil)
	_ ProgressSource               = (*engagement.Service)(nil)
)
