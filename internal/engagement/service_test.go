package engagement

import (
	"context"
	"errors"
	"testing"
	"time"

	"sales_pipeline_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeadStats struct {
	leads  []StaleLead
	won    float64
	err    error
	since  time.Time
	before time.Time
}

func (f *fakeLeadStats) StaleLeads(_ context.Context, before time.Time, limit int) ([]StaleLead, error) {
	f.before = before
	if f.err != nil {
		return nil, f.err
	}
	out := make([]StaleLead, 0, limit)
	for _, l := range f.leads {
		if l.LastActionAt.Before(before) && len(out) < limit {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLeadStats) WonRevenueSince(_ context.Context, since time.Time) (float64, error) {
	f.since = since
	return f.won, f.err
}

type fakeGoals struct {
	amount float64
	ok     bool
	err    error
}

func (f fakeGoals) RevenueTarget(context.Context) (float64, bool, error) {
	return f.amount, f.ok, f.err
}

type recordingNotifier struct {
	sent []Notification
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, n)
	return nil
}

var checkTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestRunRaisesBriefingAndGhostAlert(t *testing.T) {
	staleID := uuid.New()
	stats := &fakeLeadStats{leads: []StaleLead{
		{ID: staleID, BusinessName: "Acme", LastActionAt: checkTime.Add(-8 * 24 * time.Hour)},
		{ID: uuid.New(), BusinessName: "Fresh", LastActionAt: checkTime.Add(-6 * 24 * time.Hour)},
	}}
	notifier := &recordingNotifier{}
	svc := NewService(stats, fakeGoals{}, notifier, NewMemoryMarkerStore(), logger.Nop())

	result := svc.Run(context.Background(), "dev-1", time.UTC, checkTime)

	require.Len(t, result.Notifications, 2)
	assert.Equal(t, "Morning Briefing", result.Notifications[0].Title)
	assert.Equal(t, "info", result.Notifications[0].Type)

	ghost := result.Notifications[1]
	assert.Equal(t, "warning", ghost.Type)
	assert.Equal(t, "Acme hasn't been touched in 7 days. They are slipping away.", ghost.Message)
	assert.Equal(t, "/leads/"+staleID.String()+"/onboarding", ghost.Link)
	assert.Equal(t, notifier.sent, result.Notifications)
	assert.Equal(t, checkTime.Add(-StaleAfter), stats.before)
}

func TestRunSecondCallRaisesNothing(t *testing.T) {
	stats := &fakeLeadStats{leads: []StaleLead{
		{ID: uuid.New(), BusinessName: "Acme", LastActionAt: checkTime.Add(-8 * 24 * time.Hour)},
	}}
	notifier := &recordingNotifier{}
	svc := NewService(stats, fakeGoals{}, notifier, NewMemoryMarkerStore(), logger.Nop())
	ctx := context.Background()

	first := svc.Run(ctx, "dev-1", time.UTC, checkTime)
	second := svc.Run(ctx, "dev-1", time.UTC, checkTime.Add(10*time.Minute))

	assert.Len(t, first.Notifications, 2)
	assert.Empty(t, second.Notifications)
	assert.NotNil(t, second.Notifications)

	third := svc.Run(ctx, "dev-1", time.UTC, checkTime.Add(2*time.Hour))
	require.Len(t, third.Notifications, 1)
	assert.Equal(t, "Ghost Alert", third.Notifications[0].Title)
}

func TestRunUsesLocalCalendarDay(t *testing.T) {
	loc, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)
	svc := NewService(&fakeLeadStats{}, fakeGoals{}, &recordingNotifier{}, NewMemoryMarkerStore(), logger.Nop())
	ctx := context.Background()

	// 23:00 UTC on the 9th is already the 10th in Auckland.
	late := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)
	assert.Len(t, svc.Run(ctx, "dev-1", loc, late).Notifications, 1)
	assert.Empty(t, svc.Run(ctx, "dev-1", loc, late.Add(10*time.Hour)).Notifications)
}

func TestRunDegradesOnFailures(t *testing.T) {
	stats := &fakeLeadStats{err: errors.New("db down")}
	notifier := &recordingNotifier{err: errors.New("insert failed")}
	svc := NewService(stats, fakeGoals{}, notifier, NewMemoryMarkerStore(), logger.Nop())

	result := svc.Run(context.Background(), "dev-1", time.UTC, checkTime)
	assert.Empty(t, result.Notifications)
}

func TestGoalProgress(t *testing.T) {
	stats := &fakeLeadStats{won: 850}
	svc := NewService(stats, fakeGoals{amount: 1000, ok: true}, &recordingNotifier{}, nil, logger.Nop())

	progress, ok := svc.GoalProgress(context.Background(), checkTime)
	require.True(t, ok)
	assert.InDelta(t, 0.85, progress.Progress, 1e-9)
	assert.True(t, progress.IsClose)
	assert.Equal(t, 1000.0, progress.TargetAmount)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), stats.since)
}

func TestGoalProgressWithoutGoal(t *testing.T) {
	svc := NewService(&fakeLeadStats{}, fakeGoals{}, &recordingNotifier{}, nil, logger.Nop())
	_, ok := svc.GoalProgress(context.Background(), checkTime)
	assert.False(t, ok)

	svc = NewService(&fakeLeadStats{}, fakeGoals{err: errors.New("boom")}, &recordingNotifier{}, nil, logger.Nop())
	_, ok = svc.GoalProgress(context.Background(), checkTime)
	assert.False(t, ok)
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		target  float64
		ratio   float64
		close   bool
	}{
		{name: "below threshold", current: 500, target: 1000, ratio: 0.5},
		{name: "at threshold", current: 800, target: 1000, ratio: 0.8, close: true},
		{name: "reached", current: 1000, target: 1000, ratio: 1},
		{name: "zero target", current: 3, target: 0, ratio: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ComputeProgress(tt.current, tt.target)
			assert.InDelta(t, tt.ratio, p.Progress, 1e-9)
			assert.Equal(t, tt.close, p.IsClose)
		})
	}
}
