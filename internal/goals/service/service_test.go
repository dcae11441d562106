package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sales_pipeline_backend/internal/goals/repository"
	"sales_pipeline_backend/internal/goals/transport"
	"sales_pipeline_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryGoals struct {
	goals   []repository.Goal
	failErr error
}

func (m *memoryGoals) Create(_ context.Context, p repository.CreateGoalParams) (repository.Goal, error) {
	if m.failErr != nil {
		return repository.Goal{}, m.failErr
	}
	g := repository.Goal{
		ID:          uuid.New(),
		Type:        p.Type,
		Description: p.Description,
		TargetDate:  p.TargetDate,
		Amount:      p.Amount,
		TargetCount: p.TargetCount,
		Scope:       p.Scope,
		Status:      string(transport.GoalStatusActive),
		CreatedAt:   time.Now(),
	}
	m.goals = append(m.goals, g)
	return g, nil
}

func (m *memoryGoals) ListActive(context.Context) ([]repository.Goal, error) {
	var out []repository.Goal
	for i := len(m.goals) - 1; i >= 0; i-- {
		if m.goals[i].Status == string(transport.GoalStatusActive) {
			out = append(out, m.goals[i])
		}
	}
	return out, nil
}

func (m *memoryGoals) Complete(_ context.Context, id uuid.UUID) (repository.Goal, error) {
	for i := range m.goals {
		if m.goals[i].ID == id {
			m.goals[i].Status = string(transport.GoalStatusCompleted)
			return m.goals[i], nil
		}
	}
	return repository.Goal{}, repository.ErrNotFound
}

func (m *memoryGoals) LatestActiveWithAmount(context.Context) (repository.Goal, error) {
	if m.failErr != nil {
		return repository.Goal{}, m.failErr
	}
	for i := len(m.goals) - 1; i >= 0; i-- {
		g := m.goals[i]
		if g.Status == string(transport.GoalStatusActive) && g.Amount != nil {
			return g, nil
		}
	}
	return repository.Goal{}, repository.ErrNotFound
}

func amount(v float64) *float64 { return &v }

func TestCreateGoal(t *testing.T) {
	svc := New(&memoryGoals{})

	resp, err := svc.Create(context.Background(), transport.CreateGoalRequest{
		Type:        transport.GoalTypeMonthly,
		Description: "  Close five   deals ",
		TargetDate:  "2026-06-30",
		Amount:      amount(5000),
	})
	require.NoError(t, err)
	assert.Equal(t, "Close five deals", resp.Description)
	assert.Equal(t, "2026-06-30", resp.TargetDate)
	assert.Equal(t, transport.GoalStatusActive, resp.Status)
}

func TestCreateGoalRejectsBadDate(t *testing.T) {
	svc := New(&memoryGoals{})

	_, err := svc.Create(context.Background(), transport.CreateGoalRequest{
		Type:        transport.GoalTypeQuarterly,
		Description: "Q3",
		TargetDate:  "30/09/2026",
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCompleteRemovesFromActiveList(t *testing.T) {
	repo := &memoryGoals{}
	svc := New(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, transport.CreateGoalRequest{Type: transport.GoalTypeMonthly, Description: "A", TargetDate: "2026-06-30"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, transport.CreateGoalRequest{Type: transport.GoalTypeMonthly, Description: "B", TargetDate: "2026-06-30"})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, first.ID)
	require.NoError(t, err)

	list, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "B", list.Items[0].Description)

	_, err = svc.Complete(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRevenueTargetUsesLatestGoalWithAmount(t *testing.T) {
	repo := &memoryGoals{}
	svc := New(repo)
	ctx := context.Background()

	_, ok, err := svc.RevenueTarget(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Create(ctx, transport.CreateGoalRequest{Type: transport.GoalTypeMonthly, Description: "Old", TargetDate: "2026-06-30", Amount: amount(1000)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, transport.CreateGoalRequest{Type: transport.GoalTypeMonthly, Description: "Count only", TargetDate: "2026-06-30"})
	require.NoError(t, err)

	target, ok, err := svc.RevenueTarget(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1000.0, target)
}

func TestRevenueTargetStorageFailure(t *testing.T) {
	svc := New(&memoryGoals{failErr: errors.New("down")})

	_, _, err := svc.RevenueTarget(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindStorage))
}
