package adapters

import (
	"context"
	"time"

	"sales_pipeline_backend/internal/engagement"
	leadsrepo "sales_pipeline_backend/internal/leads/repository"
)

// LeadStatsStore is the slice of the leads repository engagement reads.
type LeadStatsStore interface {
	ListStale(ctx context.Context, before time.Time, limit int) ([]leadsrepo.Lead, error)
	SumWonValueSince(ctx context.Context, since time.Time) (float64, error)
}

// LeadStats adapts the leads repository to engagement.LeadStats.
type LeadStats struct {
	store LeadStatsStore
}

func NewLeadStats(store LeadStatsStore) *LeadStats {
	return &LeadStats{store: store}
}

func (a *LeadStats) StaleLeads(ctx context.Context, before time.Time, limit int) ([]engagement.StaleLead, error) {
	leads, err := a.store.ListStale(ctx, before, limit)
	if err != nil {
		return nil, err
	}
	out := make([]engagement.StaleLead, 0, len(leads))
	for _, l := range leads {
		out = append(out, engagement.StaleLead{ID: l.ID, BusinessName: l.BusinessName, LastActionAt: l.LastActionAt})
	}
	return out, nil
}

func (a *LeadStats) WonRevenueSince(ctx context.Context, since time.Time) (float64, error) {
	return a.store.SumWonValueSince(ctx, since)
}

var (
	_ engagement.LeadStats = (*LeadStats)(nil)
	_ LeadStatsStore       = (*leadsrepo.Repository)(nil)
)
