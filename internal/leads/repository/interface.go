package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PipelineWriter applies stage transitions.
type PipelineWriter interface {
	ApplyTransition(ctx context.Context, change PipelineChange) (Lead, error)
}

// ActivityStore records and lists the append-only activity trail on leads.
type ActivityStore interface {
	AppendActivity(ctx context.Context, params AppendActivityParams) (Activity, error)
	ListActivities(ctx context.Context, leadID uuid.UUID, limit int) ([]Activity, error)
}

// ExtensionBagWriter merges a top-level key into a lead's raw_data.
type ExtensionBagWriter interface {
	MergeRawData(ctx context.Context, params MergeRawDataParams) (Lead, error)
}

// StatsReader provides the aggregate queries used by engagement and the funnel.
type StatsReader interface {
	ListStale(ctx context.Context, before time.Time, limit int) ([]Lead, error)
	SumWonValueSince(ctx context.Context, since time.Time) (float64, error)
	CountByStage(ctx context.Context) (map[string]int, error)
}

// LeadsRepository composes every lead capability.
// Prefer the narrower interfaces in service constructors.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	PipelineWriter
	ActivityStore
	ExtensionBagWriter
	StatsReader
}

// Compile-time check that Repository implements LeadsRepository.
var _ LeadsRepository = (*Repository)(nil)
