// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"sales_pipeline_backend/internal/events"
	apphttp "sales_pipeline_backend/internal/http"
	"sales_pipeline_backend/internal/leads/activity"
	"sales_pipeline_backend/internal/leads/handler"
	"sales_pipeline_backend/internal/leads/management"
	"sales_pipeline_backend/internal/leads/pipeline"
	"sales_pipeline_backend/internal/leads/ports"
	"sales_pipeline_backend/internal/leads/qualification"
	"sales_pipeline_backend/internal/leads/repository"
	"sales_pipeline_backend/platform/config"
	"sales_pipeline_backend/platform/logger"
	"sales_pipeline_backend/platform/phone"
	"sales_pipeline_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	repo       *repository.Repository
	management *management.Service
	pipeline   *pipeline.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, notifier ports.Notifier, cfg config.IngestionConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)

	// Create focused services (vertical slices)
	mgmtSvc := management.New(repo, eventBus, val, phone.NewNormalizer(cfg.GetDefaultPhoneRegion()))
	pipelineSvc := pipeline.New(repo, notifier, nil, eventBus, log)
	activitySvc := activity.New(repo, eventBus)
	qualificationSvc := qualification.New(repo)

	h := handler.New(mgmtSvc, pipelineSvc, activitySvc, qualificationSvc, val)

	return &Module{
		handler:    h,
		repo:       repo,
		management: mgmtSvc,
		pipeline:   pipelineSvc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// Repository returns the leads repository for adapters in other modules.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// SetGoalProgressReader wires goal progress into the win notification.
func (m *Module) SetGoalProgressReader(goals ports.GoalProgressReader) {
	m.pipeline.SetGoalProgressReader(goals)
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
