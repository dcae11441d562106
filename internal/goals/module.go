// Package goals provides the sales goals domain module.
package goals

import (
	"sales_pipeline_backend/internal/goals/handler"
	"sales_pipeline_backend/internal/goals/repository"
	"sales_pipeline_backend/internal/goals/service"
	apphttp "sales_pipeline_backend/internal/http"
	"sales_pipeline_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the goals domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new goals module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	svc := service.New(repository.New(pool))
	return &Module{
		handler: handler.New(svc, val),
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "goals"
}

// RegisterRoutes registers the module's routes under /api/v1/goals
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/goals"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
