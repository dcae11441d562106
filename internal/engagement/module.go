package engagement

import (
	apphttp "sales_pipeline_backend/internal/http"
	"sales_pipeline_backend/platform/logger"
)

// Module wires the engagement HTTP routes.
type Module struct {
	handler *Handler
	service *Service
}

func NewModule(leads LeadStats, goals GoalTarget, notifier Notifier, markers MarkerStore, log *logger.Logger) *Module {
	svc := NewService(leads, goals, notifier, markers, log)
	return &Module{handler: NewHandler(svc), service: svc}
}

func (m *Module) Name() string {
	return "engagement"
}

// Service exposes goal progress to the pipeline.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/engagement")
	group.POST("/check", m.handler.Check)
	group.GET("/stale", m.handler.Stale)
	group.GET("/goal-progress", m.handler.GoalProgress)
}

var _ apphttp.Module = (*Module)(nil)
