package assistant

import (
	apphttp "sales_pipeline_backend/internal/http"
	"sales_pipeline_backend/platform/config"
	"sales_pipeline_backend/platform/logger"
	"sales_pipeline_backend/platform/validator"
)

// Module wires the assistant HTTP routes.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule builds the assistant. gen and archive may be nil.
func NewModule(gen TextGenerator, leads LeadStore, notifier Notifier, archive DocumentArchive, cfg config.AppLinkConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	prompts, err := LoadPrompts()
	if err != nil {
		return nil, err
	}
	svc := NewService(gen, prompts, leads, notifier, archive, cfg.GetAppBaseURL(), log)
	return &Module{handler: NewHandler(svc, val), service: svc}, nil
}

func (m *Module) Name() string {
	return "assistant"
}

func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads/:id"))
}

var _ apphttp.Module = (*Module)(nil)
