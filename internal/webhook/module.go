// Package webhook provides the inbound lead capture module.
// This file defines the module that encapsulates all webhook setup and route registration.
package webhook

import (
	apphttp "sales_pipeline_backend/internal/http"
	"sales_pipeline_backend/platform/config"
	"sales_pipeline_backend/platform/httpkit"
	"sales_pipeline_backend/platform/logger"

	"golang.org/x/time/rate"
)

// Module is the webhook bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	apiKey  string
	limiter *httpkit.IPRateLimiter
}

// NewModule creates and initializes the webhook module with all its dependencies.
func NewModule(leads LeadIngester, cfg config.IngestionConfig, log *logger.Logger) *Module {
	return &Module{
		handler: NewHandler(leads),
		apiKey:  cfg.GetWebhookAPIKey(),
		limiter: httpkit.NewIPRateLimiter(rate.Limit(cfg.GetWebhookRateLimit()), cfg.GetWebhookRateBurst(), log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts webhook routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	webhookGroup := ctx.V1.Group("/webhook")
	webhookGroup.Use(m.limiter.RateLimit(), httpkit.APIKeyRequired(httpkit.HeaderWebhookAPIKey, m.apiKey))
	webhookGroup.POST("/leads", m.handler.HandleLeadWebhook)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
