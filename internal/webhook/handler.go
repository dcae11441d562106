package webhook

import (
	"context"
	"net/http"

	"sales_pipeline_backend/internal/leads/transport"
	"sales_pipeline_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// LeadIngester creates leads from arbitrary inbound payloads.
type LeadIngester interface {
	Ingest(ctx context.Context, payload map[string]any, source string) (transport.LeadResponse, error)
}

// Handler handles webhook HTTP requests.
type Handler struct {
	leads LeadIngester
}

// NewHandler creates a new webhook handler.
func NewHandler(leads LeadIngester) *Handler {
	return &Handler{leads: leads}
}

// HandleLeadWebhook ingests a lead pushed by an external form or scraper.
// POST /api/v1/webhook/leads
// Authenticated via X-Webhook-API-Key header (set by middleware).
func (h *Handler) HandleLeadWebhook(c *gin.Context) {
	var payload map[string]any
	if !httpkit.BindJSON(c, &payload) {
		return
	}

	lead, err := h.leads.Ingest(c.Request.Context(), payload, "webhook")
	if httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, transport.IngestResponse{Success: true, Lead: lead})
}
