package handler

import (
	"net/http"

	"sales_pipeline_backend/internal/appointments/service"
	"sales_pipeline_backend/internal/appointments/transport"
	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/httpkit"
	"sales_pipeline_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new appointments handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterLeadRoutes registers the routes nested under a lead
func (h *Handler) RegisterLeadRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListByLead)
	rg.POST("", h.Create)
}

// RegisterRoutes registers the routes addressed by appointment id
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PATCH("/:id/status", h.UpdateStatus)
}

// ListByLead handles GET /api/v1/leads/:id/appointments
func (h *Handler) ListByLead(c *gin.Context) {
	leadID, ok := parseID(c, "lead")
	if !ok {
		return
	}

	result, err := h.svc.ListByLead(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create handles POST /api/v1/leads/:id/appointments
func (h *Handler) Create(c *gin.Context) {
	leadID, ok := parseID(c, "lead")
	if !ok {
		return
	}

	var req transport.CreateAppointmentRequest
	if !httpkit.BindJSON(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.val.Check(req)) {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), leadID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateStatus handles PATCH /api/v1/appointments/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "appointment")
	if !ok {
		return
	}

	var req transport.UpdateAppointmentStatusRequest
	if !httpkit.BindJSON(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.val.Check(req)) {
		return
	}

	result, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func parseID(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.ValidationFields("invalid "+entity+" id",
			apperr.FieldError{Field: "id", Message: "must be a UUID"}))
		return uuid.Nil, false
	}
	return id, true
}
