package handler

import (
	"net/http"

	"sales_pipeline_backend/internal/goals/service"
	"sales_pipeline_backend/internal/goals/transport"
	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/httpkit"
	"sales_pipeline_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for goals
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new goals handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the goal routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.PATCH("/:id/complete", h.Complete)
}

// List handles GET /api/v1/goals
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.ListActive(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create handles POST /api/v1/goals
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateGoalRequest
	if !httpkit.BindJSON(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.val.Check(req)) {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Complete handles PATCH /api/v1/goals/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.ValidationFields("invalid goal id",
			apperr.FieldError{Field: "id", Message: "must be a UUID"}))
		return
	}

	result, err := h.svc.Complete(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
