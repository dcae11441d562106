package handler

import (
	"net/http"
	"strconv"

	"sales_pipeline_backend/internal/leads/activity"
	"sales_pipeline_backend/internal/leads/management"
	"sales_pipeline_backend/internal/leads/pipeline"
	"sales_pipeline_backend/internal/leads/qualification"
	"sales_pipeline_backend/internal/leads/transport"
	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/httpkit"
	"sales_pipeline_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	mgmt          *management.Service
	pipeline      *pipeline.Service
	activity      *activity.Service
	qualification *qualification.Service
	val           *validator.Validator
}

func New(mgmt *management.Service, pipelineSvc *pipeline.Service, activitySvc *activity.Service, qualificationSvc *qualification.Service, val *validator.Validator) *Handler {
	return &Handler{
		mgmt:          mgmt,
		pipeline:      pipelineSvc,
		activity:      activitySvc,
		qualification: qualificationSvc,
		val:           val,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Ingest)
	rg.GET("/funnel", h.Funnel)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PATCH("/:id/stage", h.TransitionStage)
	rg.GET("/:id/activities", h.ListActivities)
	rg.POST("/:id/activities", h.LogActivity)
	rg.PUT("/:id/bant", h.MergeBANT)
}

// Ingest accepts any JSON object shape and normalizes it into a lead.
func (h *Handler) Ingest(c *gin.Context) {
	var payload map[string]any
	if !httpkit.BindJSON(c, &payload) {
		return
	}

	lead, err := h.mgmt.Ingest(c.Request.Context(), payload, "api")
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.IngestResponse{Success: true, Lead: lead})
}

func (h *Handler) List(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if httpkit.HandleError(c, err) {
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if httpkit.HandleError(c, err) {
		return
	}

	resp, err := h.mgmt.List(c.Request.Context(), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Funnel(c *gin.Context) {
	resp, err := h.mgmt.Funnel(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	lead, err := h.mgmt.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if !httpkit.BindJSON(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.val.Check(req)) {
		return
	}

	lead, err := h.mgmt.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// Delete permanently removes a lead. The confirm=true query parameter is required.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	confirm, _ := strconv.ParseBool(c.Query("confirm"))
	if httpkit.HandleError(c, h.pipeline.Terminate(c.Request.Context(), id, confirm)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) TransitionStage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.TransitionStageRequest
	if !httpkit.BindJSON(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.val.Check(req)) {
		return
	}

	resp, err := h.pipeline.Transition(c.Request.Context(), id, pipeline.TransitionParams{
		Stage:     req.Stage,
		Confirm:   req.Confirm,
		DealValue: req.DealValue,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) ListActivities(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.activity.List(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) LogActivity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.LogActivityRequest
	if !httpkit.BindJSON(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.val.Check(req)) {
		return
	}

	record, err := h.activity.Log(c.Request.Context(), id, req.ActionType, req.Metadata)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, record)
}

func (h *Handler) MergeBANT(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.BANTRequest
	if !httpkit.BindJSON(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.val.Check(req)) {
		return
	}

	lead, err := h.qualification.MergeBANT(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.ValidationFields("invalid lead id",
			apperr.FieldError{Field: "id", Message: "must be a UUID"}))
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.ValidationFields("invalid query parameter",
			apperr.FieldError{Field: key, Message: "must be an integer"})
	}
	return n, nil
}
