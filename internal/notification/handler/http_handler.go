package handler

import (
	"net/http"
	"strconv"

	"sales_pipeline_backend/internal/notification/inapp"
	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/httpkit"
	"sales_pipeline_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateNotificationRequest struct {
	Type    string `json:"type" validate:"omitempty,oneof=info success warning error"`
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=2000"`
	Link    string `json:"link,omitempty" validate:"max=500"`
}

type HTTPHandler struct {
	svc    *inapp.Service
	val    *validator.Validator
	stream gin.HandlerFunc
}

func NewHTTPHandler(svc *inapp.Service, val *validator.Validator, stream gin.HandlerFunc) *HTTPHandler {
	return &HTTPHandler{svc: svc, val: val, stream: stream}
}

func (h *HTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/unread", h.CountUnread)
	rg.GET("/stream", h.stream)
	rg.PATCH("/read-all", h.MarkAllRead)
	rg.PATCH("/:id/read", h.MarkRead)
}

func (h *HTTPHandler) List(c *gin.Context) {
	limit := inapp.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpkit.HandleError(c, apperr.ValidationFields("invalid query parameter",
				apperr.FieldError{Field: "limit", Message: "must be an integer"}))
			return
		}
		limit = n
	}

	items, err := h.svc.List(c.Request.Context(), limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items})
}

func (h *HTTPHandler) Create(c *gin.Context) {
	var req CreateNotificationRequest
	if !httpkit.BindJSON(c, &req) {
		return
	}
	if httpkit.HandleError(c, h.val.Check(req)) {
		return
	}

	n, err := h.svc.Send(c.Request.Context(), inapp.SendParams{
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
		Link:    req.Link,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, n)
}

func (h *HTTPHandler) CountUnread(c *gin.Context) {
	count, err := h.svc.CountUnread(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"count": count})
}

func (h *HTTPHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.ValidationFields("invalid notification id",
			apperr.FieldError{Field: "id", Message: "must be a UUID"}))
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "ok"})
}

func (h *HTTPHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.svc.MarkAllRead(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "ok", "updated": updated})
}
