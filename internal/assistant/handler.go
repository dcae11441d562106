package assistant

import (
	"net/http"

	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/httpkit"
	"sales_pipeline_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the assistant under a /leads/:id group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	ai := rg.Group("/ai")
	ai.POST("/outreach", h.Outreach)
	ai.POST("/questions", h.Questions)
	ai.POST("/analysis", h.Analysis)
	ai.POST("/documents", h.Document)
	ai.POST("/deck", h.Deck)
	rg.GET("/presentation/qr", h.PresentationQR)
}

func (h *Handler) Outreach(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Outreach(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Questions(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Questions(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Analysis(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Analyze(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Document accepts an optional body; an empty body drafts a proposal.
func (h *Handler) Document(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	var req DocumentRequest
	if c.Request.ContentLength != 0 {
		if !httpkit.BindJSON(c, &req) {
			return
		}
	}
	if httpkit.HandleError(c, h.val.Check(req)) {
		return
	}

	resp, err := h.svc.Document(c.Request.Context(), id, req.DocType)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) Deck(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Deck(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) PresentationQR(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}
	png, err := h.svc.PresentationQR(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func leadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.ValidationFields("invalid lead id",
			apperr.FieldError{Field: "id", Message: "must be a uuid"}))
		return uuid.UUID{}, false
	}
	return id, true
}
