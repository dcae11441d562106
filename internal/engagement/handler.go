package engagement

import (
	"strings"
	"time"

	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the engagement endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Check handles POST /api/v1/engagement/check?tz=Area/City
func (h *Handler) Check(c *gin.Context) {
	deviceID := strings.TrimSpace(c.GetHeader(httpkit.HeaderDeviceID))
	if deviceID == "" {
		httpkit.HandleError(c, apperr.ValidationFields("device id required",
			apperr.FieldError{Field: httpkit.HeaderDeviceID, Message: "required"}))
		return
	}

	loc, ok := queryLocation(c)
	if !ok {
		return
	}

	httpkit.OK(c, h.svc.Check(c.Request.Context(), deviceID, loc))
}

// Stale handles GET /api/v1/engagement/stale
func (h *Handler) Stale(c *gin.Context) {
	items, err := h.svc.StaleLeads(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, StaleLeadsResponse{Items: items})
}

// GoalProgress handles GET /api/v1/engagement/goal-progress?tz=Area/City
func (h *Handler) GoalProgress(c *gin.Context) {
	loc, ok := queryLocation(c)
	if !ok {
		return
	}

	progress, ok := h.svc.GoalProgress(c.Request.Context(), time.Now().In(loc))
	if !ok {
		httpkit.OK(c, GoalProgressResponse{HasGoal: false})
		return
	}
	httpkit.OK(c, GoalProgressResponse{HasGoal: true, Progress: &progress})
}

// queryLocation reads the optional tz query parameter, defaulting to UTC. On
// an unknown zone it writes the validation error and returns false.
func queryLocation(c *gin.Context) (*time.Location, bool) {
	tz := strings.TrimSpace(c.Query("tz"))
	if tz == "" {
		return time.UTC, true
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		httpkit.HandleError(c, apperr.ValidationFields("invalid time zone",
			apperr.FieldError{Field: "tz", Message: "must be an IANA time zone name"}))
		return nil, false
	}
	return loc, true
}
