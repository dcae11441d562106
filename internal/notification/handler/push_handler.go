package handler

import (
	"sales_pipeline_backend/internal/notification/push"
	"sales_pipeline_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const msgNoSubscribers = "No subscribers found"

// SubscribeRequest mirrors the browser PushSubscription JSON.
type SubscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

type SendRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

type SendResponse struct {
	Success bool   `json:"success"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Total   int    `json:"total"`
	Message string `json:"message,omitempty"`
}

type PushHandler struct {
	svc *push.Service
}

func NewPushHandler(svc *push.Service) *PushHandler {
	return &PushHandler{svc: svc}
}

func (h *PushHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/subscribe", h.Subscribe)
	rg.DELETE("/subscribe", h.Unsubscribe)
	rg.POST("/send", h.Send)
}

func (h *PushHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if !httpkit.BindJSON(c, &req) {
		return
	}

	err := h.svc.Register(c.Request.Context(), push.Subscription{
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"success": true})
}

func (h *PushHandler) Unsubscribe(c *gin.Context) {
	var req UnsubscribeRequest
	if !httpkit.BindJSON(c, &req) {
		return
	}

	if httpkit.HandleError(c, h.svc.Unregister(c.Request.Context(), req.Endpoint)) {
		return
	}
	httpkit.OK(c, gin.H{"success": true})
}

func (h *PushHandler) Send(c *gin.Context) {
	var req SendRequest
	if !httpkit.BindJSON(c, &req) {
		return
	}

	result, err := h.svc.Send(c.Request.Context(), push.Message{
		Title: req.Title,
		Body:  req.Body,
		URL:   req.URL,
		Icon:  req.Icon,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	resp := SendResponse{Success: true, Sent: result.Sent, Failed: result.Failed, Total: result.Total}
	if result.Total == 0 {
		resp.Message = msgNoSubscribers
	}
	httpkit.OK(c, resp)
}
