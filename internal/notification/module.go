// Package notification owns in-app notifications and their delivery channels.
// Creating a notification publishes NotificationCreated; this module subscribes
// to it and fans the notification out to the dashboard stream, Web Push and
// the email mirror.
package notification

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"sales_pipeline_backend/internal/email"
	"sales_pipeline_backend/internal/events"
	apphttp "sales_pipeline_backend/internal/http"
	notifhandler "sales_pipeline_backend/internal/notification/handler"
	"sales_pipeline_backend/internal/notification/inapp"
	"sales_pipeline_backend/internal/notification/push"
	"sales_pipeline_backend/internal/notification/sse"
	"sales_pipeline_backend/platform/config"
	"sales_pipeline_backend/platform/logger"
	"sales_pipeline_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config combines the settings the notification module reads.
type Config interface {
	config.AppLinkConfig
	config.PushConfig
	config.EmailConfig
}

// Module handles notification routes and delivery subscriptions.
type Module struct {
	sender       email.Sender
	notifyTo     string
	appBaseURL   string
	log          *logger.Logger
	sse          *sse.Service
	inAppService *inapp.Service
	pushService  *push.Service
	inAppHandler *notifhandler.HTTPHandler
	pushHandler  *notifhandler.PushHandler
}

// New creates a new notification module. pusher may be nil when Web Push
// is not configured.
func New(pool *pgxpool.Pool, sender email.Sender, pusher push.Pusher, eventBus events.Bus, val *validator.Validator, cfg Config, log *logger.Logger) *Module {
	return newModule(inapp.NewRepository(pool), push.NewRepository(pool), sender, pusher, eventBus, val, cfg, log)
}

func newModule(inAppStore inapp.Store, pushStore push.Store, sender email.Sender, pusher push.Pusher, eventBus events.Bus, val *validator.Validator, cfg Config, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}

	sseSvc := sse.New(log)
	inAppSvc := inapp.NewService(inAppStore, eventBus, log)
	pushSvc := push.NewService(pushStore, pusher, cfg.GetPushConcurrency(), log)

	notifyTo := ""
	if cfg.IsEmailEnabled() {
		notifyTo = strings.TrimSpace(cfg.GetNotifyEmailTo())
	}

	return &Module{
		sender:       sender,
		notifyTo:     notifyTo,
		appBaseURL:   strings.TrimRight(cfg.GetAppBaseURL(), "/"),
		log:          log,
		sse:          sseSvc,
		inAppService: inAppSvc,
		pushService:  pushSvc,
		inAppHandler: notifhandler.NewHTTPHandler(inAppSvc, val, sseSvc.Handler()),
		pushHandler:  notifhandler.NewPushHandler(pushSvc),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes registers notification and push API routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.inAppHandler.RegisterRoutes(ctx.V1.Group("/notifications"))
	m.pushHandler.RegisterRoutes(ctx.V1.Group("/push"))
}

// InAppService exposes the in-app notification service for integration points.
func (m *Module) InAppService() *inapp.Service { return m.inAppService }

// SSE exposes the dashboard stream so shutdown can disconnect clients.
func (m *Module) SSE() *sse.Service { return m.sse }

// RegisterHandlers subscribes the delivery channels to the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.NotificationCreated{}.EventName(), m)
	m.log.Info("notification module registered event handlers",
		slog.Bool("push", m.pushService.Enabled()),
		slog.Bool("email", m.notifyTo != ""),
	)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.NotificationCreated:
		return m.handleNotificationCreated(ctx, e)
	default:
		return nil
	}
}

// handleNotificationCreated delivers on every channel. A failing channel
// does not stop the others; their errors are joined for the bus to log.
func (m *Module) handleNotificationCreated(ctx context.Context, e events.NotificationCreated) error {
	m.sse.Publish(sse.Event{
		Type:    sse.EventNotificationCreated,
		Message: e.Title,
		Data:    e,
	})

	var errs []error

	if m.pushService.Enabled() {
		result, err := m.pushService.Send(ctx, push.Message{
			Title: e.Title,
			Body:  e.Message,
			URL:   pushURL(e.Link),
		})
		if err != nil {
			errs = append(errs, err)
		} else {
			m.log.Debug("notification pushed",
				slog.String("notificationId", e.NotificationID.String()),
				slog.Int("sent", result.Sent),
				slog.Int("failed", result.Failed),
			)
		}
	}

	if m.notifyTo != "" {
		err := m.sender.SendNotificationEmail(ctx, m.notifyTo, email.Notification{
			Type:    e.Type,
			Title:   e.Title,
			Message: e.Message,
			Link:    m.absoluteLink(e.Link),
		})
		if err != nil {
			m.log.ExternalServiceError("smtp", "notification_mirror", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func pushURL(link *string) string {
	if link == nil || *link == "" || *link == "#" {
		return ""
	}
	return *link
}

// absoluteLink turns an app-relative link into a URL usable from a mail client.
func (m *Module) absoluteLink(link *string) string {
	l := pushURL(link)
	if l == "" {
		return ""
	}
	if strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://") {
		return l
	}
	if m.appBaseURL == "" {
		return ""
	}
	if !strings.HasPrefix(l, "/") {
		l = "/" + l
	}
	return m.appBaseURL + l
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
