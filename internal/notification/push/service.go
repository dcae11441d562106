// Package push fans notifications out to registered browsers over Web Push.
package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"

	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/logger"
	"sales_pipeline_backend/platform/webpush"

	"golang.org/x/sync/errgroup"
)

const (
	defaultURL  = "/"
	defaultIcon = "/favicon.png"
)

// Store persists push subscriptions.
type Store interface {
	Upsert(ctx context.Context, sub Subscription) error
	Delete(ctx context.Context, endpoint string) error
	List(ctx context.Context) ([]Subscription, error)
}

// Pusher delivers one encrypted payload to one subscription.
type Pusher interface {
	Send(ctx context.Context, sub webpush.Subscription, payload []byte) error
}

// Message is what a browser shows.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
	Icon  string `json:"icon"`
}

// Result summarizes a fan-out.
type Result struct {
	Sent   int
	Failed int
	Total  int
}

type Service struct {
	store       Store
	pusher      Pusher
	concurrency int
	log         *logger.Logger
}

// NewService creates the push service. A nil pusher disables delivery while
// still allowing subscriptions to be managed.
func NewService(store Store, pusher Pusher, concurrency int, log *logger.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		store:       store,
		pusher:      pusher,
		concurrency: concurrency,
		log:         log,
	}
}

// Enabled reports whether delivery is configured.
func (s *Service) Enabled() bool {
	return s.pusher != nil
}

// Register stores or refreshes a subscription.
func (s *Service) Register(ctx context.Context, sub Subscription) error {
	sub.Endpoint = strings.TrimSpace(sub.Endpoint)
	sub.P256dh = strings.TrimSpace(sub.P256dh)
	sub.Auth = strings.TrimSpace(sub.Auth)

	var fields []apperr.FieldError
	if u, err := url.Parse(sub.Endpoint); err != nil || u.Scheme != "https" && u.Scheme != "http" || u.Host == "" {
		fields = append(fields, apperr.FieldError{Field: "endpoint", Message: "must be an absolute URL"})
	}
	if sub.P256dh == "" {
		fields = append(fields, apperr.FieldError{Field: "keys.p256dh", Message: "required"})
	}
	if sub.Auth == "" {
		fields = append(fields, apperr.FieldError{Field: "keys.auth", Message: "required"})
	}
	if len(fields) > 0 {
		return apperr.ValidationFields("invalid subscription object", fields...)
	}

	if err := s.store.Upsert(ctx, sub); err != nil {
		return apperr.Storage("push.register", err)
	}
	return nil
}

// Unregister removes a subscription by endpoint.
func (s *Service) Unregister(ctx context.Context, endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return apperr.ValidationFields("validation failed",
			apperr.FieldError{Field: "endpoint", Message: "required"})
	}
	if err := s.store.Delete(ctx, endpoint); err != nil {
		return apperr.Storage("push.unregister", err)
	}
	return nil
}

// Send delivers msg to every subscription and waits for all of them. An
// endpoint the push service reports as gone is deleted and counted failed.
func (s *Service) Send(ctx context.Context, msg Message) (Result, error) {
	if strings.TrimSpace(msg.Title) == "" || strings.TrimSpace(msg.Body) == "" {
		var fields []apperr.FieldError
		if strings.TrimSpace(msg.Title) == "" {
			fields = append(fields, apperr.FieldError{Field: "title", Message: "required"})
		}
		if strings.TrimSpace(msg.Body) == "" {
			fields = append(fields, apperr.FieldError{Field: "body", Message: "required"})
		}
		return Result{}, apperr.ValidationFields("title and body are required", fields...)
	}
	if s.pusher == nil {
		return Result{}, apperr.External("push delivery is not configured", nil)
	}

	if msg.URL == "" {
		msg.URL = defaultURL
	}
	if msg.Icon == "" {
		msg.Icon = defaultIcon
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, "encode push payload", err)
	}

	subs, err := s.store.List(ctx)
	if err != nil {
		return Result{}, apperr.Storage("push.list", err)
	}

	var sent, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, sub := range subs {
		g.Go(func() error {
			if s.deliver(gctx, sub, payload) {
				sent.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return Result{
		Sent:   int(sent.Load()),
		Failed: int(failed.Load()),
		Total:  len(subs),
	}, nil
}

func (s *Service) deliver(ctx context.Context, sub Subscription, payload []byte) bool {
	err := s.pusher.Send(ctx, webpush.Subscription{
		Endpoint: sub.Endpoint,
		P256dh:   sub.P256dh,
		Auth:     sub.Auth,
	}, payload)
	if err == nil {
		return true
	}

	if webpush.IsGone(err) {
		if delErr := s.store.Delete(ctx, sub.Endpoint); delErr != nil {
			s.log.DatabaseError("push.delete_gone", delErr)
		} else {
			s.log.Info("removed expired push subscription", slog.String("endpoint", sub.Endpoint))
		}
		return false
	}

	s.log.ExternalServiceError("webpush", "send", err)
	return false
}
