package webpush

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	webpushgo "github.com/SherClockHolmes/webpush-go"
)

// Subscription is a browser push endpoint with its encryption keys.
type Subscription struct {
	Endpoint string
	P256dh   string
	Auth     string
}

// Config for a Sender.
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	// Subject is a mailto: or https: contact for the push service operator.
	Subject    string
	TTL        time.Duration
	HTTPClient *http.Client
}

// Sender delivers encrypted push messages.
type Sender struct {
	publicKey  string
	privateKey string
	subject    string
	ttl        time.Duration
	client     *http.Client
}

// StatusError reports a non-success response from a push service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("push service responded %d: %s", e.StatusCode, e.Body)
}

// Gone reports whether the subscription no longer exists and should be removed.
func (e *StatusError) Gone() bool {
	return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone
}

// IsGone reports whether err is a StatusError for an expired subscription.
func IsGone(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Gone()
}

// NewSender validates the VAPID key pair and returns a Sender.
func NewSender(cfg Config) (*Sender, error) {
	if err := validateKeys(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey); err != nil {
		return nil, err
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Sender{
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		subject:    cfg.Subject,
		ttl:        cfg.TTL,
		client:     cfg.HTTPClient,
	}, nil
}

// Send encrypts payload for sub and posts it to the subscription endpoint.
// Any 2xx response is success; everything else is a *StatusError.
func (s *Sender) Send(ctx context.Context, sub Subscription, payload []byte) error {
	resp, err := webpushgo.SendNotificationWithContext(ctx, payload, &webpushgo.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpushgo.Keys{Auth: sub.Auth, P256dh: sub.P256dh},
	}, &webpushgo.Options{
		HTTPClient:      s.client,
		Subscriber:      s.subject,
		TTL:             int(s.ttl.Seconds()),
		Urgency:         webpushgo.UrgencyNormal,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
	})
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{StatusCode: resp.StatusCode, Body: string(msg)}
}
