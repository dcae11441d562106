package email

import (
	"context"

	"sales_pipeline_backend/platform/config"
)

// Notification is the content mirrored into an email.
type Notification struct {
	Type    string
	Title   string
	Message string
	// Link is an absolute URL or empty.
	Link string
}

type Sender interface {
	SendNotificationEmail(ctx context.Context, toEmail string, n Notification) error
}

type NoopSender struct{}

func (NoopSender) SendNotificationEmail(ctx context.Context, toEmail string, n Notification) error {
	return nil
}

// NewSender returns an SMTP sender when SMTP is configured and a NoopSender otherwise.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.IsEmailEnabled() {
		return NoopSender{}, nil
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
