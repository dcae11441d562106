package adapters

import (
	"context"

	"sales_pipeline_backend/internal/assistant"
	"sales_pipeline_backend/internal/engagement"
	leadports "sales_pipeline_backend/internal/leads/ports"
	"sales_pipeline_backend/internal/notification/inapp"
)

// NotificationSender is the part of the in-app service the notifier
// adapters write through.
type NotificationSender interface {
	Send(ctx context.Context, p inapp.SendParams) (inapp.Notification, error)
}

// LeadsNotifier raises in-app notifications on behalf of the leads module.
type LeadsNotifier struct {
	sender NotificationSender
}

func NewLeadsNotifier(sender NotificationSender) *LeadsNotifier {
	return &LeadsNotifier{sender: sender}
}

func (a *LeadsNotifier) Notify(ctx context.Context, n leadports.Notification) error {
	_, err := a.sender.Send(ctx, inapp.SendParams{Type: n.Type, Title: n.Title, Message: n.Message, Link: n.Link})
	return err
}

// EngagementNotifier raises the briefing and ghost alert notifications.
type EngagementNotifier struct {
	sender NotificationSender
}

func NewEngagementNotifier(sender NotificationSender) *EngagementNotifier {
	return &EngagementNotifier{sender: sender}
}

func (a *EngagementNotifier) Notify(ctx context.Context, n engagement.Notification) error {
	_, err := a.sender.Send(ctx, inapp.SendParams{Type: n.Type, Title: n.Title, Message: n.Message, Link: n.Link})
	return err
}

// AssistantNotifier announces generated documents.
type AssistantNotifier struct {
	sender NotificationSender
}

func NewAssistantNotifier(sender NotificationSender) *AssistantNotifier {
	return &AssistantNotifier{sender: sender}
}

func (a *AssistantNotifier) Notify(ctx context.Context, n assistant.Notification) error {
	_, err := a.sender.Send(ctx, inapp.SendParams{Type: n.Type, Title: n.Title, Message: n.Message, Link: n.Link})
	return err
}

// Compile-time checks.
var (
	_ leadports.Notifier  = (*LeadsNotifier)(nil)
	_ engagement.Notifier = (*EngagementNotifier)(nil)
	_ assistant.Notifier  = (*AssistantNotifier)(nil)
	_ NotificationSender  = (*inapp.Service)(nil)
)
