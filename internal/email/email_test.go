package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emailConfig struct {
	host string
}

func (c emailConfig) GetSMTPHost() string         { return c.host }
func (c emailConfig) GetSMTPPort() int            { return 587 }
func (c emailConfig) GetSMTPUsername() string     { return "" }
func (c emailConfig) GetSMTPPassword() string     { return "" }
func (c emailConfig) GetEmailFromName() string    { return "Sales Pipeline" }
func (c emailConfig) GetEmailFromAddress() string { return "crm@example.com" }
func (c emailConfig) GetNotifyEmailTo() string    { return "owner@example.com" }
func (c emailConfig) IsEmailEnabled() bool        { return c.host != "" }

func TestNewSenderFallsBackToNoop(t *testing.T) {
	sender, err := NewSender(emailConfig{})
	require.NoError(t, err)
	assert.IsType(t, NoopSender{}, sender)
	assert.NoError(t, sender.SendNotificationEmail(context.Background(), "x@example.com", Notification{}))
}

func TestNewSenderUsesSMTPWhenConfigured(t *testing.T) {
	sender, err := NewSender(emailConfig{host: "smtp.example.com"})
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, sender)
}

func TestRenderNotificationTemplate(t *testing.T) {
	html, err := renderEmailTemplate("notification.html", notificationEmailData{
		baseEmailData: baseEmailData{
			Title:    "Mission Accomplished",
			Heading:  "Mission Accomplished",
			CTALabel: "Open in dashboard",
			CTAURL:   "https://crm.example.com/leads/1/presentation",
		},
		Message: "Deal secured. <b>Revenue</b> has been recorded.",
		Accent:  accentFor("success"),
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Mission Accomplished")
	assert.Contains(t, html, "https://crm.example.com/leads/1/presentation")
	assert.Contains(t, html, "#16a34a")
	assert.Contains(t, html, "&lt;b&gt;Revenue&lt;/b&gt;")
}

func TestTemplateOmitsButtonWithoutLink(t *testing.T) {
	html, err := renderEmailTemplate("notification.html", notificationEmailData{
		baseEmailData: baseEmailData{Title: "Morning Briefing", Heading: "Morning Briefing", CTALabel: "Open in dashboard"},
		Message:       "Welcome back.",
		Accent:        accentFor("info"),
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "Open in dashboard")
}
