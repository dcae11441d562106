package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sales_pipeline_backend/internal/email"
	"sales_pipeline_backend/internal/events"
	"sales_pipeline_backend/internal/notification/inapp"
	"sales_pipeline_backend/internal/notification/push"
	"sales_pipeline_backend/platform/logger"
	"sales_pipeline_backend/platform/validator"
	"sales_pipeline_backend/platform/webpush"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	emailEnabled bool
}

func (testConfig) GetAppBaseURL() string       { return "https://crm.example.com" }
func (testConfig) GetVAPIDPublicKey() string   { return "" }
func (testConfig) GetVAPIDPrivateKey() string  { return "" }
func (testConfig) GetVAPIDSubject() string     { return "mailto:ops@example.com" }
func (testConfig) GetPushConcurrency() int     { return 4 }
func (testConfig) IsPushEnabled() bool         { return true }
func (testConfig) GetSMTPHost() string         { return "smtp.example.com" }
func (testConfig) GetSMTPPort() int            { return 587 }
func (testConfig) GetSMTPUsername() string     { return "" }
func (testConfig) GetSMTPPassword() string     { return "" }
func (testConfig) GetEmailFromName() string    { return "Sales Pipeline" }
func (testConfig) GetEmailFromAddress() string { return "crm@example.com" }
func (testConfig) GetNotifyEmailTo() string    { return "owner@example.com" }
func (c testConfig) IsEmailEnabled() bool      { return c.emailEnabled }

type testSender struct {
	mu   sync.Mutex
	to   []string
	sent []email.Notification
	err  error
}

func (s *testSender) SendNotificationEmail(_ context.Context, to string, n email.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.to = append(s.to, to)
	s.sent = append(s.sent, n)
	return s.err
}

type testPushStore struct {
	mu   sync.Mutex
	subs []push.Subscription
}

func (s *testPushStore) Upsert(_ context.Context, sub push.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
	return nil
}

func (s *testPushStore) Delete(_ context.Context, endpoint string) error { return nil }

func (s *testPushStore) List(context.Context) ([]push.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]push.Subscription(nil), s.subs...), nil
}

type testPusher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *testPusher) Send(_ context.Context, _ webpush.Subscription, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type nopInApp struct{}

func (nopInApp) Create(context.Context, inapp.CreateParams) (inapp.Notification, error) {
	return inapp.Notification{}, nil
}
func (nopInApp) ListLatest(context.Context, int) ([]inapp.Notification, error) { return nil, nil }
func (nopInApp) CountUnread(context.Context) (int, error)                      { return 0, nil }
func (nopInApp) MarkRead(context.Context, uuid.UUID) error                     { return nil }
func (nopInApp) MarkAllRead(context.Context) (int64, error)                    { return 0, nil }

func newTestModule(t *testing.T, sender email.Sender, pusher push.Pusher, store push.Store, cfg testConfig) *Module {
	t.Helper()
	bus := events.NewInMemoryBus(logger.Nop())
	return newModule(nopInApp{}, store, sender, pusher, bus, validator.New(), cfg, logger.Nop())
}

func createdEvent(link string) events.NotificationCreated {
	return events.NotificationCreated{
		BaseEvent:      events.NewBaseEvent(),
		NotificationID: uuid.New(),
		Type:           "success",
		Title:          "Mission Accomplished",
		Message:        "Deal secured. Revenue has been recorded.",
		Link:           &link,
		CreatedAt:      time.Now(),
	}
}

func TestNotificationCreatedIsMirroredByEmailWithAbsoluteLink(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(t, sender, nil, &testPushStore{}, testConfig{emailEnabled: true})

	require.NoError(t, m.Handle(context.Background(), createdEvent("/leads/42/presentation")))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "owner@example.com", sender.to[0])
	assert.Equal(t, "https://crm.example.com/leads/42/presentation", sender.sent[0].Link)
	assert.Equal(t, "success", sender.sent[0].Type)
}

func TestNotificationCreatedSkipsEmailWhenDisabled(t *testing.T) {
	sender := &testSender{}
	m := newTestModule(t, sender, nil, &testPushStore{}, testConfig{emailEnabled: false})

	require.NoError(t, m.Handle(context.Background(), createdEvent("#")))
	assert.Empty(t, sender.sent)
}

func TestNotificationCreatedFansOutToPushSubscribers(t *testing.T) {
	store := &testPushStore{subs: []push.Subscription{
		{Endpoint: "https://push.example.com/a", P256dh: "k", Auth: "a"},
		{Endpoint: "https://push.example.com/b", P256dh: "k", Auth: "a"},
	}}
	pusher := &testPusher{}
	m := newTestModule(t, &testSender{}, pusher, store, testConfig{})

	require.NoError(t, m.Handle(context.Background(), createdEvent("/leads/42/onboarding")))

	require.Len(t, pusher.payloads, 2)
	assert.Contains(t, string(pusher.payloads[0]), `"url":"/leads/42/onboarding"`)
	assert.Contains(t, string(pusher.payloads[0]), `"title":"Mission Accomplished"`)
}

func TestNotificationCreatedReportsEmailFailure(t *testing.T) {
	sender := &testSender{err: errors.New("smtp down")}
	m := newTestModule(t, sender, nil, &testPushStore{}, testConfig{emailEnabled: true})

	err := m.Handle(context.Background(), createdEvent("/leads/1/presentation"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}

func TestHashLinkIsDroppedFromEmail(t *testing.T) {
	m := newTestModule(t, &testSender{}, nil, &testPushStore{}, testConfig{emailEnabled: true})
	link := "#"
	assert.Equal(t, "", m.absoluteLink(&link))
	assert.Equal(t, "", m.absoluteLink(nil))
	abs := "https://other.example.com/x"
	assert.Equal(t, abs, m.absoluteLink(&abs))
}
