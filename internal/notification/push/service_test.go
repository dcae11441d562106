package push

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"sales_pipeline_backend/platform/apperr"
	"sales_pipeline_backend/platform/logger"
	"sales_pipeline_backend/platform/webpush"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu   sync.Mutex
	subs map[string]Subscription
}

func newMemoryStore(subs ...Subscription) *memoryStore {
	s := &memoryStore{subs: make(map[string]Subscription)}
	for _, sub := range subs {
		s.subs[sub.Endpoint] = sub
	}
	return s
}

func (s *memoryStore) Upsert(_ context.Context, sub Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.Endpoint] = sub
	return nil
}

func (s *memoryStore) Delete(_ context.Context, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, endpoint)
	return nil
}

func (s *memoryStore) List(context.Context) ([]Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	return out, nil
}

// scriptedPusher answers each endpoint with a fixed error.
type scriptedPusher struct {
	mu        sync.Mutex
	responses map[string]error
	calls     int
}

func (p *scriptedPusher) Send(_ context.Context, sub webpush.Subscription, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.responses[sub.Endpoint]
}

func sub(endpoint string) Subscription {
	return Subscription{Endpoint: endpoint, P256dh: "key", Auth: "auth"}
}

func TestSendDeletesGoneEndpointsAndCountsThemFailed(t *testing.T) {
	store := newMemoryStore(
		sub("https://push.example.com/ok"),
		sub("https://push.example.com/gone"),
		sub("https://push.example.com/flaky"),
	)
	pusher := &scriptedPusher{responses: map[string]error{
		"https://push.example.com/gone":  &webpush.StatusError{StatusCode: http.StatusGone},
		"https://push.example.com/flaky": &webpush.StatusError{StatusCode: http.StatusTooManyRequests},
	}}
	svc := NewService(store, pusher, 2, logger.Nop())

	result, err := svc.Send(context.Background(), Message{Title: "Hi", Body: "There"})
	require.NoError(t, err)

	assert.Equal(t, Result{Sent: 1, Failed: 2, Total: 3}, result)
	assert.Equal(t, 3, pusher.calls)

	remaining, _ := store.List(context.Background())
	endpoints := make([]string, 0, len(remaining))
	for _, s := range remaining {
		endpoints = append(endpoints, s.Endpoint)
	}
	assert.ElementsMatch(t, []string{"https://push.example.com/ok", "https://push.example.com/flaky"}, endpoints)
}

func TestSendWithoutSubscribers(t *testing.T) {
	svc := NewService(newMemoryStore(), &scriptedPusher{}, 4, logger.Nop())

	result, err := svc.Send(context.Background(), Message{Title: "Hi", Body: "There"})
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
}

func TestSendRequiresTitleAndBody(t *testing.T) {
	svc := NewService(newMemoryStore(), &scriptedPusher{}, 4, logger.Nop())

	_, err := svc.Send(context.Background(), Message{Title: "Hi"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSendWithoutPusherIsExternalError(t *testing.T) {
	svc := NewService(newMemoryStore(sub("https://push.example.com/a")), nil, 4, logger.Nop())
	assert.False(t, svc.Enabled())

	_, err := svc.Send(context.Background(), Message{Title: "Hi", Body: "There"})
	assert.True(t, apperr.Is(err, apperr.KindExternal))
}

func TestRegisterUpsertsOnEndpoint(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, nil, 1, logger.Nop())

	require.NoError(t, svc.Register(context.Background(), Subscription{Endpoint: "https://push.example.com/a", P256dh: "k1", Auth: "a1"}))
	require.NoError(t, svc.Register(context.Background(), Subscription{Endpoint: "https://push.example.com/a", P256dh: "k2", Auth: "a2"}))

	subs, _ := store.List(context.Background())
	require.Len(t, subs, 1)
	assert.Equal(t, "k2", subs[0].P256dh)
}

func TestRegisterRejectsIncompleteSubscription(t *testing.T) {
	svc := NewService(newMemoryStore(), nil, 1, logger.Nop())

	err := svc.Register(context.Background(), Subscription{Endpoint: "not a url"})
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Details, 3)
}

func TestUnregisterRequiresEndpoint(t *testing.T) {
	svc := NewService(newMemoryStore(), nil, 1, logger.Nop())
	assert.True(t, apperr.Is(svc.Unregister(context.Background(), " "), apperr.KindValidation))
}
