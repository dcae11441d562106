package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sales_pipeline_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readUntil(t *testing.T, r *bufio.Reader, prefix string) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line)
		}
	}
}

func TestHandlerStreamsPublishedEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := New(logger.Nop())
	engine := gin.New()
	engine.GET("/stream", svc.Handler())
	srv := httptest.NewServer(engine)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	reader := bufio.NewReader(resp.Body)
	readUntil(t, reader, "event:connected")
	assert.Equal(t, 1, svc.ClientCount())

	svc.Publish(Event{Type: EventNotificationCreated, Message: "Morning Briefing"})

	assert.Equal(t, "event:notification_created", readUntil(t, reader, "event:"))
	assert.Contains(t, readUntil(t, reader, "data:"), "Morning Briefing")
}

func TestPublishWithoutClientsIsNoop(t *testing.T) {
	svc := New(logger.Nop())
	svc.Publish(Event{Type: EventNotificationCreated})
	assert.Equal(t, 0, svc.ClientCount())
}

func TestCloseDisconnectsClients(t *testing.T) {
	svc := New(logger.Nop())
	cl := &client{events: make(chan Event, 1)}
	require.True(t, svc.addClient(cl))

	svc.Close()
	_, open := <-cl.events
	assert.False(t, open)
	assert.False(t, svc.addClient(&client{events: make(chan Event, 1)}))

	// removing after Close must not double-close
	svc.removeClient(cl)
}
