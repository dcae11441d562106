package main

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sales_pipeline_backend/internal/leads/domain"
	"sales_pipeline_backend/platform/httpkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedPlanIsDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	a := seedPlan(rand.New(rand.NewPCG(1, 2)), 20, now)
	b := seedPlan(rand.New(rand.NewPCG(1, 2)), 20, now)
	require.Len(t, a, 20)
	assert.Equal(t, a, b)

	for _, lead := range a {
		assert.Contains(t, domain.PipelineStages, lead.Stage)
		assert.NotEqual(t, domain.PipelineStageClosedLost, lead.Stage)
		assert.False(t, lead.LastActionAt.After(now))
		if lead.Stage == domain.PipelineStageClosedWon {
			assert.GreaterOrEqual(t, lead.DealValue, 500.0)
		} else {
			assert.Zero(t, lead.DealValue)
		}
	}
}

func TestStatusForStage(t *testing.T) {
	assert.Equal(t, domain.LeadStatusWon, statusForStage(domain.PipelineStageClosedWon))
	assert.Equal(t, domain.LeadStatusArchived, statusForStage(domain.PipelineStageClosedLost))
	assert.Equal(t, domain.LeadStatusActive, statusForStage(domain.PipelineStageEngaged))
}

func TestVAPIDKeysCommandPrintsBothKeys(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"vapid-keys"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "VAPID_PUBLIC_KEY=")
	assert.Contains(t, out.String(), "VAPID_PRIVATE_KEY=")
}

func TestTestWebhookPostsNestedPayload(t *testing.T) {
	var got map[string]any
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get(httpkit.HeaderWebhookAPIKey)
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"test-webhook", "--url", srv.URL, "--api-key", "secret"})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "secret", key)
	business, ok := got["business"].(map[string]any)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(business["name"].(string), "Test Corp "))
	assert.Contains(t, out.String(), "status: 201")
}
