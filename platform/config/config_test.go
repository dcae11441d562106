package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/crm")
	t.Setenv("APP_BASE_URL", "https://crm.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
	assert.Equal(t, "https://crm.example.com", cfg.GetAppBaseURL())
	assert.Equal(t, "gemma-3-27b-it", cfg.GetGeminiModel())
	assert.Equal(t, 60*time.Second, cfg.GetGenerationTimeout())
	assert.False(t, cfg.IsPushEnabled())
	assert.False(t, cfg.IsEmailEnabled())
	assert.False(t, cfg.IsMinIOEnabled())
}

func TestLoadRejectsHalfConfiguredVAPID(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/crm")
	t.Setenv("VAPID_PUBLIC_KEY", "BPublic")
	t.Setenv("VAPID_PRIVATE_KEY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestWildcardOriginEnablesAllowAll(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/crm")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, *")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.GetCORSAllowAll())
}
