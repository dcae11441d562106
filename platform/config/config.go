// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// IngestionConfig provides settings for lead ingestion.
type IngestionConfig interface {
	GetWebhookAPIKey() string
	GetDefaultPhoneRegion() string
	GetWebhookRateLimit() float64
	GetWebhookRateBurst() int
}

// AppLinkConfig provides the public base URL for deep links.
type AppLinkConfig interface {
	GetAppBaseURL() string
}

// GeminiConfig provides settings for the generative text service.
type GeminiConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetGenerationTimeout() time.Duration
	IsGeminiEnabled() bool
}

// RedisConfig provides settings for the engagement marker store.
type RedisConfig interface {
	GetRedisURL() string
	GetEngagementMarkerTTL() time.Duration
}

// PushConfig provides VAPID credentials for Web Push delivery.
type PushConfig interface {
	GetVAPIDPublicKey() string
	GetVAPIDPrivateKey() string
	GetVAPIDSubject() string
	GetPushConcurrency() int
	IsPushEnabled() bool
}

// EmailConfig provides SMTP settings for the notification email mirror.
type EmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetNotifyEmailTo() string
	IsEmailEnabled() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketDocuments() string
	IsMinIOEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	AppBaseURL           string
	WebhookAPIKey        string
	DefaultPhoneRegion   string
	WebhookRateLimit     float64
	WebhookRateBurst     int
	GeminiAPIKey         string
	GeminiModel          string
	GenerationTimeout    time.Duration
	RedisURL             string
	EngagementMarkerTTL  time.Duration
	VAPIDPublicKey       string
	VAPIDPrivateKey      string
	VAPIDSubject         string
	PushConcurrency      int
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	EmailFromName        string
	EmailFromAddress     string
	NotifyEmailTo        string
	MinIOEndpoint        string
	MinIOAccessKey       string
	MinIOSecretKey       string
	MinIOUseSSL          bool
	MinioBucketDocuments string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// IngestionConfig implementation
func (c *Config) GetWebhookAPIKey() string      { return c.WebhookAPIKey }
func (c *Config) GetDefaultPhoneRegion() string { return c.DefaultPhoneRegion }
func (c *Config) GetWebhookRateLimit() float64  { return c.WebhookRateLimit }
func (c *Config) GetWebhookRateBurst() int      { return c.WebhookRateBurst }

// AppLinkConfig implementation
func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }

// GeminiConfig implementation
func (c *Config) GetGeminiAPIKey() string             { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string              { return c.GeminiModel }
func (c *Config) GetGenerationTimeout() time.Duration { return c.GenerationTimeout }
func (c *Config) IsGeminiEnabled() bool               { return c.GeminiAPIKey != "" }

// RedisConfig implementation
func (c *Config) GetRedisURL() string                   { return c.RedisURL }
func (c *Config) GetEngagementMarkerTTL() time.Duration { return c.EngagementMarkerTTL }

// PushConfig implementation
func (c *Config) GetVAPIDPublicKey() string  { return c.VAPIDPublicKey }
func (c *Config) GetVAPIDPrivateKey() string { return c.VAPIDPrivateKey }
func (c *Config) GetVAPIDSubject() string    { return c.VAPIDSubject }
func (c *Config) GetPushConcurrency() int    { return c.PushConcurrency }
func (c *Config) IsPushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// EmailConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetNotifyEmailTo() string    { return c.NotifyEmailTo }
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPHost != "" && c.EmailFromAddress != "" && c.NotifyEmailTo != ""
}

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string        { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string       { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string       { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool            { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketDocuments() string { return c.MinioBucketDocuments }
func (c *Config) IsMinIOEnabled() bool            { return c.MinIOEndpoint != "" }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		AppBaseURL:           strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
		WebhookAPIKey:        getEnv("WEBHOOK_API_KEY", ""),
		DefaultPhoneRegion:   strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "ZW")),
		WebhookRateLimit:     mustFloat(getEnv("WEBHOOK_RATE_LIMIT", "2")),
		WebhookRateBurst:     mustInt(getEnv("WEBHOOK_RATE_BURST", "20")),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemma-3-27b-it"),
		GenerationTimeout:    mustDuration(getEnv("GENERATION_TIMEOUT", "60s")),
		RedisURL:             getEnv("REDIS_URL", ""),
		EngagementMarkerTTL:  mustDuration(getEnv("ENGAGEMENT_MARKER_TTL", "720h")),
		VAPIDPublicKey:       getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey:      getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:         getEnv("VAPID_SUBJECT", "mailto:admin@example.com"),
		PushConcurrency:      mustInt(getEnv("PUSH_CONCURRENCY", "8")),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		EmailFromName:        getEnv("EMAIL_FROM_NAME", "Sales Pipeline"),
		EmailFromAddress:     getEnv("EMAIL_FROM_ADDRESS", ""),
		NotifyEmailTo:        getEnv("NOTIFY_EMAIL_TO", ""),
		MinIOEndpoint:        getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:       getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:       getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:          strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketDocuments: getEnv("MINIO_BUCKET_DOCUMENTS", "sales-documents"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if (cfg.VAPIDPublicKey == "") != (cfg.VAPIDPrivateKey == "") {
		return nil, fmt.Errorf("VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY must be set together")
	}
	if cfg.PushConcurrency < 1 {
		cfg.PushConcurrency = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
