package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CLASSIFIER_PROVIDER", "")
	t.Setenv("CLASSIFIER_MODEL", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Postgres.DSN)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, ProviderGemini, cfg.Classifier.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Classifier.Model)
	assert.Empty(t, cfg.Classifier.APIKey)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, time.Duration(0), cfg.App.RequestTimeout())
}

func TestLoadAnthropicProvider(t *testing.T) {
	t.Setenv("CLASSIFIER_PROVIDER", "Anthropic")
	t.Setenv("CLASSIFIER_MODEL", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.Classifier.Provider)
	assert.Equal(t, "sk-test", cfg.Classifier.APIKey)
	assert.NotEmpty(t, cfg.Classifier.Model)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("CLASSIFIER_PROVIDER", "llama")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")

	_, err := Load()
	assert.Error(t, err)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("POSTGRES_MAX_CONNS", "many")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "yes-please")

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvAsList("CORS_ALLOW_ORIGINS", nil))
	assert.Equal(t, 10, getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	assert.True(t, getEnvAsBool("CORS_ALLOW_CREDENTIALS", true))
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
	assert.Equal(t, "127.0.0.1:8000", AppConfig{Host: "127.0.0.1", Port: "8000"}.Addr())
}
