package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, HandlerModeWebUI, cfg.Guest.Mode)
	assert.Equal(t, 30*time.Minute, cfg.Guest.SessionTTL)
	assert.Equal(t, "share", cfg.Guest.BasicRealm)
	assert.Equal(t, "/appsuite/", cfg.Redirect.UIWebPath)
	assert.Contains(t, cfg.Redirect.WebClient, "[session]")
	assert.Contains(t, cfg.Redirect.ICS, "[folder]")
}

func TestAppConfig_ParsesEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_ADDR", "cache.internal:6380")
	t.Setenv("GUEST_HANDLER_MODE", "legacy")
	t.Setenv("GUEST_SESSION_TTL", "2h")
	t.Setenv("GUEST_AUTO_LOGIN", "true")
	t.Setenv("REDIRECT_UIWEBPATH", "/ox6/index.html/")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, "cache.internal:6380", cfg.Redis.Addr)
	assert.Equal(t, HandlerModeLegacy, cfg.Guest.Mode)
	assert.Equal(t, 2*time.Hour, cfg.Guest.SessionTTL)
	assert.True(t, cfg.Guest.AutoLogin)
	assert.Equal(t, "/ox6/index.html/", cfg.Redirect.UIWebPath)
}

func TestHandlerMode_UnmarshalText(t *testing.T) {
	var m HandlerMode
	require.NoError(t, m.UnmarshalText([]byte("WEBUI")))
	assert.Equal(t, HandlerModeWebUI, m)

	require.NoError(t, m.UnmarshalText([]byte("legacy")))
	assert.Equal(t, HandlerModeLegacy, m)

	err := m.UnmarshalText([]byte("bogus"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HandlerMode")
}

func TestSanitize_Guardrails(t *testing.T) {
	cfg := AppConfig{}
	cfg.Guest.SessionTTL = -time.Minute
	cfg.Redirect.UIWebPath = "   "
	cfg.Sanitize()

	assert.Equal(t, 30*time.Minute, cfg.Guest.SessionTTL)
	assert.Equal(t, "share", cfg.Guest.BasicRealm)
	assert.Equal(t, "/appsuite/", cfg.Redirect.UIWebPath)
}

func TestDetectDevMode_NodeEnvFallback(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()
	assert.True(t, cfg.IsDev)
}
