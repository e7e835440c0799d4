package authservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenbild/zenbild-web/internal/email"
	"github.com/zenbild/zenbild-web/internal/session"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "DB_PATH", "FRONTEND_URL", "JWT_SECRET", "JWT_EXPIRES_DAYS",
		"SESSION_COOKIE_NAME", "MAGIC_LINK_TTL_MINUTES", "EMAIL_FROM", "RESEND_API_KEY",
		"POSTMARK_SERVER_TOKEN", "MAGIC_RATE_LIMIT_PER_IP", "MAGIC_RATE_LIMIT_PER_EMAIL",
		"CORS_ALLOW_ORIGINS", "DEV_PROJECT_API", "PUBLIC_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "8000", config.Port)
	assert.Equal(t, "./data/zenbild.db", config.DBPath)
	assert.Equal(t, "http://localhost:3000", config.FrontendURL)
	assert.Equal(t, 7*24*time.Hour, config.Session.TTL)
	assert.Equal(t, "zenbild_token", config.Session.CookieName)
	assert.Equal(t, 15*time.Minute, config.MagicLink.TTL)
	assert.Equal(t, email.DefaultFrom, config.Email.From)
	assert.Equal(t, 10, config.RateLimit.PerIP)
	assert.Equal(t, 5, config.RateLimit.PerEmail)
	assert.Equal(t, []string{"http://localhost:3000"}, config.CORS.AllowOrigins)
	assert.False(t, config.IsProduction())
	assert.False(t, config.DevProjectAPI.Enabled)
	assert.Equal(t, "http://localhost:8000", config.DevProjectAPI.PublicURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("FRONTEND_URL", "https://app.zenbild.com/")
	t.Setenv("JWT_EXPIRES_DAYS", "30")
	t.Setenv("MAGIC_LINK_TTL_MINUTES", "5")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://app.zenbild.com, https://zenbild.com")
	t.Setenv("DEV_PROJECT_API", "true")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, config.IsProduction())
	assert.Equal(t, "https://app.zenbild.com", config.FrontendURL)
	assert.Equal(t, 30*24*time.Hour, config.Session.TTL)
	assert.Equal(t, 5*time.Minute, config.MagicLink.TTL)
	assert.Equal(t, []string{"https://app.zenbild.com", "https://zenbild.com"}, config.CORS.AllowOrigins)
	assert.True(t, config.DevProjectAPI.Enabled)
}

func TestLoadConfig_InvalidNumbersFallBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_EXPIRES_DAYS", "-3")
	t.Setenv("MAGIC_LINK_TTL_MINUTES", "soon")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, config.Session.TTL)
	assert.Equal(t, 15*time.Minute, config.MagicLink.TTL)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		clearConfigEnv(t)
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("short secret", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("JWT_SECRET", "short")
		_, err := LoadConfig()
		assert.ErrorIs(t, err, session.ErrWeakSecret)
	})

	t.Run("relative frontend url", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("JWT_SECRET", testSecret)
		t.Setenv("FRONTEND_URL", "app.zenbild.com")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
