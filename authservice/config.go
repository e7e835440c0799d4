package authservice

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zenbild/zenbild-web/internal/email"
	"github.com/zenbild/zenbild-web/internal/session"
)

type Config struct {
	Environment string
	Port        string
	DBPath      string

	// FrontendURL is the web app origin that magic links point at
	FrontendURL string

	Session struct {
		Secret     string
		TTL        time.Duration
		CookieName string
	}

	MagicLink struct {
		TTL time.Duration
	}

	Email struct {
		From                string
		ResendAPIKey        string
		PostmarkServerToken string
	}

	RateLimit struct {
		// Magic link requests allowed per client IP per minute
		PerIP int
		// Magic link requests allowed per email address per hour
		PerEmail int
	}

	CORS struct {
		AllowOrigins []string
	}

	// DevProjectAPI serves an in-memory project API next to the auth routes
	DevProjectAPI struct {
		Enabled   bool
		PublicURL string
	}
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		DBPath:      getEnv("DB_PATH", "./data/zenbild.db"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
	}
	if err := validateOrigin(config.FrontendURL); err != nil {
		return nil, err
	}

	// Session
	config.Session.Secret = os.Getenv("JWT_SECRET")
	if config.Session.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if len(config.Session.Secret) < session.MinSecretLength {
		return nil, session.ErrWeakSecret
	}
	config.Session.TTL = time.Duration(getInt("JWT_EXPIRES_DAYS", 7)) * 24 * time.Hour
	config.Session.CookieName = getEnv("SESSION_COOKIE_NAME", "zenbild_token")

	// Magic link
	config.MagicLink.TTL = time.Duration(getInt("MAGIC_LINK_TTL_MINUTES", 15)) * time.Minute

	// Email
	config.Email.From = getEnv("EMAIL_FROM", email.DefaultFrom)
	config.Email.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	config.Email.PostmarkServerToken = os.Getenv("POSTMARK_SERVER_TOKEN")

	// Rate limits
	config.RateLimit.PerIP = getInt("MAGIC_RATE_LIMIT_PER_IP", 10)
	config.RateLimit.PerEmail = getInt("MAGIC_RATE_LIMIT_PER_EMAIL", 5)

	// CORS
	config.CORS.AllowOrigins = []string{config.FrontendURL}
	if origins := getEnv("CORS_ALLOW_ORIGINS", ""); origins != "" {
		config.CORS.AllowOrigins = splitList(origins)
	}

	// Development project API
	config.DevProjectAPI.Enabled, _ = strconv.ParseBool(getEnv("DEV_PROJECT_API", "false"))
	config.DevProjectAPI.PublicURL = getEnv("PUBLIC_URL", "http://localhost:"+config.Port)

	return config, nil
}

// IsProduction reports whether cookies should be marked Secure
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func validateOrigin(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid frontend url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid frontend url %q: must be an absolute http(s) url", raw)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
