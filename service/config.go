package service

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zenbild/zenbild-web/internal/middleware"
)

type Config struct {
	Environment string
	Port        string
	BaseURL     string

	Backend struct {
		BaseURL string
		Timeout time.Duration
	}

	Session struct {
		CookieName  string
		PublicPaths []string
	}

	Redirect struct {
		// CookieTTL of zero keeps the post-login redirect cookie for the browser session
		CookieTTL time.Duration
	}

	Upload struct {
		MaxSize int64
	}
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
	}

	// Backend
	config.Backend.BaseURL = getEnv("BACKEND_BASE_URL", getEnv("NEXT_PUBLIC_API_URL", "http://localhost:8000"))
	if err := validateBaseURL(config.Backend.BaseURL); err != nil {
		return nil, err
	}
	config.Backend.Timeout = getDuration("BACKEND_TIMEOUT", 15*time.Second)

	// Session
	config.Session.CookieName = getEnv("SESSION_COOKIE_NAME", "zenbild_token")
	config.Session.PublicPaths = middleware.DefaultPublicPaths
	if paths := getEnv("PUBLIC_PATHS", ""); paths != "" {
		config.Session.PublicPaths = splitList(paths)
	}

	// Redirect
	config.Redirect.CookieTTL = getDuration("REDIRECT_COOKIE_TTL", 0)

	// Upload
	maxSize := getEnv("UPLOAD_MAX_SIZE", "104857600") // 100MB default
	if size, err := strconv.ParseInt(maxSize, 10, 64); err == nil && size > 0 {
		config.Upload.MaxSize = size
	} else {
		config.Upload.MaxSize = 104857600
	}

	return config, nil
}

// IsProduction reports whether cookies should be marked Secure
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid backend base url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend base url %q: must be an absolute http(s) url", raw)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil && d >= 0 {
		return d
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
