package authservice

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/zenbild/zenbild-web/internal/email"
	"github.com/zenbild/zenbild-web/storage"
)

const (
	testFrontendURL = "http://localhost:3000"
	testSecret      = "test-secret-that-is-at-least-32-bytes-long"
	testCookieName  = "zenbild_token"
)

// outbox is an email.Sender that keeps messages in memory
type outbox struct {
	mu   sync.Mutex
	sent []*email.Email
}

func (o *outbox) Send(_ context.Context, msg *email.Email) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

// lastLink returns the magic link from the most recent email
func (o *outbox) lastLink(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.sent, "no email was sent")
	text := o.sent[len(o.sent)-1].Text
	i := strings.LastIndex(text, ": ")
	require.True(t, i >= 0, "unexpected email text %q", text)
	return text[i+2:]
}

func testConfig() *Config {
	config := &Config{
		Environment: "test",
		Port:        "8000",
		FrontendURL: testFrontendURL,
	}
	config.Session.Secret = testSecret
	config.Session.TTL = 7 * 24 * time.Hour
	config.Session.CookieName = testCookieName
	config.MagicLink.TTL = 15 * time.Minute
	config.RateLimit.PerIP = 100
	config.RateLimit.PerEmail = 100
	config.CORS.AllowOrigins = []string{testFrontendURL}
	return config
}

// setupTestEcho creates an Echo instance backed by an in-memory database
func setupTestEcho(t *testing.T, config *Config) (*echo.Echo, *Service, *outbox) {
	t.Helper()

	store, cleanup, err := storage.NewTestStorage()
	require.NoError(t, err)
	t.Cleanup(cleanup)

	mail := &outbox{}
	svc, err := New(config, store, mail)
	require.NoError(t, err)

	e := echo.New()
	svc.RegisterRoutes(e)

	return e, svc, mail
}
