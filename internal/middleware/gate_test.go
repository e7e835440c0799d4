package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionCookie = "zenbild_token"

func newGateEcho(cfg GateConfig) *echo.Echo {
	e := echo.New()
	e.Use(SessionGate(cfg))
	e.Any("/*", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return e
}

func TestSessionGate(t *testing.T) {
	e := newGateEcho(GateConfig{SessionCookie: testSessionCookie})

	tests := []struct {
		name         string
		path         string
		cookie       string
		wantStatus   int
		wantLocation string
	}{
		{"protected without session", "/projects/1", "", http.StatusFound, "/login?next=%2Fprojects%2F1"},
		{"protected with session", "/projects/1", "abc", http.StatusOK, ""},
		{"root without session", "/", "", http.StatusFound, "/login?next=%2F"},
		{"login without session", "/login", "", http.StatusOK, ""},
		{"login with session", "/login", "abc", http.StatusOK, ""},
		{"signup", "/signup", "", http.StatusOK, ""},
		{"magic link callback", "/auth/callback", "", http.StatusOK, ""},
		{"public api", "/api/public/status", "", http.StatusOK, ""},
		{"private api", "/api/projects", "", http.StatusFound, "/login?next=%2Fapi%2Fprojects"},
		{"static asset", "/assets/logo.svg", "", http.StatusOK, ""},
		{"favicon", "/favicon.ico", "", http.StatusOK, ""},
		{"health", "/health", "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: testSessionCookie, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
		})
	}
}

func TestSessionGate_NextKeepsEscapedPath(t *testing.T) {
	e := newGateEcho(GateConfig{SessionCookie: testSessionCookie})

	tests := []struct {
		name     string
		path     string
		wantNext string
	}{
		{"escaped question mark", "/projects/a%3Fb", "/projects/a%3Fb"},
		{"escaped slash", "/projects/a%2Fb", "/projects/a%2Fb"},
		{"escaped space", "/files/x%20y", "/files/x%20y"},
		{"escaped hash", "/projects/a%23b", "/projects/a%23b"},
		{"plain path", "/projects/42", "/projects/42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			require.Equal(t, http.StatusFound, rec.Code)
			loc, err := url.Parse(rec.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "/login", loc.Path)
			assert.Equal(t, tt.wantNext, loc.Query().Get("next"))
		})
	}
}

func TestSessionGate_EmptyCookieIsAbsent(t *testing.T) {
	e := newGateEcho(GateConfig{SessionCookie: testSessionCookie})

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Cookie", testSessionCookie+"=")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fprojects", rec.Header().Get("Location"))
}

func TestSessionGate_OtherCookieDoesNotCount(t *testing.T) {
	e := newGateEcho(GateConfig{SessionCookie: testSessionCookie})

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.AddCookie(&http.Cookie{Name: "zen_sess", Value: "abc"})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestIsPublic_PrefixSemantics(t *testing.T) {
	// Prefix matching is intentionally literal: "/login" also opens "/login-help"
	// and "/loginx". Keep allow-list entries narrow.
	assert.True(t, IsPublic("/login", DefaultPublicPaths))
	assert.True(t, IsPublic("/login/", DefaultPublicPaths))
	assert.True(t, IsPublic("/loginx", DefaultPublicPaths))
	assert.True(t, IsPublic("/magic/verify", DefaultPublicPaths))
	assert.False(t, IsPublic("/", DefaultPublicPaths))
	assert.False(t, IsPublic("/projects/login", DefaultPublicPaths))
	assert.False(t, IsPublic("/api", DefaultPublicPaths))
}

func TestClassify(t *testing.T) {
	cfg := GateConfig{SessionCookie: testSessionCookie, PublicPaths: []string{"/open"}}

	assert.Equal(t, Allowed, cfg.Classify("/open/door", false))
	assert.Equal(t, Allowed, cfg.Classify("/closed", true))
	assert.Equal(t, Redirected, cfg.Classify("/closed", false))
	// A custom allow-list replaces the defaults.
	assert.Equal(t, Redirected, cfg.Classify("/login", false))
}

func TestLoginURL(t *testing.T) {
	cfg := GateConfig{}
	assert.Equal(t, "/login?next=%2Fprojects%2F1", cfg.LoginURL("/projects/1"))

	cfg.LoginPath = "/entrar"
	assert.Equal(t, "/entrar?next=%2Fbilling", cfg.LoginURL("/billing"))
}
