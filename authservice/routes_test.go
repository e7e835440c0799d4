package authservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(e http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/auth/callback", u.Path)
	return u.Query().Get("token")
}

func TestHealth(t *testing.T) {
	e, _, _ := setupTestEcho(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["ok"])
}

func TestMagicRequest(t *testing.T) {
	t.Run("invalid email", func(t *testing.T) {
		e, _, mail := setupTestEcho(t, testConfig())

		rec := postJSON(e, "/auth/magic/request", `{"email":"not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, msgInvalidEmail, decode(t, rec)["detail"])
		assert.Empty(t, mail.sent)
	})

	t.Run("malformed body", func(t *testing.T) {
		e, _, _ := setupTestEcho(t, testConfig())

		rec := postJSON(e, "/auth/magic/request", `{"email":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown user without create", func(t *testing.T) {
		e, _, mail := setupTestEcho(t, testConfig())

		rec := postJSON(e, "/auth/magic/request", `{"email":"`+gofakeit.Email()+`"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["ok"])
		assert.Equal(t, "user_not_found", body["reason"])
		assert.Empty(t, mail.sent)
	})

	t.Run("create if missing sends link", func(t *testing.T) {
		e, _, mail := setupTestEcho(t, testConfig())
		addr := strings.ToLower(gofakeit.Email())

		rec := postJSON(e, "/auth/magic/request", `{"email":"`+addr+`","create_if_missing":true}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decode(t, rec)["ok"])

		require.Len(t, mail.sent, 1)
		assert.Equal(t, []string{addr}, mail.sent[0].To)
		link := mail.lastLink(t)
		assert.True(t, strings.HasPrefix(link, testFrontendURL+"/auth/callback?token="))
		assert.NotEmpty(t, tokenFromLink(t, link))
	})
}

func TestMagicRequest_RateLimited(t *testing.T) {
	config := testConfig()
	config.RateLimit.PerIP = 2
	e, _, _ := setupTestEcho(t, config)

	for i := 0; i < 2; i++ {
		rec := postJSON(e, "/auth/magic/request", `{"email":"`+gofakeit.Email()+`","create_if_missing":true}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := postJSON(e, "/auth/magic/request", `{"email":"`+gofakeit.Email()+`","create_if_missing":true}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, msgRateLimited, decode(t, rec)["detail"])
}

func TestMagicRequest_RateLimitedPerEmail(t *testing.T) {
	config := testConfig()
	config.RateLimit.PerEmail = 1
	e, _, _ := setupTestEcho(t, config)
	body := `{"email":"ana@example.com","create_if_missing":true}`

	require.Equal(t, http.StatusOK, postJSON(e, "/auth/magic/request", body).Code)

	rec := postJSON(e, "/auth/magic/request", `{"email":" ANA@example.com ","create_if_missing":true}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestMagicConsume_Errors(t *testing.T) {
	e, _, _ := setupTestEcho(t, testConfig())

	tests := []struct {
		name       string
		path       string
		wantDetail string
	}{
		{"missing token", "/auth/magic/consume", msgMissingToken},
		{"empty token", "/auth/magic/consume?token=", msgMissingToken},
		{"unknown token", "/auth/magic/consume?token=nope", msgInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantDetail, decode(t, rec)["detail"])
			assert.Nil(t, findCookie(rec, testCookieName))
		})
	}
}

// TestLoginFlow covers request, consume, /auth/me, replay and logout
func TestLoginFlow(t *testing.T) {
	e, _, mail := setupTestEcho(t, testConfig())
	addr := strings.ToLower(gofakeit.Email())

	rec := postJSON(e, "/auth/magic/request", `{"email":"`+addr+`","create_if_missing":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token := tokenFromLink(t, mail.lastLink(t))

	// Consume sets the session cookie
	req := httptest.NewRequest(http.MethodPost, "/auth/magic/consume?token="+url.QueryEscape(token), nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["ok"])

	cookie := findCookie(rec, testCookieName)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)

	// The cookie authenticates /auth/me
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie.Value})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode(t, rec)
	assert.Equal(t, addr, me["email"])
	assert.Equal(t, false, me["is_guest"])
	assert.NotEmpty(t, me["id"])

	// Tokens are single use
	req = httptest.NewRequest(http.MethodPost, "/auth/magic/consume?token="+url.QueryEscape(token), nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgTokenUsed, decode(t, rec)["detail"])

	// Logout clears the cookie
	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	cleared := findCookie(rec, testCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestMe_Unauthenticated(t *testing.T) {
	e, _, _ := setupTestEcho(t, testConfig())

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("forged cookie is cleared", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: "not-a-jwt"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		cleared := findCookie(rec, testCookieName)
		require.NotNil(t, cleared)
		assert.Less(t, cleared.MaxAge, 0)
	})
}

func TestCORS_Preflight(t *testing.T) {
	e, _, _ := setupTestEcho(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/auth/magic/request", nil)
	req.Header.Set("Origin", testFrontendURL)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, testFrontendURL, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestDevProjectAPI(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		e, _, _ := setupTestEcho(t, testConfig())

		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("enabled serves projects to logged in users", func(t *testing.T) {
		config := testConfig()
		config.DevProjectAPI.Enabled = true
		config.DevProjectAPI.PublicURL = "http://localhost:8000"
		e, svc, mail := setupTestEcho(t, config)

		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = postJSON(e, "/auth/magic/request", `{"email":"`+gofakeit.Email()+`","create_if_missing":true}`)
		require.Equal(t, http.StatusOK, rec.Code)
		user, err := svc.magic.Consume(context.Background(), tokenFromLink(t, mail.lastLink(t)))
		require.NoError(t, err)
		token, err := svc.sessions.Issue(user.ID, false)
		require.NoError(t, err)

		req = httptest.NewRequest(http.MethodGet, "/projects", nil)
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		var projects []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
		assert.Len(t, projects, 2)
	})
}
