package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenbild/zenbild-web/internal/backend"
	"github.com/zenbild/zenbild-web/internal/redirect"
)

type fakeRequester struct {
	result *backend.MagicLinkResult
	err    error

	calls           int
	email           string
	createIfMissing bool
}

func (f *fakeRequester) RequestMagicLink(_ context.Context, email string, createIfMissing bool) (*backend.MagicLinkResult, error) {
	f.calls++
	f.email = email
	f.createIfMissing = createIfMissing
	return f.result, f.err
}

func newTestAuthHandler(req *fakeRequester) *AuthHandler {
	return NewAuthHandler(req, redirect.CookieOptions{}, "http://localhost:3000")
}

func TestHandleLogin_PersistsNext(t *testing.T) {
	h := newTestAuthHandler(&fakeRequester{})

	c, rec := NewTestContext(http.MethodGet, "/login?next=%2Fprojects%2F1", nil)
	require.NoError(t, h.HandleLogin(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Entre no Zenbild")

	cookie := responseCookie(rec, redirect.CookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "%2Fprojects%2F1", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
}

func TestHandleLogin_ClearsUnsafeNext(t *testing.T) {
	h := newTestAuthHandler(&fakeRequester{})

	for _, next := range []string{"", "//evil.example", "https://evil.example"} {
		c, rec := NewTestContext(http.MethodGet, "/login?"+url.Values{"next": {next}}.Encode(), nil)
		require.NoError(t, h.HandleLogin(c))

		cookie := responseCookie(rec, redirect.CookieName)
		require.NotNil(t, cookie, "next=%q", next)
		assert.Empty(t, cookie.Value, "next=%q", next)
		assert.Less(t, cookie.MaxAge, 0, "next=%q", next)
	}
}

func TestHandleLogin_CallbackErrorBanner(t *testing.T) {
	h := newTestAuthHandler(&fakeRequester{})

	c, rec := NewTestContext(http.MethodGet, "/login?e=invalid_or_expired", nil)
	require.NoError(t, h.HandleLogin(c))
	assert.Contains(t, rec.Body.String(), "inválido ou expirou")

	c, rec = NewTestContext(http.MethodGet, "/login?e=%3Cscript%3E", nil)
	require.NoError(t, h.HandleLogin(c))
	assert.NotContains(t, rec.Body.String(), `role="alert"`)
	assert.NotContains(t, rec.Body.String(), "<script>")
}

func TestHandleSignUp(t *testing.T) {
	h := newTestAuthHandler(&fakeRequester{})

	c, rec := NewTestContext(http.MethodGet, "/signup", nil)
	require.NoError(t, h.HandleSignUp(c))

	body := rec.Body.String()
	assert.Contains(t, body, "Crie sua conta")
	assert.Contains(t, body, `name="create_if_missing" value="true"`)
}

func TestHandleLoginSubmit(t *testing.T) {
	email := gofakeit.Email()

	tests := []struct {
		name         string
		form         url.Values
		requester    *fakeRequester
		wantCalls    int
		wantCreate   bool
		wantContains string
	}{
		{
			name:         "empty email re-renders the form",
			form:         url.Values{"email": {"  "}},
			requester:    &fakeRequester{},
			wantContains: "Receber link mágico",
		},
		{
			name:         "link sent",
			form:         url.Values{"email": {email}},
			requester:    &fakeRequester{result: &backend.MagicLinkResult{OK: true}},
			wantCalls:    1,
			wantContains: "expira em 15 minutos",
		},
		{
			name:         "unknown user asks for confirmation",
			form:         url.Values{"email": {email}},
			requester:    &fakeRequester{result: &backend.MagicLinkResult{Reason: backend.ReasonUserNotFound}},
			wantCalls:    1,
			wantContains: "Criar conta e enviar link",
		},
		{
			name:         "confirmed account creation",
			form:         url.Values{"email": {email}, "create_if_missing": {"true"}},
			requester:    &fakeRequester{result: &backend.MagicLinkResult{OK: true}},
			wantCalls:    1,
			wantCreate:   true,
			wantContains: "expira em 15 minutos",
		},
		{
			name:         "backend detail is shown",
			form:         url.Values{"email": {email}},
			requester:    &fakeRequester{result: &backend.MagicLinkResult{Detail: "invalid email"}},
			wantCalls:    1,
			wantContains: "invalid email",
		},
		{
			name:         "generic message without detail",
			form:         url.Values{"email": {email}},
			requester:    &fakeRequester{result: &backend.MagicLinkResult{}},
			wantCalls:    1,
			wantContains: msgSendFailed,
		},
		{
			name:         "transport failure",
			form:         url.Values{"email": {email}},
			requester:    &fakeRequester{err: errors.New("connection refused")},
			wantCalls:    1,
			wantContains: msgRequestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestAuthHandler(tt.requester)

			c, rec := NewFormContext("/login", tt.form)
			require.NoError(t, h.HandleLoginSubmit(c))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantCalls, tt.requester.calls)
			if tt.wantCalls > 0 {
				assert.Equal(t, email, tt.requester.email)
				assert.Equal(t, tt.wantCreate, tt.requester.createIfMissing)
			}
			assert.Contains(t, rec.Body.String(), tt.wantContains)
		})
	}
}
