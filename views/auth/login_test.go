package auth

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderLogin(t *testing.T, form LoginForm) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Login(form).Render(context.Background(), &buf))
	return buf.String()
}

func TestLogin(t *testing.T) {
	t.Run("idle login form", func(t *testing.T) {
		html := renderLogin(t, LoginForm{Status: StatusIdle})
		assert.Contains(t, html, "Entre no Zenbild")
		assert.Contains(t, html, "Receber link mágico")
		assert.Contains(t, html, `href="/signup"`)
		assert.NotContains(t, html, "create_if_missing")
		assert.NotContains(t, html, `role="alert"`)
	})

	t.Run("signup carries create_if_missing", func(t *testing.T) {
		html := renderLogin(t, LoginForm{SignUp: true})
		assert.Contains(t, html, "Crie sua conta no Zenbild")
		assert.Contains(t, html, `name="create_if_missing" value="true"`)
		assert.Contains(t, html, `href="/login"`)
	})

	t.Run("email value is escaped", func(t *testing.T) {
		html := renderLogin(t, LoginForm{Email: `a"><script>@x.com`, Status: StatusNeedsConfirmation})
		assert.NotContains(t, html, "<script>")
		assert.Contains(t, html, `value="a&#34;&gt;&lt;script&gt;@x.com"`)
		assert.Contains(t, html, "Criar conta e enviar link")
	})

	t.Run("sent status", func(t *testing.T) {
		html := renderLogin(t, LoginForm{Email: "ana@example.com", Status: StatusSent})
		assert.Contains(t, html, "expira em 15 minutos")
		assert.Contains(t, html, "border-emerald-300")
	})

	t.Run("error message only for error status", func(t *testing.T) {
		assert.Contains(t, renderLogin(t, LoginForm{Status: StatusError, ErrorMessage: "Falhou"}), "Falhou")
		assert.NotContains(t, renderLogin(t, LoginForm{Status: StatusIdle, ErrorMessage: "Falhou"}), "Falhou")
	})

	t.Run("callback error banner", func(t *testing.T) {
		html := renderLogin(t, LoginForm{CallbackError: "invalid_or_expired"})
		assert.Contains(t, html, `role="alert"`)
		assert.Contains(t, html, "inválido ou expirou")

		assert.NotContains(t, renderLogin(t, LoginForm{CallbackError: "<script>"}), `role="alert"`)
	})
}
