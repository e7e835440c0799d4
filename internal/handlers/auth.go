package handlers

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/zenbild/zenbild-web/internal/backend"
	"github.com/zenbild/zenbild-web/internal/redirect"
	"github.com/zenbild/zenbild-web/views/auth"
	"github.com/zenbild/zenbild-web/views/layout"
)

const (
	msgSendFailed    = "Não foi possível enviar o link."
	msgRequestFailed = "Erro ao solicitar o link mágico."
)

// MagicLinkRequester asks the backend to email a login link
type MagicLinkRequester interface {
	RequestMagicLink(ctx context.Context, email string, createIfMissing bool) (*backend.MagicLinkResult, error)
}

// AuthHandler handles the login and signup pages
type AuthHandler struct {
	magic   MagicLinkRequester
	cookies redirect.CookieOptions
	siteURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(magic MagicLinkRequester, cookies redirect.CookieOptions, siteURL string) *AuthHandler {
	return &AuthHandler{
		magic:   magic,
		cookies: cookies,
		siteURL: siteURL,
	}
}

// HandleLogin renders the login form and remembers ?next= for the callback
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	c.SetCookie(redirect.Persist(c.QueryParam("next"), h.cookies))

	return h.render(c, auth.LoginForm{
		Status:        auth.StatusIdle,
		CallbackError: c.QueryParam("e"),
	})
}

// HandleSignUp renders the form with account creation preselected
func (h *AuthHandler) HandleSignUp(c echo.Context) error {
	c.SetCookie(redirect.Persist(c.QueryParam("next"), h.cookies))

	return h.render(c, auth.LoginForm{
		Status: auth.StatusIdle,
		SignUp: true,
	})
}

// HandleLoginSubmit requests a magic link for the posted email
func (h *AuthHandler) HandleLoginSubmit(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	createIfMissing, _ := strconv.ParseBool(c.FormValue("create_if_missing"))

	form := auth.LoginForm{
		Email:  email,
		Status: auth.StatusIdle,
		SignUp: createIfMissing,
	}
	if email == "" {
		return h.render(c, form)
	}

	result, err := h.magic.RequestMagicLink(c.Request().Context(), email, createIfMissing)
	switch {
	case err != nil:
		slog.Error("magic link request failed", "error", err)
		form.Status = auth.StatusError
		form.ErrorMessage = msgRequestFailed
	case result.Reason == backend.ReasonUserNotFound && !createIfMissing:
		form.Status = auth.StatusNeedsConfirmation
	case !result.OK:
		form.Status = auth.StatusError
		form.ErrorMessage = result.Detail
		if form.ErrorMessage == "" {
			form.ErrorMessage = msgSendFailed
		}
	default:
		form.Status = auth.StatusSent
	}

	return h.render(c, form)
}

func (h *AuthHandler) render(c echo.Context, form auth.LoginForm) error {
	title := "Entrar"
	if form.SignUp {
		title = "Criar conta"
	}
	meta := layout.NewPageMeta(c, h.siteURL).WithTitle(title).Private()
	return Render(c, layout.Base(meta, auth.Login(form)))
}
