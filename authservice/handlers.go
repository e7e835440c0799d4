package authservice

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zenbild/zenbild-web/internal/auth"
	"github.com/zenbild/zenbild-web/internal/magiclink"
	"github.com/zenbild/zenbild-web/internal/session"
)

const (
	msgInvalidEmail  = "E-mail inválido."
	msgRateLimited   = "Tente novamente em instantes."
	msgMissingToken  = "Token ausente."
	msgInvalidToken  = "Token inválido ou expirado."
	msgTokenUsed     = "Token já utilizado."
	msgInternalError = "Erro interno."
)

type magicRequestBody struct {
	Email           string `json:"email"`
	CreateIfMissing bool   `json:"create_if_missing"`
}

// detail writes an error body in the {"detail": "..."} shape clients expect
func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

func (s *Service) handleMagicRequest(c echo.Context) error {
	var body magicRequestBody
	if err := c.Bind(&body); err != nil {
		return detail(c, http.StatusBadRequest, msgInvalidEmail)
	}

	emailAddr, err := magiclink.NormalizeEmail(body.Email)
	if err != nil {
		return detail(c, http.StatusBadRequest, msgInvalidEmail)
	}

	ip := c.RealIP()
	if !s.ipLimiter.Allow(ip) || !s.emailLimiter.Allow(emailAddr) {
		slog.Warn("magic link request rate limited", "ip", ip)
		return detail(c, http.StatusTooManyRequests, msgRateLimited)
	}

	result, err := s.magic.Request(c.Request().Context(), emailAddr, body.CreateIfMissing, magiclink.RequestMeta{
		IP:        ip,
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		slog.Error("magic link request failed", "error", err)
		return detail(c, http.StatusInternalServerError, msgInternalError)
	}

	if !result.OK {
		return c.JSON(http.StatusOK, map[string]any{"ok": false, "reason": result.Reason})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

func (s *Service) handleMagicConsume(c echo.Context) error {
	user, err := s.magic.Consume(c.Request().Context(), c.QueryParam("token"))
	switch {
	case errors.Is(err, magiclink.ErrMissingToken):
		return detail(c, http.StatusBadRequest, msgMissingToken)
	case errors.Is(err, magiclink.ErrInvalidToken):
		return detail(c, http.StatusBadRequest, msgInvalidToken)
	case errors.Is(err, magiclink.ErrTokenUsed):
		return detail(c, http.StatusBadRequest, msgTokenUsed)
	case err != nil:
		slog.Error("magic link consume failed", "error", err)
		return detail(c, http.StatusInternalServerError, msgInternalError)
	}

	token, err := s.sessions.Issue(user.ID, user.IsGuest)
	if err != nil {
		slog.Error("failed to issue session", "error", err, "user_id", user.ID)
		return detail(c, http.StatusInternalServerError, msgInternalError)
	}
	s.sessions.CreateSession(c.Response(), token)

	slog.Info("user logged in", "user_id", user.ID)
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

func (s *Service) handleMe(c echo.Context) error {
	user, ok := auth.GetDBUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return c.JSON(http.StatusOK, session.UserData{
		ID:      user.ID,
		Email:   user.Email,
		IsGuest: user.IsGuest,
	})
}

func (s *Service) handleLogout(c echo.Context) error {
	s.sessions.DestroySession(c.Response())
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
