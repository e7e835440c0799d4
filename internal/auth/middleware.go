package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zenbild/zenbild-web/internal/session"
	"github.com/zenbild/zenbild-web/storage/db"
)

// Context keys for storing auth data
const (
	DBUserKey          = "db_user"
	ClaimsKey          = "session_claims"
	IsAuthenticatedKey = "is_authenticated"
)

// UserLoader looks up the user a session belongs to
type UserLoader interface {
	GetUserByID(ctx context.Context, id string) (db.User, error)
}

// SessionMiddleware verifies the session cookie and loads the user from the DB.
// It is OPTIONAL: requests without a valid session pass through unauthenticated.
// An invalid or orphaned session cookie is cleared.
func SessionMiddleware(sessions *session.Manager, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(IsAuthenticatedKey, false)

			if !hasSessionCookie(c.Request(), sessions.CookieName()) {
				return next(c)
			}

			claims, err := sessions.GetSession(c.Request())
			if err != nil {
				slog.Debug("session verification failed", "error", err)
				sessions.DestroySession(c.Response())
				return next(c)
			}

			user, err := users.GetUserByID(c.Request().Context(), claims.UserID)
			if err != nil {
				slog.Warn("session user not found", "user_id", claims.UserID, "error", err)
				sessions.DestroySession(c.Response())
				return next(c)
			}

			c.Set(ClaimsKey, claims)
			c.Set(DBUserKey, &user)
			c.Set(IsAuthenticatedKey, true)

			return next(c)
		}
	}
}

// RequireSession rejects unauthenticated requests with 401.
// Must run after SessionMiddleware.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := RequireAuth(c); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func hasSessionCookie(r *http.Request, name string) bool {
	cookie, err := r.Cookie(name)
	return err == nil && cookie.Value != ""
}
