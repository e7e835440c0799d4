package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zenbild/zenbild-web/internal/session"
	"github.com/zenbild/zenbild-web/storage/db"
)

// GetDBUser retrieves the database user from context
func GetDBUser(c echo.Context) (*db.User, bool) {
	dbUser, ok := c.Get(DBUserKey).(*db.User)
	return dbUser, ok && dbUser != nil
}

// GetClaims retrieves the verified session claims from context
func GetClaims(c echo.Context) (*session.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(*session.Claims)
	return claims, ok && claims != nil
}

// IsAuthenticated checks if the current request is authenticated
func IsAuthenticated(c echo.Context) bool {
	isAuth, _ := c.Get(IsAuthenticatedKey).(bool)
	return isAuth
}

// GetUserID gets the user ID from the database user (preferred) or session claims
func GetUserID(c echo.Context) (string, bool) {
	if dbUser, ok := GetDBUser(c); ok {
		return dbUser.ID, true
	}
	if claims, ok := GetClaims(c); ok {
		return claims.UserID, true
	}
	return "", false
}

// RequireAuth is a helper that checks auth and returns error if not authenticated
// Use this in handlers that need auth
func RequireAuth(c echo.Context) error {
	if !IsAuthenticated(c) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return nil
}
