package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// DefaultPublicPaths are reachable without a session. Matching is by prefix,
// so every entry also opens everything that starts with it.
var DefaultPublicPaths = []string{
	"/login",
	"/signup",
	"/magic",
	"/auth/callback",
	"/api/public",
	"/public",
	"/assets",
	"/favicon.ico",
	"/robots.txt",
	"/sitemap.xml",
	"/health",
}

// Decision is the outcome of the session gate for one request.
type Decision int

const (
	Allowed Decision = iota
	Redirected
)

func (d Decision) String() string {
	if d == Redirected {
		return "redirected"
	}
	return "allowed"
}

// GateConfig configures SessionGate.
type GateConfig struct {
	// SessionCookie is the name of the cookie whose presence marks a session.
	SessionCookie string
	// PublicPaths defaults to DefaultPublicPaths when nil.
	PublicPaths []string
	// LoginPath defaults to "/login".
	LoginPath string
}

// IsPublic reports whether path equals or starts with any of prefixes.
func IsPublic(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Classify decides whether a request for path may pass. hasSession reports
// only cookie presence; the credential is verified by the API that reads it.
func (cfg GateConfig) Classify(path string, hasSession bool) Decision {
	if IsPublic(path, cfg.publicPaths()) {
		return Allowed
	}
	if hasSession {
		return Allowed
	}
	return Redirected
}

// LoginURL builds the login redirect carrying path as the next parameter.
func (cfg GateConfig) LoginURL(path string) string {
	q := url.Values{}
	q.Set("next", path)
	return cfg.loginPath() + "?" + q.Encode()
}

// SessionGate redirects requests for protected paths to the login page when
// the session cookie is absent.
func SessionGate(cfg GateConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := c.Request().URL

			if cfg.Classify(u.Path, hasCookie(c.Request(), cfg.SessionCookie)) == Redirected {
				// next keeps the escaping the client sent; the decoded path
				// would turn %3F into a query and %2F into a separator.
				return c.Redirect(http.StatusFound, cfg.LoginURL(u.EscapedPath()))
			}

			return next(c)
		}
	}
}

func (cfg GateConfig) publicPaths() []string {
	if cfg.PublicPaths == nil {
		return DefaultPublicPaths
	}
	return cfg.PublicPaths
}

func (cfg GateConfig) loginPath() string {
	if cfg.LoginPath == "" {
		return "/login"
	}
	return cfg.LoginPath
}

func hasCookie(r *http.Request, name string) bool {
	cookie, err := r.Cookie(name)
	return err == nil && cookie.Value != ""
}
