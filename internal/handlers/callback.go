package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/zenbild/zenbild-web/internal/redirect"
)

// Error markers appended to /login as ?e=<code>
const (
	CodeMissingToken     = "missing_token"
	CodeInvalidOrExpired = "invalid_or_expired"
)

// ErrMissingToken is returned when the callback URL carries no token
var ErrMissingToken = errors.New("missing magic link token")

// TokenExchanger redeems a magic-link token for a session. It returns the
// Set-Cookie header lines of the exchange response.
type TokenExchanger interface {
	ConsumeMagicLink(ctx context.Context, token string, cookies []*http.Cookie) ([]string, error)
}

// CallbackRequest holds everything the router reads from the incoming callback.
type CallbackRequest struct {
	Token          string
	Next           string
	StoredRedirect string
	// Cookies are forwarded to the exchange
	Cookies []*http.Cookie
}

// CallbackResult is the response the callback should produce.
type CallbackResult struct {
	Location string
	// Cookies are set by the web app itself
	Cookies []*http.Cookie
	// SetCookies are the exchange response's Set-Cookie lines, relayed verbatim
	SetCookies []string
	Err        error
}

// PostLoginRouter decides where a user lands after following a magic link.
type PostLoginRouter struct {
	exchanger TokenExchanger
	cookies   redirect.CookieOptions
	loginPath string
}

func NewPostLoginRouter(exchanger TokenExchanger, cookies redirect.CookieOptions) *PostLoginRouter {
	return &PostLoginRouter{
		exchanger: exchanger,
		cookies:   cookies,
		loginPath: "/login",
	}
}

// Route exchanges the token and resolves the destination. It never logs and
// never touches the request.
func (r *PostLoginRouter) Route(ctx context.Context, in CallbackRequest) CallbackResult {
	if in.Token == "" {
		return CallbackResult{
			Location: r.loginWithError(CodeMissingToken),
			Err:      ErrMissingToken,
		}
	}

	setCookies, err := r.exchanger.ConsumeMagicLink(ctx, in.Token, in.Cookies)
	if err != nil {
		return CallbackResult{
			Location: r.loginWithError(CodeInvalidOrExpired),
			Err:      err,
		}
	}

	return CallbackResult{
		Location:   redirect.Resolve(in.Next, in.StoredRedirect),
		Cookies:    []*http.Cookie{redirect.Clear(r.cookies)},
		SetCookies: setCookies,
	}
}

func (r *PostLoginRouter) loginWithError(code string) string {
	return r.loginPath + "?" + url.Values{"e": {code}}.Encode()
}

// ErrorCode maps a routing error to its /login marker.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingToken):
		return CodeMissingToken
	default:
		return CodeInvalidOrExpired
	}
}

// HandleCallback serves GET /auth/callback
func (r *PostLoginRouter) HandleCallback(c echo.Context) error {
	req := c.Request()
	result := r.Route(req.Context(), CallbackRequest{
		Token:          c.QueryParam("token"),
		Next:           c.QueryParam("next"),
		StoredRedirect: redirect.Stored(req),
		Cookies:        req.Cookies(),
	})

	if result.Err != nil {
		slog.Warn("magic link callback rejected", "code", ErrorCode(result.Err), "error", result.Err)
	} else {
		slog.Debug("magic link callback accepted", "location", result.Location)
	}

	header := c.Response().Header()
	for _, line := range result.SetCookies {
		header.Add("Set-Cookie", line)
	}
	for _, cookie := range result.Cookies {
		c.SetCookie(cookie)
	}
	return c.Redirect(http.StatusFound, result.Location)
}
