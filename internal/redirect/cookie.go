package redirect

import (
	"net/http"
	"net/url"
	"time"
)

// CookieName holds a destination requested before login.
const CookieName = "post_login_redirect"

const cookiePath = "/"

// CookieOptions controls the attributes of the post-login redirect cookie.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

// Persist returns the cookie that stores next for the post-login router.
// An unsafe or empty next yields a clearing cookie instead, so a stale
// destination from an earlier visit cannot be replayed.
func Persist(next string, opts CookieOptions) *http.Cookie {
	if !IsSafePath(next) {
		return Clear(opts)
	}

	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    url.PathEscape(next),
		Path:     cookiePath,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if opts.TTL > 0 {
		cookie.MaxAge = int(opts.TTL / time.Second)
	}
	return cookie
}

// Clear returns a cookie that expires the stored destination immediately.
func Clear(opts CookieOptions) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     cookiePath,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}

// Stored returns the raw value of the redirect cookie on r, if any. The value
// is untrusted and must go through Sanitize before use.
func Stored(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
