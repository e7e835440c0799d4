// Package redirect validates post-login destinations and carries them across
// the magic-link round trip in a single-use cookie.
package redirect

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// DefaultLanding is where a user lands after login when no usable
// destination was requested.
const DefaultLanding = "/projects"

// Sanitize returns raw as a same-origin relative path, or false when raw is
// empty or could send the browser to another origin.
//
// raw may be percent-encoded. When decoding fails, or yields bytes that are
// not valid UTF-8, the undecoded string is checked instead. Only the leading "/" and "//" checks are enforced; the
// rest of the path is returned verbatim. Backslashes are not rejected.
func Sanitize(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	candidate := raw
	if decoded, err := url.PathUnescape(raw); err == nil && utf8.ValidString(decoded) {
		candidate = decoded
	}

	if !IsSafePath(candidate) {
		return "", false
	}

	return candidate, true
}

// IsSafePath reports whether path starts with exactly one forward slash.
// A leading "//" is a protocol-relative URL and resolves to another host.
func IsSafePath(path string) bool {
	return strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//")
}

// Resolve picks the post-login destination. next wins whenever it
// sanitizes; stored is consulted only after that, then DefaultLanding.
func Resolve(next, stored string) string {
	if dest, ok := Sanitize(next); ok {
		return dest
	}
	if dest, ok := Sanitize(stored); ok {
		return dest
	}
	return DefaultLanding
}
