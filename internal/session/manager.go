package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// MinSecretLength is the shortest HS256 secret accepted
const MinSecretLength = 32

const clockSkew = time.Minute

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrWeakSecret   = fmt.Errorf("session secret must be at least %d bytes", MinSecretLength)
)

type Config struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Manager issues and verifies HS256 session tokens and the cookie carrying them
type Manager struct {
	signer     jose.Signer
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

type tokenClaims struct {
	jwt.Claims
	IsGuest bool `json:"is_guest"`
}

// NewManager creates a new session manager
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	if cfg.CookieName == "" {
		return nil, errors.New("session cookie name is required")
	}

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: []byte(cfg.Secret)},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating signer: %w", err)
	}

	return &Manager{
		signer:     signer,
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		now:        time.Now,
	}, nil
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

// Issue signs a token for userID valid for the configured TTL
func (m *Manager) Issue(userID string, isGuest bool) (string, error) {
	now := m.now()
	claims := tokenClaims{
		Claims: jwt.Claims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(m.ttl)),
		},
		IsGuest: isGuest,
	}

	raw, err := jwt.Signed(m.signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return raw, nil
}

// Verify checks the signature and expiry of raw
func (m *Manager) Verify(raw string) (*Claims, error) {
	tok, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims tokenClaims
	if err := tok.Claims(m.secret, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := claims.ValidateWithLeeway(jwt.Expected{Time: m.now()}, clockSkew); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.Expiry == nil {
		return nil, fmt.Errorf("%w: missing subject or expiry", ErrInvalidToken)
	}

	out := &Claims{
		UserID:    claims.Subject,
		IsGuest:   claims.IsGuest,
		ExpiresAt: claims.Expiry.Time(),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time()
	}
	return out, nil
}

// CreateSession sets the session cookie carrying token
func (m *Manager) CreateSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSession verifies the session cookie on r
func (m *Manager) GetSession(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, fmt.Errorf("%w: no session cookie", ErrInvalidToken)
	}
	return m.Verify(cookie.Value)
}

// DestroySession clears the session cookie
func (m *Manager) DestroySession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
