package magiclink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/zenbild/zenbild-web/storage/db"
)

const (
	DefaultTTL         = 15 * time.Minute
	ReasonUserNotFound = "user_not_found"
)

var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenUsed    = errors.New("token already used")
)

// Mailer delivers the login link
type Mailer interface {
	SendMagicLink(ctx context.Context, to, link string) error
}

// RequestResult is the outcome of a link request. OK is false only when the
// address is unknown and account creation was not asked for.
type RequestResult struct {
	OK     bool
	Reason string
}

// RequestMeta is client information recorded with the token
type RequestMeta struct {
	IP        string
	UserAgent string
}

type Service struct {
	queries     *db.Queries
	mailer      Mailer
	ttl         time.Duration
	callbackURL string
	now         func() time.Time
}

// NewService builds the service. frontendURL is the web app origin; links
// point at its /auth/callback route.
func NewService(queries *db.Queries, mailer Mailer, frontendURL string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		queries:     queries,
		mailer:      mailer,
		ttl:         ttl,
		callbackURL: strings.TrimRight(frontendURL, "/") + "/auth/callback",
		now:         time.Now,
	}
}

// TTL returns the lifetime of issued tokens
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// NormalizeEmail trims and lowercases an address and checks it looks like one
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Request issues a login token for email and mails the link. Delivery
// failures are logged and not returned.
func (s *Service) Request(ctx context.Context, rawEmail string, createIfMissing bool, meta RequestMeta) (RequestResult, error) {
	email, err := NormalizeEmail(rawEmail)
	if err != nil {
		return RequestResult{}, err
	}

	userID := sql.NullString{}
	user, err := s.queries.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		userID = sql.NullString{String: user.ID, Valid: true}
	case errors.Is(err, sql.ErrNoRows):
		if !createIfMissing {
			return RequestResult{OK: false, Reason: ReasonUserNotFound}, nil
		}
		created, err := s.getOrCreateUser(ctx, email)
		if err != nil {
			return RequestResult{}, err
		}
		userID = sql.NullString{String: created.ID, Valid: true}
	default:
		return RequestResult{}, fmt.Errorf("failed to look up user: %w", err)
	}

	plaintext, hash, err := GenerateToken()
	if err != nil {
		return RequestResult{}, fmt.Errorf("failed to generate token: %w", err)
	}

	now := s.now().UTC()
	err = s.queries.CreateLoginToken(ctx, db.CreateLoginTokenParams{
		ID:        ulid.Make().String(),
		Email:     email,
		TokenHash: hash,
		UserID:    userID,
		Ip:        nullString(meta.IP),
		UserAgent: nullString(meta.UserAgent),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	})
	if err != nil {
		return RequestResult{}, fmt.Errorf("failed to store token: %w", err)
	}

	if err := s.mailer.SendMagicLink(ctx, email, s.link(plaintext)); err != nil {
		slog.Error("failed to send magic link", "error", err, "email", email)
	}

	return RequestResult{OK: true}, nil
}

// Consume redeems a token once and returns the user it logs in
func (s *Service) Consume(ctx context.Context, token string) (db.User, error) {
	if token == "" {
		return db.User{}, ErrMissingToken
	}

	row, err := s.queries.GetLoginTokenByHash(ctx, HashToken(token))
	if errors.Is(err, sql.ErrNoRows) {
		return db.User{}, ErrInvalidToken
	}
	if err != nil {
		return db.User{}, fmt.Errorf("failed to look up token: %w", err)
	}

	now := s.now().UTC()
	if !now.Before(row.ExpiresAt) {
		return db.User{}, ErrInvalidToken
	}
	if row.ConsumedAt.Valid {
		return db.User{}, ErrTokenUsed
	}

	// Conditional update so two concurrent redemptions cannot both succeed
	n, err := s.queries.ConsumeLoginToken(ctx, db.ConsumeLoginTokenParams{
		ConsumedAt: sql.NullTime{Time: now, Valid: true},
		ID:         row.ID,
	})
	if err != nil {
		return db.User{}, fmt.Errorf("failed to consume token: %w", err)
	}
	if n == 0 {
		return db.User{}, ErrTokenUsed
	}

	return s.getOrCreateUser(ctx, row.Email)
}

func (s *Service) getOrCreateUser(ctx context.Context, email string) (db.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return db.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	user = db.User{
		ID:        uuid.New().String(),
		Email:     email,
		IsGuest:   false,
		CreatedAt: s.now().UTC(),
	}
	err = s.queries.CreateUser(ctx, db.CreateUserParams{
		ID:        user.ID,
		Email:     user.Email,
		IsGuest:   user.IsGuest,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		// Lost a race on the unique email; the other insert wins
		if existing, lookupErr := s.queries.GetUserByEmail(ctx, email); lookupErr == nil {
			return existing, nil
		}
		return db.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", "user_id", user.ID)
	return user, nil
}

func (s *Service) link(token string) string {
	return s.callbackURL + "?token=" + url.QueryEscape(token)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
