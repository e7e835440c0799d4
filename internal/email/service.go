package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const (
	DefaultFrom      = "Zenbild <login@notifications.zenbild.com>"
	resendEndpoint   = "https://api.resend.com/emails"
	postmarkEndpoint = "https://api.postmarkapp.com/email"
	sendTimeout      = 15 * time.Second
)

// Email represents an email message
type Email struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers an email through one provider
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// Config selects the provider: Resend when ResendAPIKey is set, else
// Postmark when PostmarkServerToken is set, else log-only delivery.
type Config struct {
	From                string
	ResendAPIKey        string
	PostmarkServerToken string

	// Endpoint overrides, used by tests
	ResendURL   string
	PostmarkURL string
}

// NewSender returns the sender chosen by cfg
func NewSender(cfg Config) Sender {
	from := cfg.From
	if from == "" {
		from = DefaultFrom
	}
	client := &http.Client{Timeout: sendTimeout}

	switch {
	case cfg.ResendAPIKey != "":
		endpoint := cfg.ResendURL
		if endpoint == "" {
			endpoint = resendEndpoint
		}
		return &ResendSender{apiKey: cfg.ResendAPIKey, from: from, endpoint: endpoint, client: client}
	case cfg.PostmarkServerToken != "":
		endpoint := cfg.PostmarkURL
		if endpoint == "" {
			endpoint = postmarkEndpoint
		}
		return &PostmarkSender{token: cfg.PostmarkServerToken, from: from, endpoint: endpoint, client: client}
	default:
		slog.Warn("no email provider configured, emails will only be logged")
		return LogSender{}
	}
}

// ResendSender sends through the Resend HTTP API
type ResendSender struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
}

func (s *ResendSender) Send(ctx context.Context, email *Email) error {
	payload := map[string]any{
		"from":    s.from,
		"to":      email.To,
		"subject": email.Subject,
		"text":    email.Text,
	}
	if email.HTML != "" {
		payload["html"] = email.HTML
	}

	return postJSON(ctx, s.client, s.endpoint, payload, map[string]string{
		"Authorization": "Bearer " + s.apiKey,
	})
}

// PostmarkSender sends through the Postmark HTTP API
type PostmarkSender struct {
	token    string
	from     string
	endpoint string
	client   *http.Client
}

func (s *PostmarkSender) Send(ctx context.Context, email *Email) error {
	if len(email.To) == 0 {
		return errors.New("email has no recipient")
	}
	payload := map[string]any{
		"From":          s.from,
		"To":            email.To[0],
		"Subject":       email.Subject,
		"TextBody":      email.Text,
		"MessageStream": "outbound",
	}
	if email.HTML != "" {
		payload["HtmlBody"] = email.HTML
	}

	return postJSON(ctx, s.client, s.endpoint, payload, map[string]string{
		"X-Postmark-Server-Token": s.token,
	})
}

// LogSender logs emails instead of sending them (development)
type LogSender struct{}

func (LogSender) Send(_ context.Context, email *Email) error {
	slog.Info("email not sent, no provider configured", "to", email.To, "subject", email.Subject, "text", email.Text)
	return nil
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, payload any, headers map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("failed to send email: provider returned %s: %s", strconv.Itoa(resp.StatusCode), bytes.TrimSpace(detail))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Service composes and sends the application's emails
type Service struct {
	sender       Sender
	magicLinkTTL time.Duration
}

// NewService creates a new email service
func NewService(sender Sender, magicLinkTTL time.Duration) *Service {
	return &Service{
		sender:       sender,
		magicLinkTTL: magicLinkTTL,
	}
}

// SendMagicLink emails a login link to the given address
func (s *Service) SendMagicLink(ctx context.Context, to, link string) error {
	data := MagicLinkData{
		Link:       link,
		TTLMinutes: int(s.magicLinkTTL / time.Minute),
	}

	html, err := RenderMagicLinkEmail(data)
	if err != nil {
		return err
	}

	email := &Email{
		To:      []string{to},
		Subject: MagicLinkSubject,
		Text:    RenderMagicLinkText(data),
		HTML:    html,
	}

	if err := s.sender.Send(ctx, email); err != nil {
		return err
	}
	slog.Info("magic link email sent", "to", to)
	return nil
}
