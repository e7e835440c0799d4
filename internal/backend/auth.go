package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ReasonUserNotFound is returned by the magic-link request endpoint when no
// account exists and the caller did not ask to create one.
const ReasonUserNotFound = "user_not_found"

// MagicLinkResult is the body of POST /auth/magic/request.
type MagicLinkResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Detail string `json:"-"`
}

type magicLinkRequest struct {
	Email           string `json:"email"`
	CreateIfMissing bool   `json:"create_if_missing"`
}

// RequestMagicLink asks the backend to email a login link. A non-2xx answer
// is not an error: it comes back as a result with OK false and the backend's
// detail message, the way the login form needs it.
func (c *Client) RequestMagicLink(ctx context.Context, email string, createIfMissing bool) (*MagicLinkResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/magic/request", magicLinkRequest{
		Email:           email,
		CreateIfMissing: createIfMissing,
	}, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request magic link: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("read magic link response: %w", err)
	}

	var result MagicLinkResult
	_ = json.Unmarshal(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.OK = false
		result.Detail = readDetail(bytes.NewReader(body))
	}

	return &result, nil
}

// ConsumeMagicLink exchanges a one-time token for a session. On success it
// returns the backend's Set-Cookie header lines verbatim so the caller can
// relay them to the browser. Every failure is reported as ErrExchangeFailed.
func (c *Client) ConsumeMagicLink(ctx context.Context, token string, cookies []*http.Cookie) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/magic/consume?token="+url.QueryEscape(token), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode)
	}

	return resp.Header.Values("Set-Cookie"), nil
}
