package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultContentType is sent when the browser did not name one.
const DefaultContentType = "application/octet-stream"

type PresignRequest struct {
	ProjectID   string `json:"projectId"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

type presignResponse struct {
	URL string `json:"url"`
}

// PresignUpload asks the API for a pre-signed object storage URL.
func (c *Client) PresignUpload(ctx context.Context, session *http.Cookie, in PresignRequest) (string, error) {
	if in.ContentType == "" {
		in.ContentType = DefaultContentType
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/uploads/presign", in, session)
	if err != nil {
		return "", err
	}

	var out presignResponse
	if err := c.doJSON(req, &out); err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	if out.URL == "" {
		return "", errors.New("presign upload: empty url")
	}

	return out.URL, nil
}

// PutObject uploads body to a pre-signed URL in a single request. size may be
// -1 when unknown.
func (c *Client) PutObject(ctx context.Context, presignedURL, contentType string, body io.Reader, size int64) error {
	if contentType == "" {
		contentType = DefaultContentType
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, body)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if size >= 0 {
		req.ContentLength = size
	}

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	return nil
}
