package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/zenbild/zenbild-web/internal/backend"
	"github.com/zenbild/zenbild-web/views/projects"
)

// DefaultUploadMaxSize is 100 MiB
const DefaultUploadMaxSize int64 = 100 << 20

// multipart framing allowance on top of the file itself
const multipartOverhead int64 = 1 << 20

// UploadAPI presigns object uploads and writes the object
type UploadAPI interface {
	PresignUpload(ctx context.Context, session *http.Cookie, in backend.PresignRequest) (string, error)
	PutObject(ctx context.Context, presignedURL, contentType string, body io.Reader, size int64) error
}

// UploadHandler proxies project file uploads to object storage
type UploadHandler struct {
	api           UploadAPI
	sessionCookie string
	maxSize       int64
}

func NewUploadHandler(api UploadAPI, sessionCookie string, maxSize int64) *UploadHandler {
	if maxSize <= 0 {
		maxSize = DefaultUploadMaxSize
	}
	return &UploadHandler{
		api:           api,
		sessionCookie: sessionCookie,
		maxSize:       maxSize,
	}
}

// HandleUpload serves POST /projects/:id/uploads with a multipart "file" field
func (h *UploadHandler) HandleUpload(c echo.Context) error {
	projectID := c.Param("id")
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.maxSize+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return h.respond(c, projectID, http.StatusRequestEntityTooLarge, "file too large")
		}
		return h.respond(c, projectID, http.StatusBadRequest, "missing file")
	}
	if fh.Size > h.maxSize {
		return h.respond(c, projectID, http.StatusRequestEntityTooLarge, "file too large")
	}

	contentType := fh.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = backend.DefaultContentType
	}

	file, err := fh.Open()
	if err != nil {
		return h.respond(c, projectID, http.StatusBadRequest, "unreadable file")
	}
	defer file.Close()

	ctx := req.Context()
	presignedURL, err := h.api.PresignUpload(ctx, sessionCookie(c, h.sessionCookie), backend.PresignRequest{
		ProjectID:   projectID,
		Filename:    fh.Filename,
		ContentType: contentType,
	})
	if err != nil {
		slog.Error("upload presign failed", "project_id", projectID, "error", err)
		return h.respond(c, projectID, http.StatusBadGateway, "could not presign upload")
	}

	if err := h.api.PutObject(ctx, presignedURL, contentType, file, fh.Size); err != nil {
		slog.Error("object upload failed", "project_id", projectID, "error", err)
		return h.respond(c, projectID, http.StatusBadGateway, "upload failed")
	}

	slog.Info("file uploaded", "project_id", projectID, "filename", fh.Filename, "size", fh.Size)
	return h.respond(c, projectID, http.StatusOK, "")
}

// respond answers JSON clients with a status body and form posts with a
// redirect back to the project page
func (h *UploadHandler) respond(c echo.Context, projectID string, status int, errMsg string) error {
	if wantsJSON(c.Request()) {
		if errMsg != "" {
			return c.JSON(status, map[string]string{"error": errMsg})
		}
		return c.JSON(status, map[string]string{"status": projects.UploadDone})
	}

	result := projects.UploadDone
	if errMsg != "" {
		result = projects.UploadFailed
	}
	return c.Redirect(http.StatusSeeOther, "/projects/"+url.PathEscape(projectID)+"?upload="+result)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) ||
		r.Header.Get(echo.HeaderXRequestedWith) == "XMLHttpRequest"
}
