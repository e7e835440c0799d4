// Package devapi is an in-memory stand-in for the project API, for running
// the web app locally against cmd/authd without the real project service.
package devapi

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"github.com/zenbild/zenbild-web/internal/auth"
	"github.com/zenbild/zenbild-web/internal/backend"
)

const maxObjectSize = 100 << 20

// Object is an uploaded file kept in memory
type Object struct {
	ProjectID   string
	Filename    string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}

type pendingUpload struct {
	backend.PresignRequest
	expiresAt time.Time
}

type Store struct {
	mu       sync.Mutex
	baseURL  string
	faker    *gofakeit.Faker
	projects map[string][]backend.ProjectDetail // by user id
	pending  map[string]pendingUpload
	objects  map[string]Object
	now      func() time.Time
}

// NewStore creates an empty store. baseURL is the externally reachable
// origin used to build upload URLs.
func NewStore(baseURL string, seed uint64) *Store {
	return &Store{
		baseURL:  strings.TrimRight(baseURL, "/"),
		faker:    gofakeit.New(seed),
		projects: make(map[string][]backend.ProjectDetail),
		pending:  make(map[string]pendingUpload),
		objects:  make(map[string]Object),
		now:      time.Now,
	}
}

// RegisterRoutes mounts the project API. It expects auth.SessionMiddleware
// to be installed already.
func (s *Store) RegisterRoutes(e *echo.Echo) {
	requireSession := auth.RequireSession()
	e.GET("/projects", s.handleList, requireSession)
	e.GET("/projects/:id", s.handleDetail, requireSession)
	e.POST("/uploads/presign", s.handlePresign, requireSession)

	// Pre-signed URLs are capability URLs and carry no session
	e.PUT("/uploads/objects/:key", s.handlePut)
}

// Objects returns a snapshot of the uploaded objects
func (s *Store) Objects() map[string]Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Object, len(s.objects))
	for k, v := range s.objects {
		out[k] = v
	}
	return out
}

// projectsFor returns the user's projects, generating sample ones on first use.
// Caller holds s.mu.
func (s *Store) projectsFor(userID string) []backend.ProjectDetail {
	if p, ok := s.projects[userID]; ok {
		return p
	}

	var list []backend.ProjectDetail
	for i := 0; i < 2; i++ {
		start := s.now().AddDate(0, -2+i, 0)
		list = append(list, backend.ProjectDetail{
			ID:   ulid.Make().String(),
			Name: fmt.Sprintf("Obra %s", s.faker.Street()),
			KPIs: []backend.KPI{
				{Label: "Progresso", Value: backend.KPIValue(fmt.Sprintf("%d%%", s.faker.IntRange(5, 95)))},
				{Label: "Orçamento", Value: backend.KPIValue(fmt.Sprintf("R$ %d", s.faker.IntRange(50, 900)*1000))},
			},
			Timeline: []backend.TimelineItem{
				{Date: start.Format(time.DateOnly), Text: "Início da obra"},
				{Date: start.AddDate(0, 0, 21).Format(time.DateOnly), Text: "Fundação concluída"},
			},
		})
	}
	s.projects[userID] = list
	return list
}

func (s *Store) findProject(userID, id string) (backend.ProjectDetail, bool) {
	for _, p := range s.projectsFor(userID) {
		if p.ID == id {
			return p, true
		}
	}
	return backend.ProjectDetail{}, false
}

func (s *Store) handleList(c echo.Context) error {
	userID, _ := auth.GetUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]backend.Project, 0)
	for _, p := range s.projectsFor(userID) {
		out = append(out, backend.Project{ID: p.ID, Name: p.Name})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Store) handleDetail(c echo.Context) error {
	userID, _ := auth.GetUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.findProject(userID, c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Projeto não encontrado."})
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Store) handlePresign(c echo.Context) error {
	userID, _ := auth.GetUserID(c)

	var req backend.PresignRequest
	if err := c.Bind(&req); err != nil || req.ProjectID == "" || req.Filename == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Requisição inválida."})
	}
	if req.ContentType == "" {
		req.ContentType = backend.DefaultContentType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findProject(userID, req.ProjectID); !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Projeto não encontrado."})
	}

	key := ulid.Make().String()
	s.pending[key] = pendingUpload{PresignRequest: req, expiresAt: s.now().Add(15 * time.Minute)}

	return c.JSON(http.StatusOK, map[string]string{"url": s.baseURL + "/uploads/objects/" + key})
}

func (s *Store) handlePut(c echo.Context) error {
	key := c.Param("key")

	s.mu.Lock()
	pending, ok := s.pending[key]
	if ok {
		delete(s.pending, key)
	}
	s.mu.Unlock()

	if !ok || s.now().After(pending.expiresAt) {
		return c.NoContent(http.StatusForbidden)
	}

	n, err := io.Copy(io.Discard, io.LimitReader(c.Request().Body, maxObjectSize+1))
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	if n > maxObjectSize {
		return c.NoContent(http.StatusRequestEntityTooLarge)
	}

	obj := Object{
		ProjectID:   pending.ProjectID,
		Filename:    pending.Filename,
		ContentType: c.Request().Header.Get(echo.HeaderContentType),
		Size:        n,
		UploadedAt:  s.now(),
	}

	s.mu.Lock()
	s.objects[key] = obj
	s.mu.Unlock()

	slog.Info("object uploaded", "project_id", obj.ProjectID, "filename", obj.Filename, "size", n)
	return c.NoContent(http.StatusOK)
}
