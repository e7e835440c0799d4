package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/zenbild/zenbild-web/internal/backend"
	"github.com/zenbild/zenbild-web/views/layout"
	"github.com/zenbild/zenbild-web/views/projects"
)

// ProjectsAPI is the read side of the project API
type ProjectsAPI interface {
	ListProjects(ctx context.Context, session *http.Cookie) ([]backend.Project, error)
	GetProject(ctx context.Context, session *http.Cookie, id string) (*backend.ProjectDetail, error)
}

// ProjectsHandler serves the project dashboard pages and their JSON variants
type ProjectsHandler struct {
	api           ProjectsAPI
	sessionCookie string
	siteURL       string
}

func NewProjectsHandler(api ProjectsAPI, sessionCookie, siteURL string) *ProjectsHandler {
	return &ProjectsHandler{
		api:           api,
		sessionCookie: sessionCookie,
		siteURL:       siteURL,
	}
}

// HandleList renders GET /projects
func (h *ProjectsHandler) HandleList(c echo.Context) error {
	items, err := h.list(c)
	meta := layout.NewPageMeta(c, h.siteURL).WithTitle("Projetos").Private()

	if err != nil {
		if isUnauthorized(err) {
			return c.Redirect(http.StatusFound, loginURL(c.Request().URL.EscapedPath()))
		}
		slog.Error("failed to load projects", "error", err)
		return RenderStatus(c, http.StatusBadGateway, layout.Base(meta, projects.ListError()))
	}

	return Render(c, layout.Base(meta, projects.List(items)))
}

// HandleDetail renders GET /projects/:id
func (h *ProjectsHandler) HandleDetail(c echo.Context) error {
	id := c.Param("id")
	detail, err := h.api.GetProject(c.Request().Context(), sessionCookie(c, h.sessionCookie), id)
	meta := layout.NewPageMeta(c, h.siteURL).Private()

	switch {
	case errors.Is(err, backend.ErrNotFound):
		return RenderStatus(c, http.StatusNotFound, layout.Message(meta.WithTitle("Projeto não encontrado"),
			"Projeto não encontrado", "O projeto solicitado não existe ou você não tem acesso a ele."))
	case isUnauthorized(err):
		return c.Redirect(http.StatusFound, loginURL(c.Request().URL.EscapedPath()))
	case err != nil:
		slog.Error("failed to load project", "project_id", id, "error", err)
		return RenderStatus(c, http.StatusBadGateway, layout.Message(meta.WithTitle("Erro"),
			"Não foi possível carregar o projeto", "Tente novamente mais tarde."))
	}

	return Render(c, layout.Base(meta.WithTitle(detail.Name), projects.Detail(detail, c.QueryParam("upload"))))
}

// HandleListJSON serves GET /api/projects
func (h *ProjectsHandler) HandleListJSON(c echo.Context) error {
	items, err := h.list(c)
	if err != nil {
		return apiError(err)
	}
	if items == nil {
		items = []backend.Project{}
	}
	return c.JSON(http.StatusOK, items)
}

// HandleDetailJSON serves GET /api/projects/:id
func (h *ProjectsHandler) HandleDetailJSON(c echo.Context) error {
	detail, err := h.api.GetProject(c.Request().Context(), sessionCookie(c, h.sessionCookie), c.Param("id"))
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// list treats a 404 from the API as "no projects yet"
func (h *ProjectsHandler) list(c echo.Context) ([]backend.Project, error) {
	items, err := h.api.ListProjects(c.Request().Context(), sessionCookie(c, h.sessionCookie))
	if errors.Is(err, backend.ErrNotFound) {
		return nil, nil
	}
	return items, err
}

func apiError(err error) error {
	switch {
	case errors.Is(err, backend.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "project not found")
	case isUnauthorized(err):
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	default:
		slog.Error("project api request failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "project api unavailable")
	}
}

func isUnauthorized(err error) bool {
	var statusErr *backend.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized
}

func loginURL(path string) string {
	return "/login?" + url.Values{"next": {path}}.Encode()
}

// sessionCookie returns the session cookie to forward to the API, or nil
func sessionCookie(c echo.Context, name string) *http.Cookie {
	cookie, err := c.Cookie(name)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return &http.Cookie{Name: cookie.Name, Value: cookie.Value}
}
