package service

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zenbild/zenbild-web/internal/backend"
	"github.com/zenbild/zenbild-web/internal/handlers"
	"github.com/zenbild/zenbild-web/internal/middleware"
	"github.com/zenbild/zenbild-web/internal/redirect"
)

type Service struct {
	config          *Config
	backend         *backend.Client
	authHandler     *handlers.AuthHandler
	callbackRouter  *handlers.PostLoginRouter
	projectsHandler *handlers.ProjectsHandler
	uploadHandler   *handlers.UploadHandler
}

func New(config *Config) *Service {
	client := backend.NewClient(config.Backend.BaseURL, config.Backend.Timeout)

	cookies := redirect.CookieOptions{
		Secure: config.IsProduction(),
		TTL:    config.Redirect.CookieTTL,
	}

	return &Service{
		config:          config,
		backend:         client,
		authHandler:     handlers.NewAuthHandler(client, cookies, config.BaseURL),
		callbackRouter:  handlers.NewPostLoginRouter(client, cookies),
		projectsHandler: handlers.NewProjectsHandler(client, config.Session.CookieName, config.BaseURL),
		uploadHandler:   handlers.NewUploadHandler(client, config.Session.CookieName, config.Upload.MaxSize),
	}
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	// Static files
	e.Static("/public", "public")

	e.Use(middleware.SessionGate(s.gateConfig()))

	e.GET("/health", s.handleHealth)

	// Auth (public)
	e.GET("/login", s.authHandler.HandleLogin)
	e.POST("/login", s.authHandler.HandleLoginSubmit)
	e.GET("/signup", s.authHandler.HandleSignUp)
	e.GET("/auth/callback", s.callbackRouter.HandleCallback)

	// Everything below needs a session cookie
	e.GET("/", s.handleHome)
	e.GET("/projects", s.projectsHandler.HandleList)
	e.GET("/projects/:id", s.projectsHandler.HandleDetail)
	e.POST("/projects/:id/uploads", s.uploadHandler.HandleUpload)

	api := e.Group("/api")
	api.GET("/projects", s.projectsHandler.HandleListJSON)
	api.GET("/projects/:id", s.projectsHandler.HandleDetailJSON)
}

func (s *Service) gateConfig() middleware.GateConfig {
	return middleware.GateConfig{
		SessionCookie: s.config.Session.CookieName,
		PublicPaths:   s.config.Session.PublicPaths,
	}
}

func (s *Service) handleHome(c echo.Context) error {
	return c.Redirect(http.StatusFound, redirect.DefaultLanding)
}

func (s *Service) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "healthy",
		"environment": s.config.Environment,
		"backend":     s.backend.BaseURL(),
	})
}
