package authservice

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/zenbild/zenbild-web/internal/auth"
	"github.com/zenbild/zenbild-web/internal/devapi"
	"github.com/zenbild/zenbild-web/internal/email"
	"github.com/zenbild/zenbild-web/internal/jobs"
	"github.com/zenbild/zenbild-web/internal/magiclink"
	"github.com/zenbild/zenbild-web/internal/ratelimit"
	"github.com/zenbild/zenbild-web/internal/server"
	"github.com/zenbild/zenbild-web/internal/session"
	"github.com/zenbild/zenbild-web/storage"
)

type Service struct {
	config       *Config
	storage      *storage.Storage
	sessions     *session.Manager
	magic        *magiclink.Service
	ipLimiter    *ratelimit.Keyed
	emailLimiter *ratelimit.Keyed
}

func New(config *Config, store *storage.Storage, sender email.Sender) (*Service, error) {
	sessions, err := session.NewManager(session.Config{
		Secret:     config.Session.Secret,
		TTL:        config.Session.TTL,
		CookieName: config.Session.CookieName,
		Secure:     config.IsProduction(),
	})
	if err != nil {
		return nil, err
	}

	mailer := email.NewService(sender, config.MagicLink.TTL)

	return &Service{
		config:       config,
		storage:      store,
		sessions:     sessions,
		magic:        magiclink.NewService(store.Queries, mailer, config.FrontendURL, config.MagicLink.TTL),
		ipLimiter:    ratelimit.New(config.RateLimit.PerIP, time.Minute, config.RateLimit.PerIP, time.Hour),
		emailLimiter: ratelimit.New(config.RateLimit.PerEmail, time.Hour, config.RateLimit.PerEmail, 2*time.Hour),
	}, nil
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     s.config.CORS.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	e.Use(auth.SessionMiddleware(s.sessions, s.storage.Queries))

	e.GET("/health", s.handleHealth)

	magic := e.Group("/auth/magic", echomw.BodyLimit("64K"))
	magic.POST("/request", s.handleMagicRequest)
	magic.POST("/consume", s.handleMagicConsume)

	e.GET("/auth/me", s.handleMe, auth.RequireSession())
	e.POST("/auth/logout", s.handleLogout)

	if s.config.DevProjectAPI.Enabled {
		slog.Warn("serving in-memory project API", "public_url", s.config.DevProjectAPI.PublicURL)
		devapi.NewStore(s.config.DevProjectAPI.PublicURL, 0).RegisterRoutes(e)
	}
}

// Tasks returns the background jobs that run alongside the server
func (s *Service) Tasks() []server.Task {
	purger := jobs.NewTokenPurger(s.storage.Queries, jobs.TokenPurgeInterval,
		s.ipLimiter.Cleanup,
		s.emailLimiter.Cleanup,
	)
	return []server.Task{purger.Run}
}

func (s *Service) handleHealth(c echo.Context) error {
	if err := s.storage.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"ok": false})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
