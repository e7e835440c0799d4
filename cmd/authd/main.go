package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/zenbild/zenbild-web/authservice"
	"github.com/zenbild/zenbild-web/internal/email"
	"github.com/zenbild/zenbild-web/internal/middleware"
	"github.com/zenbild/zenbild-web/internal/server"
	"github.com/zenbild/zenbild-web/storage"
)

func main() {
	// slog is configured in slog.go via init()

	config, err := authservice.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize database
	store, err := storage.New(config.DBPath)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	sender := email.NewSender(email.Config{
		From:                config.Email.From,
		ResendAPIKey:        config.Email.ResendAPIKey,
		PostmarkServerToken: config.Email.PostmarkServerToken,
	})

	svc, err := authservice.New(config, store, sender)
	if err != nil {
		slog.Error("failed to initialize auth service", "error", err)
		store.Close()
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.SecurityHeaders())

	svc.RegisterRoutes(e)

	addr := fmt.Sprintf(":%s", config.Port)

	slog.Info("zenbild auth starting",
		"port", config.Port,
		"environment", config.Environment,
		"frontend", config.FrontendURL,
		"database", config.DBPath,
	)

	err = server.Run(context.Background(), e, addr, svc.Tasks()...)
	if closeErr := store.Close(); closeErr != nil {
		slog.Error("failed to close database", "error", closeErr)
	}
	if err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
