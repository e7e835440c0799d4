package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/zenbild/zenbild-web/internal/middleware"
	"github.com/zenbild/zenbild-web/internal/server"
	"github.com/zenbild/zenbild-web/service"
)

func main() {
	// slog is configured in slog.go via init()

	// Load configuration
	config, err := service.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.SecurityHeaders())

	// Initialize service and register routes
	svc := service.New(config)
	svc.RegisterRoutes(e)

	// Start server
	addr := fmt.Sprintf(":%s", config.Port)

	slog.Info("zenbild web starting",
		"url", fmt.Sprintf("http://localhost:%s", config.Port),
		"port", config.Port,
		"environment", config.Environment,
		"backend", config.Backend.BaseURL,
	)

	if err := server.Run(context.Background(), e, addr); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
