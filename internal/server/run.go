// Package server runs an echo instance until a signal or context cancellation.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// Task is background work that runs alongside the server and stops when ctx is done.
type Task func(ctx context.Context) error

// Run serves e on addr until SIGINT, SIGTERM, ctx cancellation, or a task
// failure, then shuts the server down gracefully.
func Run(ctx context.Context, e *echo.Echo, addr string, tasks ...Task) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	for _, task := range tasks {
		g.Go(func() error {
			return task(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
