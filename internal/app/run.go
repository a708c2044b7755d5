package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run runs the app by making the HTTP server listen and serve
func (a *App) Run() error {

	// Create a notification channel to receive a signal
	// from when a shutdown is complete
	done := make(chan struct{})

	// Listen for SIGINT SIGTERM in a separate goroutine
	// Gracefully shut down the server there if needed.
	go a.Shutdown(done)

	a.log.Info("server running", zap.String("addr", "http://"+a.server.Addr))
	if a.domain != "" {
		a.log.Info("website available", zap.String("domain", a.domain))
	}

	// If the HTTP server was shut down, meaning
	// server.Shutdown(ctx) method was called,
	// ListenAndServe will return ErrServerClosed.
	err := a.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done // Wait for the graceful shutdown to complete
	a.log.Info("graceful shutdown complete")

	return nil
}

// Shutdown listens for SIGINT and SIGTERM signals,
// shuts down the server, performs cleanup and informs the
// main goroutine
func (a *App) Shutdown(done chan<- struct{}) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Blocks until an interruption signal is received
	<-ctx.Done()

	a.log.Info("shutting down gracefully, press Ctrl+C again to force")

	// Stop watching for termination signals,
	// another Ctrl+C kills the process immediately.
	stop()

	// Give the server 5 seconds to finish the requests it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Warn("server forced to shutdown", zap.Error(err))
	}

	// Close the DB pool and Redis connections
	if a.cleanup != nil {
		a.log.Info("closing database and Redis connections")
		a.cleanup()
	}

	// Notify the main goroutine that the shutdown is complete
	close(done)
}
