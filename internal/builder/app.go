package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// App represents the application with all its components
type App struct {
	server          *http.Server
	storage         *storage
	sessionTTL      time.Duration
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// Run starts the application and all its daemons
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.sweepSessions(ctx)

	// Start HTTP server in goroutine
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		a.storage.Close()
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	cancel()
	return a.shutdown()
}

// sweepSessions removes wizard sessions nobody touched within the session TTL
func (a *App) sweepSessions(ctx context.Context) {
	interval := a.sessionTTL / 4
	if interval > time.Hour {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.storage.sessions.DeleteExpired(ctx, time.Now().Add(-a.sessionTTL))
			if err != nil {
				a.logger.Warn("Failed to delete expired wizard sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				a.logger.Info("Deleted expired wizard sessions", zap.Int64("count", n))
			}
		}
	}
}

// shutdown gracefully shuts down the application
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	a.logger.Info("Closing storage")
	a.storage.Close()

	a.logger.Info("Application stopped gracefully")
	_ = a.logger.Sync()
	return nil
}
