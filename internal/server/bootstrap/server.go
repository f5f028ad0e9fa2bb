package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taejunjeon/leadership/internal/async"
	"github.com/taejunjeon/leadership/internal/config"
	"github.com/taejunjeon/leadership/internal/logging"
)

const shutdownTimeout = 15 * time.Second

// RunServer builds the service from cfg and serves HTTP until SIGINT or
// SIGTERM.
func RunServer(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, cfg)
}

// Serve runs until ctx is cancelled or the listener fails.
func Serve(ctx context.Context, cfg config.Config) error {
	app, err := Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	logger := app.Logger

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := app.Start(runCtx); err != nil {
		_ = app.Shutdown(context.Background())
		return err
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	serveErr := serveUntilDone(ctx, server, logger)

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Shutdown incomplete: %v", err)
	}
	return serveErr
}

func serveUntilDone(ctx context.Context, server *http.Server, logger logging.Logger) error {
	logger = logging.OrNop(logger)

	errCh := make(chan error, 1)
	async.Go(logger, "server.listen", func() {
		logger.Info("Server listening on %s", server.Addr)
		errCh <- async.Run(logger, "server.listen", server.ListenAndServe)
	})

	select {
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr := server.Shutdown(shutdownCtx)

		serveErr := <-errCh
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}
		if shutdownErr != nil {
			return fmt.Errorf("shutdown: %w", shutdownErr)
		}
		if serveErr != nil {
			return fmt.Errorf("server error: %w", serveErr)
		}
		logger.Info("Server stopped")
		return nil
	}
}
