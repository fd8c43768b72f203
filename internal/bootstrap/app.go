package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/crop-advisor/internal/domain/session"
	"github.com/yanqian/crop-advisor/internal/infra/config"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *http.Server
	sessions *session.Registry
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, sessions *session.Registry) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, sessions: sessions}
}

// Run starts the HTTP server and blocks until shutdown. Open form sessions are
// closed once the server stops so in-flight predictions are discarded.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	defer a.sessions.CloseAll()

	go func() {
		a.logger.Info("http server starting", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutdown signal received", "open_sessions", a.sessions.Len())
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
