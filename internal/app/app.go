package app

import (
	"context"
	"errors"
	"net/http"

	"member-gateway/internal/config"
	"member-gateway/internal/discord"
	"member-gateway/internal/logger"
	"member-gateway/internal/ratelimit"
	"member-gateway/internal/session"
)

type App struct {
	httpServer *http.Server
	store      *session.Store
	janitor    *janitor
}

// New composes the gateway and starts the periodic cleanup task. All
// session and rate-limit state is process-local and starts empty.
func New(cfg config.Config) *App {
	store := session.NewStore(cfg.MaxConcurrentUsers, cfg.SessionTimeout)
	limiter := ratelimit.New(cfg.RateLimitWindow, cfg.RateLimitMaxRequests)

	router := setupHTTP(cfg, store, limiter, discord.ClientFactory{})

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	j := newJanitor(store, limiter, cfg.CleanupInterval)
	j.Start()

	return &App{
		httpServer: server,
		store:      store,
		janitor:    j,
	}
}

func (a *App) Run() error {
	err := a.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains the HTTP server, stops the cleanup task
// (cancel-then-join, so no tick races the drain), then closes every
// still-open session's gateway. Safe with zero open sessions.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	a.janitor.Stop()

	for _, s := range a.store.Drain() {
		release := s.Acquire()
		if err := s.Gateway.Close(); err != nil {
			logger.Warn("gateway close failed", map[string]any{
				"session_id": s.ID,
				"error":      err.Error(),
			})
		}
		release()

		logger.Info("session closed on shutdown", map[string]any{
			"session_id": s.ID,
		})
	}

	return nil
}
