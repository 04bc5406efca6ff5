package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/secondbrain/client/internal/auth"
	"codeberg.org/secondbrain/client/internal/config"
	"codeberg.org/secondbrain/client/internal/events"
	"codeberg.org/secondbrain/client/internal/logger"
	"codeberg.org/secondbrain/client/internal/session"
	"codeberg.org/secondbrain/client/internal/share"
	"codeberg.org/secondbrain/client/internal/token"
	"golang.org/x/time/rate"
)

const logoutTimeout = 5 * time.Second

// wires the session backend, auth manager and share service
func NewApp(cfg *config.Config) (*App, error) {
	backend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("session backend opened", "backend", cfg.SessionBackend, "profile", cfg.SessionProfile)

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	bus := events.NewBus()
	manager := auth.NewManager(session.NewStore(backend), token.NewValidator(), bus, auth.Options{
		Endpoint:      cfg.APIEndpoint,
		AuthScheme:    cfg.AuthScheme,
		Timeout:       cfg.RequestTimeout,
		Limiter:       limiter,
		LogoutTimeout: logoutTimeout,
	})

	return &App{
		cfg:     cfg,
		backend: backend,
		bus:     bus,
		auth:    manager,
		share:   share.NewService(manager.Client(), cfg.FrontendOrigin, share.DefaultHandoff()),
	}, nil
}

func openBackend(cfg *config.Config) (session.Backend, error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		backend, err := session.NewRedisBackendFromURL(cfg.RedisURL, cfg.SessionProfile)
		if err != nil {
			return nil, fmt.Errorf("failed to connect session store: %w", err)
		}
		return backend, nil

	case config.BackendMemory:
		return session.NewMemoryBackend(), nil

	default:
		backend, err := session.NewFileBackend(cfg.SessionPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open session file: %w", err)
		}
		return backend, nil
	}
}

// waits for background logout notifications, then releases the backend
func (a *App) Close() {
	a.auth.Wait()

	if err := a.backend.Close(); err != nil {
		logger.Warn("failed to close session backend", "error", err)
	}
}

// forwards changes from other processes onto the bus until ctx is done
func (a *App) watchStorage(ctx context.Context) {
	events.BridgeStorage(ctx, a.backend, a.bus)
}
