package main

import (
	"context"

	"codeberg.org/secondbrain/client/internal/auth"
	"codeberg.org/secondbrain/client/internal/config"
	"codeberg.org/secondbrain/client/internal/events"
	"codeberg.org/secondbrain/client/internal/session"
	"codeberg.org/secondbrain/client/internal/share"
)

// App holds everything a subcommand or the TUI needs
type App struct {
	cfg     *config.Config
	backend session.Backend
	bus     *events.Bus
	auth    *auth.Manager
	share   *share.Service
}

// a subcommand handler; args exclude the subcommand name
type command struct {
	name      string
	usage     string
	protected bool
	run       func(ctx context.Context, app *App, args []string) error
}
