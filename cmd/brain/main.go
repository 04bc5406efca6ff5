package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/secondbrain/client/internal/config"
	"codeberg.org/secondbrain/client/internal/errors"
	"codeberg.org/secondbrain/client/internal/logger"
	"github.com/charmbracelet/x/term"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		fmt.Fprintln(os.Stderr, "brain:", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "brain:", err)
		return 1
	}
	defer app.Close()

	if len(args) == 0 {
		if !term.IsTerminal(os.Stdout.Fd()) {
			usage()
			return 2
		}
		args = []string{"tui"}
	}

	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "brain: unknown command %q\n\n", args[0])
		usage()
		return 2
	}

	if cmd.protected && !app.auth.IsValid(ctx) {
		fmt.Fprintln(os.Stderr, "brain: not signed in, run `brain signin` first")
		return 1
	}

	if err := cmd.run(ctx, app, args[1:]); err != nil {
		logger.ErrorErr(err, "command failed", "command", cmd.name)
		fmt.Fprintln(os.Stderr, "brain:", describe(err))
		return 1
	}

	return 0
}

// user facing text for err
func describe(err error) string {
	return errors.Classify(err, err.Error()).Message
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: brain <command> [flags]")
	fmt.Fprintln(os.Stderr)
	for _, cmd := range commands {
		fmt.Fprintf(os.Stderr, "  %-16s %s\n", cmd.name, cmd.usage)
	}
}
