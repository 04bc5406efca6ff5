package share

import (
	"context"
	"fmt"
	"io"
	"os"

	"codeberg.org/secondbrain/client/internal/logger"
	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/x/term"
)

// Handoff gives a share link to the user, the way a native share sheet or
// the clipboard would
type Handoff interface {
	// reports whether this handoff can work in the current environment
	Available() bool
	Share(ctx context.Context, p Payload) error
}

// Chain uses the first available handoff. its error is returned as is:
// a handoff that is available but fails is not silently replaced.
type Chain []Handoff

func (c Chain) Available() bool {
	for _, h := range c {
		if h.Available() {
			return true
		}
	}

	return false
}

func (c Chain) Share(ctx context.Context, p Payload) error {
	for _, h := range c {
		if h.Available() {
			return h.Share(ctx, p)
		}
	}

	return ErrNoHandoff
}

// copies the URL to the system clipboard
type SystemClipboard struct{}

func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}

func (SystemClipboard) Share(_ context.Context, p Payload) error {
	if err := clipboard.WriteAll(p.URL); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	logger.Debug("share link copied to system clipboard")
	return nil
}

// copies the URL through the terminal with an OSC52 escape sequence, which
// also works over SSH where there is no system clipboard
type TerminalClipboard struct {
	Out io.Writer

	// wrap the sequence for tmux passthrough
	Tmux bool
}

// returns a terminal clipboard writing to stderr, detecting tmux from the
// environment
func NewTerminalClipboard() *TerminalClipboard {
	return &TerminalClipboard{
		Out:  os.Stderr,
		Tmux: os.Getenv("TMUX") != "",
	}
}

func (t *TerminalClipboard) Available() bool {
	f, ok := t.Out.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(f.Fd())
}

func (t *TerminalClipboard) Share(_ context.Context, p Payload) error {
	seq := osc52.New(p.URL)
	if t.Tmux {
		seq = seq.Tmux()
	}

	if _, err := seq.WriteTo(t.Out); err != nil {
		return fmt.Errorf("failed to write clipboard sequence: %w", err)
	}

	logger.Debug("share link sent to terminal clipboard")
	return nil
}

// the default order: system clipboard, then the terminal
func DefaultHandoff() Chain {
	return Chain{SystemClipboard{}, NewTerminalClipboard()}
}
