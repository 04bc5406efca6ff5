package tui

import (
	"context"
	"time"

	"codeberg.org/secondbrain/client/internal/auth"
	"codeberg.org/secondbrain/client/internal/share"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	toastTTL      = 4 * time.Second
	maxToasts     = 3
	chatHeight    = 12
	defaultWidth  = 80
	defaultHeight = 24
)

// Deps are the services the screens talk to
type Deps struct {
	Auth  *auth.Manager
	Share *share.Service
}

// Screen is one route's UI
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
}

// main TUI application model
type Model struct {
	ctx  context.Context
	deps Deps

	route      string
	screen     Screen
	generation int

	guard       *auth.Guard
	offProfile  func()
	profile     auth.Profile
	width       int
	height      int
	toasts      []toast
	nextToastID int
	quitting    bool
}

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastError
)

type toast struct {
	id    int
	level toastLevel
	text  string
}

// wraps a screen's message with the generation that issued it. results
// addressed to a screen that is no longer shown are dropped.
type screenMsg struct {
	generation int
	msg        tea.Msg
}

// asks the router to open a route
type navigateMsg struct {
	route string
}

// shows a toast
type toastMsg struct {
	level toastLevel
	text  string
}

type toastExpiredMsg struct {
	id int
}

// sent by the guard when the user signs in or out, here or elsewhere
type authChangedMsg struct {
	state auth.AuthState
}

// sent when the stored profile changes
type profileMsg struct {
	profile auth.Profile
}
