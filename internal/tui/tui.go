package tui

import (
	"context"
	"strings"
	"time"

	"codeberg.org/secondbrain/client/internal/auth"
	"codeberg.org/secondbrain/client/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// creates the application model starting at route
func NewApp(ctx context.Context, deps Deps, route string) *Model {
	if route == "" {
		route = auth.RouteDashboard
	}

	return &Model{
		ctx:     ctx,
		deps:    deps,
		route:   route,
		width:   defaultWidth,
		height:  defaultHeight,
		profile: deps.Auth.Profile(ctx),
	}
}

// connects the model to a running program: logout navigates through it,
// and auth and profile changes are delivered to it as messages
func (m *Model) Attach(p *tea.Program) {
	send := func(msg tea.Msg) {
		// never block the publisher, which may be inside a request
		go p.Send(msg)
	}

	m.deps.Auth.SetNavigator(auth.NavigatorFunc(func(route string) {
		send(navigateMsg{route: route})
	}))

	m.guard = auth.NewGuard(m.ctx, m.deps.Auth, func(state auth.AuthState) {
		send(authChangedMsg{state: state})
	})

	m.offProfile = m.deps.Auth.WatchProfile(m.ctx, func(profile auth.Profile) {
		send(profileMsg{profile: profile})
	})
}

// removes subscriptions made by Attach
func (m *Model) Close() {
	if m.guard != nil {
		m.guard.Close()
	}

	if m.offProfile != nil {
		m.offProfile()
	}
}

func (m *Model) Init() tea.Cmd {
	return m.open(m.route)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case screenMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		return m.unwrap(msg.msg)

	case navigateMsg:
		// the guard may already have opened it
		if msg.route == m.route {
			return m, nil
		}
		return m, m.open(msg.route)

	case toastMsg:
		return m, m.addToast(msg.level, msg.text)

	case toastExpiredMsg:
		m.removeToast(msg.id)
		return m, nil

	case authChangedMsg:
		return m, m.onAuthChanged(msg.state)

	case profileMsg:
		m.profile = msg.profile
		return m, nil
	}

	return m.updateScreen(msg)
}

// handles a message addressed to the current screen
func (m *Model) unwrap(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case nil:
		return m, nil

	case tea.BatchMsg:
		cmds := make([]tea.Cmd, 0, len(msg))
		for _, cmd := range msg {
			cmds = append(cmds, m.tag(cmd))
		}
		return m, tea.Batch(cmds...)

	case navigateMsg, toastMsg:
		return m.Update(msg)
	}

	return m.updateScreen(msg)
}

func (m *Model) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.screen == nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)

	return m, m.tag(cmd)
}

// binds cmd's result to the current screen generation
func (m *Model) tag(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}

	generation := m.generation

	return func() tea.Msg {
		return screenMsg{generation: generation, msg: cmd()}
	}
}

// switches to route, applying the guard to protected routes
func (m *Model) open(route string) tea.Cmd {
	if auth.Protected(route) && !m.deps.Auth.IsValid(m.ctx) {
		logger.Debug("route needs sign in", "route", route)
		route = auth.RouteSignIn
	}

	m.generation++
	m.route = route
	m.screen = m.newScreen(route)

	sized, _ := m.screen.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.screen = sized

	return m.tag(m.screen.Init())
}

func (m *Model) onAuthChanged(state auth.AuthState) tea.Cmd {
	switch {
	case !state.IsAuthenticated && auth.Protected(m.route):
		return m.open(auth.RouteSignIn)

	case state.IsAuthenticated && m.route == auth.RouteSignIn:
		return m.open(auth.RouteDashboard)
	}

	return nil
}

func (m *Model) addToast(level toastLevel, text string) tea.Cmd {
	m.nextToastID++
	id := m.nextToastID

	m.toasts = append(m.toasts, toast{id: id, level: level, text: text})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}

	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) removeToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	if m.screen != nil {
		b.WriteString(m.screen.View())
	}

	if toasts := m.toastsView(); toasts != "" {
		b.WriteString("\n\n")
		b.WriteString(toasts)
	}

	return b.String()
}

func (m *Model) headerView() string {
	title := titleStyle.Render("second brain")

	user := ""
	if m.profile.Name != "" && auth.Protected(m.route) {
		user = infoStyle.Render("signed in as " + m.profile.Name)
	}

	gap := strings.Repeat(" ", max(1, m.width-lipgloss.Width(title)-lipgloss.Width(user)))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, gap, user)
}

func (m *Model) toastsView() string {
	lines := make([]string, 0, len(m.toasts))

	for _, t := range m.toasts {
		switch t.level {
		case toastError:
			lines = append(lines, errorStyle.Render("✗ "+t.text))
		case toastSuccess:
			lines = append(lines, successStyle.Render("✓ "+t.text))
		default:
			lines = append(lines, infoStyle.Render(t.text))
		}
	}

	return strings.Join(lines, "\n")
}
