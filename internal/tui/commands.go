package tui

import (
	"strings"

	"codeberg.org/secondbrain/client/internal/auth"
	"codeberg.org/secondbrain/client/internal/errors"
	"codeberg.org/secondbrain/client/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
)

func navigate(route string) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{route: route}
	}
}

func notify(level toastLevel, text string) tea.Cmd {
	return func() tea.Msg {
		return toastMsg{level: level, text: text}
	}
}

// logs err once and shows it as a toast
func notifyErr(err error, fallback string) tea.Cmd {
	info := errors.Classify(err, fallback)
	logger.ErrorErr(err, fallback, "category", info.Category)

	return notify(toastError, info.Message)
}

func contentViewRoute(id string) string {
	return auth.RouteContentView + id
}

// builds the screen for route
func (m *Model) newScreen(route string) Screen {
	switch {
	case route == auth.RouteSignIn:
		return newSignIn(m.ctx, m.deps)

	case route == auth.RouteSignUp:
		return newSignUp(m.ctx, m.deps)

	case route == auth.RouteDashboard:
		return newDashboard(m.ctx, m.deps)

	case route == auth.RouteSettings:
		return newSettings(m.ctx, m.deps)

	case strings.HasPrefix(route, auth.RouteContentView):
		return newContentView(m.ctx, m.deps, strings.TrimPrefix(route, auth.RouteContentView))

	case strings.HasPrefix(route, auth.RouteSharedBrain):
		return newSharedBrain(m.ctx, m.deps, strings.TrimPrefix(route, auth.RouteSharedBrain))

	case strings.HasPrefix(route, auth.RouteSharedItem):
		return newSharedContent(m.ctx, m.deps, strings.TrimPrefix(route, auth.RouteSharedItem))

	default:
		return &notFoundScreen{route: route}
	}
}

type notFoundScreen struct {
	route string
}

func (s *notFoundScreen) Init() tea.Cmd { return nil }

func (s *notFoundScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		return s, navigate(auth.RouteDashboard)
	}

	return s, nil
}

func (s *notFoundScreen) View() string {
	return errorStyle.Render("nothing at "+s.route) + "\n" + helpStyle.Render("enter: dashboard • ctrl+c: quit")
}
