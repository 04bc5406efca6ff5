package tui

import (
	"context"
	"strings"

	"codeberg.org/secondbrain/client/internal/auth"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type signInResultMsg struct {
	err error
}

type resetResultMsg struct {
	err error
}

// sign in screen; ctrl+r switches to resetting a password
type signInScreen struct {
	ctx  context.Context
	deps Deps

	signIn    form
	reset     form
	resetting bool
	loading   bool
	spinner   spinner.Model
}

func newSignIn(ctx context.Context, deps Deps) *signInScreen {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &signInScreen{
		ctx:     ctx,
		deps:    deps,
		signIn:  newForm(field{label: "username"}, field{label: "password", password: true}),
		reset:   newForm(field{label: "username"}, field{label: "new password", password: true}),
		spinner: s,
	}
}

func (s *signInScreen) Init() tea.Cmd {
	return nil
}

func (s *signInScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signInResultMsg:
		s.loading = false
		if msg.err != nil {
			s.signIn.set(1, "")
			return s, notifyErr(msg.err, "sign in failed")
		}
		return s, tea.Batch(notify(toastSuccess, "signed in"), navigate(auth.RouteDashboard))

	case resetResultMsg:
		s.loading = false
		if msg.err != nil {
			return s, notifyErr(msg.err, "password reset failed")
		}
		username := s.reset.value(0)
		s.resetting = false
		s.reset.reset()
		s.signIn.set(0, username)
		s.signIn.setFocus(1)
		return s, notify(toastSuccess, "password updated, sign in with the new one")

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}

		switch msg.String() {
		case "enter":
			return s, s.submit()
		case "ctrl+r":
			s.resetting = !s.resetting
			return s, nil
		case "ctrl+n":
			return s, navigate(auth.RouteSignUp)
		}
	}

	if s.resetting {
		return s, s.reset.Update(msg)
	}

	return s, s.signIn.Update(msg)
}

func (s *signInScreen) submit() tea.Cmd {
	if s.resetting {
		username, password := s.reset.value(0), s.reset.value(1)
		if username == "" || password == "" {
			return notify(toastError, "username and new password are required")
		}

		s.loading = true
		return tea.Batch(s.spinner.Tick, func() tea.Msg {
			return resetResultMsg{err: s.deps.Auth.ResetPassword(s.ctx, username, password)}
		})
	}

	username, password := s.signIn.value(0), s.signIn.inputs[1].Value()
	if username == "" || password == "" {
		return notify(toastError, "username and password are required")
	}

	s.loading = true
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		return signInResultMsg{err: s.deps.Auth.SignIn(s.ctx, username, password)}
	})
}

func (s *signInScreen) View() string {
	var b strings.Builder

	if s.resetting {
		b.WriteString(subtitleStyle.Render("reset password"))
		b.WriteString("\n")
		b.WriteString(s.reset.View())
	} else {
		b.WriteString(subtitleStyle.Render("sign in"))
		b.WriteString("\n")
		b.WriteString(s.signIn.View())
	}

	if s.loading {
		b.WriteString("\n" + s.spinner.View() + infoStyle.Render(" working..."))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: submit • tab: next field • ctrl+r: toggle password reset • ctrl+n: sign up • ctrl+c: quit"))

	return b.String()
}
