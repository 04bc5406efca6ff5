package tui

import (
	"context"
	"strings"

	"codeberg.org/secondbrain/client/internal/auth"
	tea "github.com/charmbracelet/bubbletea"
)

type signUpResultMsg struct {
	result auth.SignUpResult
	err    error
}

type signUpScreen struct {
	ctx     context.Context
	deps    Deps
	form    form
	loading bool
}

func newSignUp(ctx context.Context, deps Deps) *signUpScreen {
	return &signUpScreen{
		ctx:  ctx,
		deps: deps,
		form: newForm(
			field{label: "name"},
			field{label: "username"},
			field{label: "password", password: true},
		),
	}
}

func (s *signUpScreen) Init() tea.Cmd {
	return nil
}

func (s *signUpScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signUpResultMsg:
		s.loading = false

		if msg.err != nil {
			return s, notifyErr(msg.err, "sign up failed")
		}

		if !msg.result.LoggedIn {
			return s, tea.Batch(notify(toastSuccess, "account created, please sign in"), navigate(auth.RouteSignIn))
		}

		return s, tea.Batch(notify(toastSuccess, "welcome!"), navigate(auth.RouteDashboard))

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}

		switch msg.String() {
		case "enter":
			return s, s.submit()
		case "esc":
			return s, navigate(auth.RouteSignIn)
		}
	}

	return s, s.form.Update(msg)
}

func (s *signUpScreen) submit() tea.Cmd {
	name, username, password := s.form.value(0), s.form.value(1), s.form.inputs[2].Value()
	if name == "" || username == "" || password == "" {
		return notify(toastError, "all fields are required")
	}

	s.loading = true
	return func() tea.Msg {
		result, err := s.deps.Auth.SignUp(s.ctx, name, username, password)
		return signUpResultMsg{result: result, err: err}
	}
}

func (s *signUpScreen) View() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("create an account"))
	b.WriteString("\n")
	b.WriteString(s.form.View())

	if s.loading {
		b.WriteString("\n" + infoStyle.Render("creating account..."))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: submit • tab: next field • esc: back to sign in"))

	return b.String()
}
