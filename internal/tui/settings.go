package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/secondbrain/client/internal/api"
	"codeberg.org/secondbrain/client/internal/auth"
	"codeberg.org/secondbrain/client/internal/content"
	tea "github.com/charmbracelet/bubbletea"
)

type profileLoadedMsg struct {
	user *content.User
	err  error
}

type profileSavedMsg struct {
	user *content.User
	err  error
}

const (
	settingsName = iota
	settingsEmail
	settingsBio
	settingsPicture
)

// profile editing
type settingsScreen struct {
	ctx     context.Context
	deps    Deps
	form    form
	user    *content.User
	loading bool
	saving  bool
}

func newSettings(ctx context.Context, deps Deps) *settingsScreen {
	return &settingsScreen{
		ctx:  ctx,
		deps: deps,
		form: newForm(
			field{label: "name"},
			field{label: "email"},
			field{label: "bio"},
			field{label: "profile picture (path to an image file, optional)"},
		),
	}
}

func (s *settingsScreen) Init() tea.Cmd {
	s.loading = true

	return func() tea.Msg {
		user, err := s.deps.Auth.RefreshProfile(s.ctx)
		return profileLoadedMsg{user: user, err: err}
	}
}

func (s *settingsScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		s.loading = false
		if msg.err != nil {
			// keep showing what the session store knows
			s.form.set(settingsName, s.deps.Auth.Profile(s.ctx).Name)
			return s, notifyErr(msg.err, "failed to load your profile")
		}
		s.fill(msg.user)
		return s, nil

	case profileSavedMsg:
		s.saving = false
		if msg.err != nil {
			return s, notifyErr(msg.err, "failed to save your profile")
		}
		s.fill(msg.user)
		return s, notify(toastSuccess, "profile updated")

	case tea.KeyMsg:
		if s.saving {
			return s, nil
		}

		switch msg.String() {
		case "esc":
			return s, navigate(auth.RouteDashboard)
		case "enter":
			return s, s.save()
		}
	}

	return s, s.form.Update(msg)
}

func (s *settingsScreen) fill(user *content.User) {
	s.user = user
	s.form.set(settingsName, user.Name)
	s.form.set(settingsEmail, user.Email)
	s.form.set(settingsBio, user.Bio)
	s.form.set(settingsPicture, "")
}

func (s *settingsScreen) save() tea.Cmd {
	update := api.ProfileUpdate{
		Name:  s.form.value(settingsName),
		Email: s.form.value(settingsEmail),
		Bio:   s.form.value(settingsBio),
	}

	if update.Name == "" {
		return notify(toastError, "name is required")
	}

	picture := s.form.value(settingsPicture)

	s.saving = true
	return func() tea.Msg {
		if picture != "" {
			f, err := os.Open(picture) //nolint:gosec // G304: path typed by the user
			if err != nil {
				return profileSavedMsg{err: fmt.Errorf("open profile picture: %w", err)}
			}
			defer f.Close() //nolint:errcheck

			update.Picture = f
			update.PictureName = filepath.Base(picture)
		}

		user, err := s.deps.Auth.UpdateProfile(s.ctx, update)
		return profileSavedMsg{user: user, err: err}
	}
}

func (s *settingsScreen) View() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("settings"))
	b.WriteString("\n")

	if s.loading {
		b.WriteString(infoStyle.Render("loading profile..."))
		b.WriteString("\n")
	}

	if s.user != nil && s.user.Username != "" {
		b.WriteString(infoStyle.Render("@" + s.user.Username))
		b.WriteString("\n")
	}

	if avatar := s.deps.Auth.Profile(s.ctx).AvatarURL; avatar != nil {
		b.WriteString(infoStyle.Render("avatar: " + *avatar))
		b.WriteString("\n")
	}

	b.WriteString(s.form.View())

	if s.saving {
		b.WriteString(infoStyle.Render("saving..."))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: save • tab: next field • esc: back"))

	return b.String()
}
