package tui

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/secondbrain/client/internal/api"
	"codeberg.org/secondbrain/client/internal/auth"
	"codeberg.org/secondbrain/client/internal/content"
	tea "github.com/charmbracelet/bubbletea"
)

type sharedBrainMsg struct {
	brain *api.SharedBrain
	err   error
}

type sharedContentMsg struct {
	item *content.Content
	err  error
}

// someone else's shared brain, read only
type sharedBrainScreen struct {
	ctx     context.Context
	deps    Deps
	hash    string
	brain   *api.SharedBrain
	filter  string
	cursor  int
	loading bool
	failed  bool
}

func newSharedBrain(ctx context.Context, deps Deps, hash string) *sharedBrainScreen {
	return &sharedBrainScreen{ctx: ctx, deps: deps, hash: hash, filter: content.FilterAll}
}

func (s *sharedBrainScreen) Init() tea.Cmd {
	s.loading = true
	hash := s.hash

	return func() tea.Msg {
		brain, err := s.deps.Share.OpenBrain(s.ctx, hash)
		return sharedBrainMsg{brain: brain, err: err}
	}
}

func (s *sharedBrainScreen) visible() []content.Content {
	if s.brain == nil {
		return nil
	}

	return content.Filter(s.brain.Contents, s.filter)
}

func (s *sharedBrainScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sharedBrainMsg:
		s.loading = false
		if msg.err != nil {
			s.failed = true
			return s, notifyErr(msg.err, "this brain is not shared anymore")
		}
		s.brain = msg.brain
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.cursor = max(0, s.cursor-1)
		case "down", "j":
			s.cursor = max(0, min(len(s.visible())-1, s.cursor+1))
		case "f":
			if s.brain != nil {
				options := content.FilterOptions(s.brain.Contents)
				for i, option := range options {
					if option == s.filter {
						s.filter = options[(i+1)%len(options)]
						break
					}
				}
				s.cursor = 0
			}
		case "esc":
			return s, navigate(auth.RouteDashboard)
		}
	}

	return s, nil
}

func (s *sharedBrainScreen) View() string {
	var b strings.Builder

	switch {
	case s.loading:
		b.WriteString(infoStyle.Render("opening shared brain..."))
	case s.failed || s.brain == nil:
		b.WriteString(errorStyle.Render("this link is invalid or sharing was turned off"))
	default:
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s's brain", s.brain.Name)))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("filter: " + s.filter))
		b.WriteString("\n\n")

		for i, item := range s.visible() {
			style := menuItemStyle
			if i == s.cursor {
				style = menuItemSelectedStyle
			}
			b.WriteString(style.Render(fmt.Sprintf("%-12s %s", item.Type.Label(), item.Title)))
			b.WriteString("\n")
			if i == s.cursor {
				b.WriteString(commandDescStyle.Render("    " + item.Link))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: move • f: filter • esc: dashboard • ctrl+c: quit"))

	return b.String()
}

// a single shared item, read only
type sharedContentScreen struct {
	ctx     context.Context
	deps    Deps
	hash    string
	item    *content.Content
	loading bool
	failed  bool
}

func newSharedContent(ctx context.Context, deps Deps, hash string) *sharedContentScreen {
	return &sharedContentScreen{ctx: ctx, deps: deps, hash: hash}
}

func (s *sharedContentScreen) Init() tea.Cmd {
	s.loading = true
	hash := s.hash

	return func() tea.Msg {
		item, err := s.deps.Share.OpenContent(s.ctx, hash)
		return sharedContentMsg{item: item, err: err}
	}
}

func (s *sharedContentScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sharedContentMsg:
		s.loading = false
		if msg.err != nil {
			s.failed = true
			return s, notifyErr(msg.err, "this content is not shared anymore")
		}
		s.item = msg.item
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, navigate(auth.RouteDashboard)
		}
	}

	return s, nil
}

func (s *sharedContentScreen) View() string {
	var b strings.Builder

	switch {
	case s.loading:
		b.WriteString(infoStyle.Render("opening shared content..."))
	case s.failed || s.item == nil:
		b.WriteString(errorStyle.Render("this link is invalid or no longer shared"))
	default:
		b.WriteString(itemHeader(s.item))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("esc: dashboard • ctrl+c: quit"))

	return b.String()
}
