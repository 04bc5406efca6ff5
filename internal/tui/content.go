package tui

import (
	"context"
	"slices"
	"strings"

	"codeberg.org/secondbrain/client/internal/auth"
	"codeberg.org/secondbrain/client/internal/content"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type contentLoadedMsg struct {
	item *content.Content
	err  error
}

type chatAnswerMsg struct {
	answer string
	err    error
}

// one item with its AI chat
type contentViewScreen struct {
	ctx  context.Context
	deps Deps
	id   string

	item     *content.Content
	history  []content.ChatMessage
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	width    int
	loading  bool
	asking   bool
	sharing  bool
}

func newContentView(ctx context.Context, deps Deps, id string) *contentViewScreen {
	ti := textinput.New()
	ti.Placeholder = "ask something about this content..."
	ti.CharLimit = 0
	ti.Width = defaultWidth - 10
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	screen := &contentViewScreen{
		ctx:      ctx,
		deps:     deps,
		id:       id,
		input:    ti,
		viewport: viewport.New(defaultWidth-4, chatHeight),
		spinner:  s,
		width:    defaultWidth,
	}
	screen.renderer = newRenderer(screen.width)

	return screen
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(20, width-8)),
	)
	if err != nil {
		return nil
	}

	return r
}

// renders markdown, falling back to the raw text
func renderMarkdown(r *glamour.TermRenderer, text string) string {
	if r == nil {
		return text
	}

	out, err := r.Render(text)
	if err != nil {
		return text
	}

	return strings.TrimSpace(out)
}

func (s *contentViewScreen) Init() tea.Cmd {
	s.loading = true

	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		item, err := s.deps.Auth.Client().GetContent(s.ctx, s.id)
		return contentLoadedMsg{item: item, err: err}
	})
}

func (s *contentViewScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.input.Width = msg.Width - 10
		s.viewport.Width = msg.Width - 4
		s.viewport.Height = max(5, min(chatHeight, msg.Height-12))
		s.renderer = newRenderer(msg.Width)
		s.refreshChat()
		return s, nil

	case contentLoadedMsg:
		s.loading = false
		if msg.err != nil {
			return s, notifyErr(msg.err, "failed to load content")
		}
		s.item = msg.item
		s.history = slices.Clone(msg.item.AIChat)
		s.refreshChat()
		return s, nil

	case chatAnswerMsg:
		s.asking = false
		if msg.err != nil {
			// drop the unanswered question so it can be asked again
			if n := len(s.history); n > 0 && s.history[n-1].Role == content.RoleUser {
				s.input.SetValue(s.history[n-1].Content)
				s.history = s.history[:n-1]
			}
			s.refreshChat()
			return s, notifyErr(msg.err, "the assistant could not answer")
		}
		s.history = append(s.history, content.ChatMessage{Role: content.RoleModel, Content: msg.answer})
		s.refreshChat()
		return s, nil

	case contentSharedMsg:
		s.sharing = false
		return s, shareOutcome(msg.url, msg.err)

	case spinner.TickMsg:
		if !s.loading && !s.asking {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, navigate(auth.RouteDashboard)

		case "enter":
			return s, s.ask()

		case "ctrl+s":
			if s.sharing || s.item == nil {
				return s, nil
			}
			s.sharing = true
			id := s.id
			return s, func() tea.Msg {
				url, err := s.deps.Share.MintContent(s.ctx, id)
				return contentSharedMsg{url: url, err: err}
			}

		case "pgup", "pgdown":
			var cmd tea.Cmd
			s.viewport, cmd = s.viewport.Update(msg)
			return s, cmd
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	return s, cmd
}

func (s *contentViewScreen) ask() tea.Cmd {
	question := strings.TrimSpace(s.input.Value())
	if question == "" || s.asking || s.item == nil {
		return nil
	}

	s.asking = true
	s.input.SetValue("")
	s.history = append(s.history, content.ChatMessage{Role: content.RoleUser, Content: question})
	s.refreshChat()

	id := s.id
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		answer, err := s.deps.Auth.Client().Chat(s.ctx, id, question)
		return chatAnswerMsg{answer: answer, err: err}
	})
}

func (s *contentViewScreen) refreshChat() {
	var b strings.Builder

	for _, message := range s.history {
		if message.Role == content.RoleUser {
			b.WriteString(commandStyle.Render("you: "))
			b.WriteString(message.Content)
		} else {
			b.WriteString(renderMarkdown(s.renderer, message.Content))
		}
		b.WriteString("\n\n")
	}

	if len(s.history) == 0 {
		b.WriteString(infoStyle.Render("no questions yet. ask the assistant about this item below."))
	}

	s.viewport.SetContent(b.String())
	s.viewport.GotoBottom()
}

func (s *contentViewScreen) View() string {
	var b strings.Builder

	switch {
	case s.item == nil && s.loading:
		b.WriteString(s.spinner.View() + infoStyle.Render(" loading..."))
		return b.String()

	case s.item == nil:
		b.WriteString(errorStyle.Render("this content could not be loaded"))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc: back"))
		return b.String()
	}

	b.WriteString(itemHeader(s.item))
	b.WriteString("\n\n")

	b.WriteString(borderStyle.Width(s.width - 2).Render(s.viewport.View()))
	b.WriteString("\n")
	b.WriteString(borderStyle.Width(s.width - 2).Render(s.input.View()))
	b.WriteString("\n")

	if s.asking {
		b.WriteString(s.spinner.View() + infoStyle.Render(" thinking..."))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: ask • pgup/pgdown: scroll • ctrl+s: share • esc: back"))

	return b.String()
}

// title, type and link of an item
func itemHeader(item *content.Content) string {
	var b strings.Builder

	b.WriteString(commandStyle.Render(item.Title))
	b.WriteString("\n")
	b.WriteString(commandDescStyle.Render(item.Type.Label() + " • " + item.Link))

	if !item.CreatedAt.IsZero() {
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("saved " + item.CreatedAt.Format("2 Jan 2006")))
	}

	return b.String()
}
