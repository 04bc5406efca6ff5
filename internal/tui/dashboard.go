package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"codeberg.org/secondbrain/client/internal/api"
	"codeberg.org/secondbrain/client/internal/auth"
	"codeberg.org/secondbrain/client/internal/content"
	"codeberg.org/secondbrain/client/internal/errors"
	"codeberg.org/secondbrain/client/internal/logger"
	"codeberg.org/secondbrain/client/internal/share"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
)

type dashboardMode int

const (
	modeBrowse dashboardMode = iota
	modeSearch
	modeAdd
)

type dashboardLoadedMsg struct {
	list   *api.ContentList
	status share.Status
	err    error
}

type contentDeletedMsg struct {
	id  string
	err error
}

type contentAddedMsg struct {
	err error
}

type contentSharedMsg struct {
	url string
	err error
}

type brainShareMsg struct {
	status share.Status
	err    error
}

// lists the user's content
type dashboardScreen struct {
	ctx  context.Context
	deps Deps

	mode     dashboardMode
	items    []content.Content
	tags     []content.Tag
	filter   string
	search   textinput.Model
	add      form
	cursor   int
	status   share.Status
	loading  bool
	adding   bool
	sharing  bool
	deleting map[string]bool
	width    int
}

func newDashboard(ctx context.Context, deps Deps) *dashboardScreen {
	search := textinput.New()
	search.Placeholder = "search titles and links"
	search.Prompt = "/ "
	search.PromptStyle = promptStyle
	search.TextStyle = inputStyle

	return &dashboardScreen{
		ctx:    ctx,
		deps:   deps,
		filter: content.FilterAll,
		search: search,
		add: newForm(
			field{label: "title"},
			field{label: "link"},
			field{label: "type (" + typeList() + ")"},
			field{label: "tags (comma separated)"},
		),
		deleting: map[string]bool{},
		width:    defaultWidth,
	}
}

func typeList() string {
	types := content.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	return strings.Join(names, ", ")
}

func (s *dashboardScreen) Init() tea.Cmd {
	return s.load()
}

// fetches the content list and the brain share state in parallel
func (s *dashboardScreen) load() tea.Cmd {
	s.loading = true

	return func() tea.Msg {
		var (
			list   *api.ContentList
			status share.Status
		)

		g, ctx := errgroup.WithContext(s.ctx)

		g.Go(func() error {
			var err error
			list, err = s.deps.Auth.Client().ListContent(ctx)
			return err
		})

		// the share state is secondary; the list still shows without it
		g.Go(func() error {
			var err error
			if status, err = s.deps.Share.BrainStatus(ctx); err != nil {
				logger.Warn("failed to load brain share status", "error", err)
			}
			return nil
		})

		err := g.Wait()
		return dashboardLoadedMsg{list: list, status: status, err: err}
	}
}

// the items currently shown, after filter and search
func (s *dashboardScreen) visible() []content.Content {
	return content.Search(content.Filter(s.items, s.filter), s.search.Value())
}

func (s *dashboardScreen) selected() (content.Content, bool) {
	items := s.visible()
	if s.cursor < 0 || s.cursor >= len(items) {
		return content.Content{}, false
	}

	return items[s.cursor], true
}

func (s *dashboardScreen) clampCursor() {
	s.cursor = min(s.cursor, len(s.visible())-1)
	s.cursor = max(s.cursor, 0)
}

func (s *dashboardScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		return s, nil

	case dashboardLoadedMsg:
		s.loading = false
		if msg.err != nil {
			return s, notifyErr(msg.err, "failed to load your content")
		}
		s.items = msg.list.Contents
		s.tags = msg.list.Tags
		s.status = msg.status
		s.clampCursor()
		return s, nil

	case contentDeletedMsg:
		// deletions complete in any order; each is applied on its own
		delete(s.deleting, msg.id)
		if msg.err != nil {
			return s, notifyErr(msg.err, "failed to delete")
		}
		s.items = slices.DeleteFunc(s.items, func(c content.Content) bool { return c.ID == msg.id })
		s.clampCursor()
		return s, notify(toastSuccess, "deleted")

	case contentAddedMsg:
		s.adding = false
		if msg.err != nil {
			return s, notifyErr(msg.err, "failed to add content")
		}
		s.mode = modeBrowse
		s.add.reset()
		return s, tea.Batch(notify(toastSuccess, "content added"), s.load())

	case contentSharedMsg:
		s.sharing = false
		return s, shareOutcome(msg.url, msg.err)

	case brainShareMsg:
		s.sharing = false
		if msg.err != nil {
			return s, notifyErr(msg.err, "failed to change brain sharing")
		}
		s.status = msg.status
		if msg.status.IsShared {
			return s, notify(toastSuccess, "brain shared at "+msg.status.URL)
		}
		return s, notify(toastInfo, "brain is private again")

	case tea.KeyMsg:
		switch s.mode {
		case modeSearch:
			return s, s.updateSearch(msg)
		case modeAdd:
			return s, s.updateAdd(msg)
		default:
			return s, s.updateBrowse(msg)
		}
	}

	return s, nil
}

func (s *dashboardScreen) updateBrowse(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "up", "k":
		s.cursor = max(0, s.cursor-1)

	case "down", "j":
		s.cursor = min(len(s.visible())-1, s.cursor+1)
		s.cursor = max(0, s.cursor)

	case "f":
		options := content.FilterOptions(s.items)
		i := slices.Index(options, s.filter)
		s.filter = options[(i+1)%len(options)]
		s.clampCursor()

	case "/":
		s.mode = modeSearch
		return s.search.Focus()

	case "a":
		s.mode = modeAdd
		s.add.setFocus(0)

	case "r":
		if !s.loading {
			return s.load()
		}

	case "enter":
		if item, ok := s.selected(); ok {
			return navigate(contentViewRoute(item.ID))
		}

	case "d":
		item, ok := s.selected()
		if !ok || s.deleting[item.ID] {
			return nil
		}
		s.deleting[item.ID] = true
		return func() tea.Msg {
			return contentDeletedMsg{id: item.ID, err: s.deps.Auth.Client().DeleteContent(s.ctx, item.ID)}
		}

	case "s":
		item, ok := s.selected()
		if !ok || s.sharing {
			return nil
		}
		s.sharing = true
		return func() tea.Msg {
			url, err := s.deps.Share.MintContent(s.ctx, item.ID)
			return contentSharedMsg{url: url, err: err}
		}

	case "b":
		if s.sharing {
			return nil
		}
		s.sharing = true
		return s.toggleBrainShare()

	case ",":
		return navigate(auth.RouteSettings)

	case "L":
		return func() tea.Msg {
			s.deps.Auth.Logout(s.ctx)
			return nil
		}
	}

	return nil
}

func (s *dashboardScreen) toggleBrainShare() tea.Cmd {
	if s.status.IsShared {
		return func() tea.Msg {
			if err := s.deps.Share.RevokeBrain(s.ctx); err != nil {
				return brainShareMsg{err: err}
			}
			return brainShareMsg{status: share.Status{}}
		}
	}

	return func() tea.Msg {
		url, err := s.deps.Share.MintBrain(s.ctx)
		if err != nil {
			return brainShareMsg{err: err}
		}
		return brainShareMsg{status: share.Status{IsShared: true, URL: url}}
	}
}

// turns a content share result into a toast. a link that was minted but
// could not be handed off is still shown so it can be copied by hand.
func shareOutcome(url string, err error) tea.Cmd {
	switch {
	case err == nil:
		return notify(toastSuccess, "link copied: "+url)
	case errors.Is(err, share.ErrNoShareLink):
		return notify(toastError, "failed to share")
	case url != "":
		return notify(toastError, "could not copy the link, share it by hand: "+url)
	default:
		return notifyErr(err, "failed to share")
	}
}

func (s *dashboardScreen) updateSearch(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		s.search.SetValue("")
		s.search.Blur()
		s.mode = modeBrowse
		s.clampCursor()
		return nil

	case "enter":
		s.search.Blur()
		s.mode = modeBrowse
		return nil
	}

	var cmd tea.Cmd
	s.search, cmd = s.search.Update(key)
	s.clampCursor()

	return cmd
}

func (s *dashboardScreen) updateAdd(key tea.KeyMsg) tea.Cmd {
	if s.adding {
		return nil
	}

	switch key.String() {
	case "esc":
		s.mode = modeBrowse
		return nil

	case "enter":
		item := content.NewContent{
			Title: s.add.value(0),
			Link:  s.add.value(1),
			Type:  content.Type(strings.ToLower(s.add.value(2))),
			Tags:  splitTags(s.add.value(3)),
		}

		if err := item.Validate(); err != nil {
			return notify(toastError, strings.ReplaceAll(err.Error(), "\n", ", "))
		}

		s.adding = true
		return func() tea.Msg {
			return contentAddedMsg{err: s.deps.Auth.Client().AddContent(s.ctx, item)}
		}
	}

	return s.add.Update(key)
}

func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}

func (s *dashboardScreen) View() string {
	var b strings.Builder

	if s.mode == modeAdd {
		b.WriteString(subtitleStyle.Render("add content"))
		b.WriteString("\n")
		b.WriteString(s.add.View())
		if s.adding {
			b.WriteString(infoStyle.Render("saving..."))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter: save • tab: next field • esc: cancel"))
		return b.String()
	}

	shared := "private"
	if s.status.IsShared {
		shared = "shared at " + s.status.URL
	}
	b.WriteString(infoStyle.Render(fmt.Sprintf("filter: %s • brain: %s", s.filter, shared)))
	b.WriteString("\n")

	if s.mode == modeSearch || s.search.Value() != "" {
		b.WriteString(s.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	items := s.visible()

	switch {
	case s.loading && len(s.items) == 0:
		b.WriteString(infoStyle.Render("loading your brain..."))
	case len(items) == 0:
		b.WriteString(infoStyle.Render("nothing here yet, press a to add something"))
	default:
		for i, item := range items {
			b.WriteString(s.itemView(item, i == s.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: open • a: add • d: delete • s: share • b: share brain • f: filter • /: search • r: reload • ,: settings • L: log out"))

	return b.String()
}

func (s *dashboardScreen) itemView(item content.Content, selected bool) string {
	style := menuItemStyle
	if selected {
		style = menuItemSelectedStyle
	}

	line := fmt.Sprintf("%-12s %s", item.Type.Label(), item.Title)

	var tags []string
	for _, tag := range content.TagsFor(s.tags, item.ID) {
		tags = append(tags, "#"+tag.Name)
	}

	suffix := ""
	if len(tags) > 0 {
		suffix = " " + commandDescStyle.Render(strings.Join(tags, " "))
	}
	if s.deleting[item.ID] {
		suffix += " " + infoStyle.Render("deleting...")
	}

	return lipgloss.NewStyle().MaxWidth(s.width).Render(style.Render(line) + suffix)
}
