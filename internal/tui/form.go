package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type field struct {
	label    string
	password bool
}

// form is a column of text inputs with tab focus
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(fields ...field) form {
	f := form{
		labels: make([]string, len(fields)),
		inputs: make([]textinput.Model, len(fields)),
	}

	for i, fd := range fields {
		ti := textinput.New()
		ti.Placeholder = fd.label
		ti.CharLimit = 0
		ti.Width = 40
		ti.Prompt = "> "
		ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
		ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

		if fd.password {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}

		f.labels[i] = fd.label
		f.inputs[i] = ti
	}

	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}

	return f
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *form) set(i int, value string) {
	f.inputs[i].SetValue(value)
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.setFocus(0)
}

func (f *form) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// moves focus on tab, up and down; everything else goes to the focused input
func (f *form) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return nil
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return nil
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)

	return cmd
}

func (f *form) View() string {
	var b strings.Builder

	for i, input := range f.inputs {
		label := menuItemStyle.Render(f.labels[i])
		if i == f.focus {
			label = menuItemSelectedStyle.Render(f.labels[i])
		}

		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(borderStyle.Render(input.View()))
		b.WriteString("\n")
	}

	return b.String()
}
