// Package confirm asks a yes/no question before the widget quits.
package confirm

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattsolo1/grove-core/tui/theme"
)

// Answer is the user's choice.
type Answer int

const (
	// Dismissed closes the dialog without answering.
	Dismissed Answer = iota
	Yes
	No
)

// AnsweredMsg is sent when the dialog closes.
type AnsweredMsg struct {
	Answer Answer
}

// Model represents a confirmation dialog.
type Model struct {
	Active bool
	Prompt string
	keys   keyMap
}

// New creates a new confirmation dialog model.
func New() Model {
	return Model{keys: defaultKeyMap}
}

// Activate prepares the dialog for display with a given prompt.
func (m *Model) Activate(prompt string) {
	m.Prompt = prompt
	m.Active = true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.Active {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	var answer Answer
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		answer = Yes
	case key.Matches(keyMsg, m.keys.No):
		answer = No
	case key.Matches(keyMsg, m.keys.Dismiss):
		answer = Dismissed
	default:
		return m, nil
	}
	m.Active = false
	return m, func() tea.Msg { return AnsweredMsg{Answer: answer} }
}

func (m Model) View() string {
	if !m.Active {
		return ""
	}

	dialogBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.DefaultTheme.Colors.Orange).
		Padding(0, 2).
		Render(m.Prompt)

	helpText := lipgloss.NewStyle().
		Faint(true).
		Width(lipgloss.Width(dialogBox)).
		Align(lipgloss.Center).
		Render("(y)es / (n)o / esc to stay")

	return lipgloss.JoinVertical(lipgloss.Left, dialogBox, helpText)
}

type keyMap struct {
	Yes     key.Binding
	No      key.Binding
	Dismiss key.Binding
}

var defaultKeyMap = keyMap{
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("n", "no"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "stay"),
	),
}
