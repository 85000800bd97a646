package browser

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/mattsolo1/grove-core/tui/keymap"
)

// KeyMap defines the keybindings for the tree widget
type KeyMap struct {
	keymap.Base
	Fold       key.Binding
	Search     key.Binding
	NextMatch  key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	GoToTop    key.Binding
	GoToBottom key.Binding
	FoldPrefix key.Binding // z key for fold commands
	CancelDrag key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Fold, k.Search, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	baseHelp := k.Base.FullHelp()
	return append(baseHelp, []key.Binding{
		k.Fold,
		k.Search,
		k.NextMatch,
	}, []key.Binding{
		k.PageUp,
		k.PageDown,
		k.GoToTop,
		k.GoToBottom,
		k.FoldPrefix,
		k.CancelDrag,
	})
}

var keys = KeyMap{
	Base: keymap.NewBase(),
	Fold: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "toggle fold"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search titles"),
	),
	NextMatch: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next match"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("ctrl+u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("ctrl+d", "page down"),
	),
	GoToTop: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("gg", "go to top"),
	),
	GoToBottom: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "go to bottom"),
	),
	FoldPrefix: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "fold commands (za/zo/zc/zM/zR)"),
	),
	CancelDrag: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel drag"),
	),
}
