package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the script runner
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Run     key.Binding
	Cancel  key.Binding
	Config  key.Binding
	Back    key.Binding
	Preview key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous script"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next script"),
		),
		Run: key.NewBinding(
			key.WithKeys("enter", "r"),
			key.WithHelp("enter", "run"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cancel"),
		),
		Config: key.NewBinding(
			key.WithKeys("tab", "c"),
			key.WithHelp("tab", "edit options"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Cancel, k.Config, k.Preview, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Run, k.Cancel},
		{k.Config, k.Back, k.Preview},
		{k.Help, k.Quit},
	}
}
