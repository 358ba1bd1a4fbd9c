package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit            key.Binding
	Up              key.Binding
	Down            key.Binding
	Help            key.Binding
	Filter          key.Binding
	Toggle          key.Binding
	ToggleYesterday key.Binding
	Add             key.Binding
	Edit            key.Binding
	Delete          key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Help},
		{k.Up, k.Down, k.Filter, k.Toggle, k.ToggleYesterday, k.Add, k.Edit, k.Delete},
	}
}

// DefaultKeyMap mirrors the bindings handled by the habit list component so
// they show up in the global help.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle today"),
		),
		ToggleYesterday: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "toggle yesterday"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add habit"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit habit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete habit"),
		),
	}
}
