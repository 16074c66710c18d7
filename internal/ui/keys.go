package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	FocusNext     key.Binding
	FocusPrev     key.Binding
	Format        key.Binding
	ToggleConsole key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next panel"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "previous panel"),
		),
		Format: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle format"),
		),
		ToggleConsole: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "toggle console"),
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
