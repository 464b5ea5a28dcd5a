package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard bindings for the TUI.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	ReportLow    key.Binding
	ReportMedium key.Binding
	ReportHigh   key.Binding
	Start        key.Binding
	End          key.Binding
	Summary      key.Binding
	Escape       key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev session"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next session"),
		),
		ReportLow: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "report low"),
		),
		ReportMedium: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "report medium"),
		),
		ReportHigh: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "report high"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start session"),
		),
		End: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "end session"),
		),
		Summary: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "daily summary"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close overlay"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
