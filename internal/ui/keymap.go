package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global key bindings. Panel keys live with their panels.
type KeyMap struct {
	// Playback controls
	PlayPause key.Binding
	Stop      key.Binding
	Rewind    key.Binding

	// Queue
	ToggleLoop key.Binding
	Shuffle    key.Binding

	TabFocus key.Binding

	// Help and Quit
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Playback
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Rewind: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),

		ToggleLoop: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "loop"),
		),
		Shuffle: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "shuffle"),
		),

		TabFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus"),
		),

		// Help and Quit
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

// ShortHelp returns keybindings to show in the short help view.
// Implements the help.KeyMap interface.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.PlayPause,
		k.Stop,
		k.Help,
		k.Quit,
	}
}

// FullHelp returns keybindings to show in the full help view.
// Implements the help.KeyMap interface.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			k.PlayPause,
			k.Stop,
			k.Rewind,
		},
		{
			k.ToggleLoop,
			k.Shuffle,
			k.TabFocus,
		},
		{
			k.Help,
			k.Quit,
		},
	}
}
