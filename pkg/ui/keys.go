package ui

import "github.com/charmbracelet/bubbles/key"

// ViewerKeyMap holds the step viewer bindings. It implements help.KeyMap.
type ViewerKeyMap struct {
	Next  key.Binding
	Voice key.Binding
	Up    key.Binding
	Down  key.Binding
	Skip  key.Binding
	Copy  key.Binding
	Help  key.Binding
	Home  key.Binding
	Quit  key.Binding
}

// DefaultViewerKeys returns the standard bindings.
func DefaultViewerKeys() ViewerKeyMap {
	return ViewerKeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "n", " ", "enter"),
			key.WithHelp("→/space", "next step"),
		),
		Voice: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "play/stop voice"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		Skip: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "show full text"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy step"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Home: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "home"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k ViewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Voice, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k ViewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Voice, k.Skip},
		{k.Up, k.Down, k.Copy},
		{k.Help, k.Home, k.Quit},
	}
}

// HomeKeyMap holds the home screen bindings.
type HomeKeyMap struct {
	Start key.Binding
	Quit  key.Binding
}

// DefaultHomeKeys returns the standard bindings.
func DefaultHomeKeys() HomeKeyMap {
	return HomeKeyMap{
		Start: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "start training"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k HomeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k HomeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
