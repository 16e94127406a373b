package preview

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Mobile  key.Binding
	Desktop key.Binding
	Narrow  key.Binding
	Widen   key.Binding
	Live    key.Binding
	Game    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Mobile: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mobile"),
		),
		Desktop: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "desktop"),
		),
		Narrow: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "narrower"),
		),
		Widen: key.NewBinding(
			key.WithKeys("right", "L"),
			key.WithHelp("→/L", "wider"),
		),
		Live: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "live"),
		),
		Game: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "game"),
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

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Mobile, k.Desktop, k.Live, k.Game, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Mobile, k.Desktop, k.Narrow, k.Widen},
		{k.Live, k.Game},
		{k.Help, k.Quit},
	}
}
