package preview

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	flavor catppuccin.Flavor
}

func NewStyles(themeName string) *Styles {
	return &Styles{flavor: flavorFromName(themeName)}
}

func flavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

func (s *Styles) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(s.flavor.Mauve().Hex))
}

func (s *Styles) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Overlay0().Hex))
}

// FrameStyle borders the device frame. Live mode drops the accent.
func (s *Styles) FrameStyle(live bool) lipgloss.Style {
	border := s.flavor.Peach().Hex
	if live {
		border = s.flavor.Surface1().Hex
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border))
}

func (s *Styles) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(s.flavor.Text().Hex)).
		Background(lipgloss.Color(s.flavor.Surface0().Hex))
}

func (s *Styles) GridStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Surface2().Hex))
}

func (s *Styles) IconStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(s.flavor.Yellow().Hex))
}

func (s *Styles) OverlayStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(lipgloss.Color(s.flavor.Peach().Hex)).
		Foreground(lipgloss.Color(s.flavor.Text().Hex)).
		Padding(1, 2).
		Align(lipgloss.Center)
}

func (s *Styles) ButtonStyle(active bool) lipgloss.Style {
	if active {
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(s.flavor.Base().Hex)).
			Background(lipgloss.Color(s.flavor.Teal().Hex)).
			Padding(0, 1)
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Subtext0().Hex)).
		Padding(0, 1)
}

func (s *Styles) AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Teal().Hex))
}

func (s *Styles) InfoStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Text().Hex))
}

func (s *Styles) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Red().Hex)).
		Bold(true)
}

func (s *Styles) LogTimestampStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.flavor.Overlay0().Hex))
}

func (s *Styles) LogScopeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.flavor.Lavender().Hex))
}

// LogLevelStyle colors a level badge.
func (s *Styles) LogLevelStyle(level string) lipgloss.Style {
	c := s.flavor.Blue().Hex
	switch level {
	case "DEBUG":
		c = s.flavor.Overlay1().Hex
	case "WARN":
		c = s.flavor.Yellow().Hex
	case "ERROR":
		c = s.flavor.Red().Hex
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Bold(level == "ERROR")
}
