// Package ui provides the visual styling for the scansector terminal UI.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scansector/internal/grid"
)

// Semantic colors shared by both themes.
var (
	ColorMission = lipgloss.Color("#FFC107") // mission targets
	ColorError   = lipgloss.Color("#e53935")
	ColorPlanet  = lipgloss.Color("#42A5F5")
	ColorEntity  = lipgloss.Color("#9E9E9E")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#f2f2f2"),
		Muted:      lipgloss.Color("#5c6773"),
		Accent:     lipgloss.Color("#8BC34A"),
		Border:     lipgloss.Color("#2a3850"),
		IsDark:     true,
	}
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#101F38"),
		Muted:      lipgloss.Color("#9aa3ad"),
		Accent:     lipgloss.Color("#33691E"),
		Border:     lipgloss.Color("#dce0e5"),
		IsDark:     false,
	}
}

// ThemeByName resolves a configured theme name. "auto" inspects the
// terminal.
func ThemeByName(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme guesses dark or light from COLORFGBG, defaulting to dark.
func DetectTheme() Theme {
	colorTerm := os.Getenv("COLORFGBG")
	if colorTerm != "" {
		// Format is usually "foreground;background".
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if bgIdx >= 7 && bgIdx != 8 {
					return LightTheme()
				}
			}
		}
	}
	return DarkTheme()
}

// Styles bundles every style the TUI renders with.
type Styles struct {
	Theme Theme

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	Highlight lipgloss.Style
	Border    lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Foreground),
		Status: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Help: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),
		Highlight: lipgloss.NewStyle().
			Foreground(ColorMission).
			Bold(true),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// GridStyles derives the map cell styles from the theme.
func (s Styles) GridStyles() grid.Styles {
	return grid.Styles{
		Planet:  lipgloss.NewStyle().Foreground(ColorPlanet),
		Mission: lipgloss.NewStyle().Foreground(ColorMission).Bold(true),
		Entity:  lipgloss.NewStyle().Foreground(ColorEntity),
		Label:   lipgloss.NewStyle().Foreground(s.Theme.Foreground),
		Axis:    lipgloss.NewStyle().Foreground(s.Theme.Border),
		Notice:  lipgloss.NewStyle().Foreground(s.Theme.Muted).Italic(true),
	}
}
