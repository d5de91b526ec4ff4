package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/frame"
)

// Theme defines the color scheme for the bar view. Each highlight role has
// its own color; Bar is used for unmarked values.
type Theme struct {
	Name    string
	Bar     lipgloss.Color
	Compare lipgloss.Color
	Pivot   lipgloss.Color
	Mid     lipgloss.Color
	Found   lipgloss.Color
	Sorted  lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeDefault = Theme{
		Name:    "default",
		Bar:     lipgloss.Color("#5f87af"),
		Compare: lipgloss.Color("#ffaf00"),
		Pivot:   lipgloss.Color("#ff5f87"),
		Mid:     lipgloss.Color("#af87ff"),
		Found:   lipgloss.Color("#00ff87"),
		Sorted:  lipgloss.Color("#5fd7af"),
		Accent:  lipgloss.Color("#00d7ff"),
		Text:    lipgloss.Color("#eeeeee"),
		Muted:   lipgloss.Color("#6c6c6c"),
		Error:   lipgloss.Color("#ff5f5f"),
	}

	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Bar:     lipgloss.Color("#00ffff"),
		Compare: lipgloss.Color("#ffff00"),
		Pivot:   lipgloss.Color("#ff00ff"),
		Mid:     lipgloss.Color("#ff8800"),
		Found:   lipgloss.Color("#00ff00"),
		Sorted:  lipgloss.Color("#8888ff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Bar:     lipgloss.Color("#00aa00"),
		Compare: lipgloss.Color("#ffff00"),
		Pivot:   lipgloss.Color("#88ff88"),
		Mid:     lipgloss.Color("#00ffaa"),
		Found:   lipgloss.Color("#ffffff"),
		Sorted:  lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Bar:     lipgloss.Color("#0077be"),
		Compare: lipgloss.Color("#ffd700"),
		Pivot:   lipgloss.Color("#ff7f50"),
		Mid:     lipgloss.Color("#b0e0e6"),
		Found:   lipgloss.Color("#00ff88"),
		Sorted:  lipgloss.Color("#00a8cc"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Bar:     lipgloss.Color("#ff6b6b"),
		Compare: lipgloss.Color("#feca57"),
		Pivot:   lipgloss.Color("#ff9ff3"),
		Mid:     lipgloss.Color("#48dbfb"),
		Found:   lipgloss.Color("#5fd068"),
		Sorted:  lipgloss.Color("#c8a2c8"),
		Accent:  lipgloss.Color("#ff9ff3"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Error:   lipgloss.Color("#ff4757"),
	}

	// Themes lists every theme in cycling order.
	Themes = []Theme{
		ThemeDefault,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

// NextTheme returns the theme after name in cycling order.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// RoleColor picks the color for a bar. A bar carrying several roles takes
// the one RoleSet.Top ranks highest.
func (t Theme) RoleColor(roles frame.RoleSet) lipgloss.Color {
	r, ok := roles.Top()
	if !ok {
		return t.Bar
	}
	switch r {
	case algo.RoleCompare:
		return t.Compare
	case algo.RolePivot:
		return t.Pivot
	case algo.RoleMid:
		return t.Mid
	case algo.RoleFound:
		return t.Found
	case algo.RoleSorted:
		return t.Sorted
	}
	return t.Bar
}
