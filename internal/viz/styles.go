package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the theme-dependent lipgloss styles used by the view.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Running  lipgloss.Style
	Error    lipgloss.Style
	Panel    lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:    lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(t.Muted),
		Running:  lipgloss.NewStyle().Bold(true).Foreground(t.Found),
		Error:    lipgloss.NewStyle().Foreground(t.Error),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}

// ProgressBar renders a fraction in [0, 1] as a filled bar.
func ProgressBar(percent float64, width int, fill lipgloss.Color) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", filled))
	return bar + strings.Repeat("░", width-filled)
}

// Sparkline renders values as a row of block characters, one per value,
// keeping the most recent width values.
func Sparkline(values []int, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if max > 0 {
			idx = v * (len(chars) - 1) / max
		}
		b.WriteRune(chars[idx])
	}
	return b.String()
}

func Separator(width int) string {
	if width < 8 {
		return strings.Repeat("─", width)
	}
	mid := width / 2
	return strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-1)
}
