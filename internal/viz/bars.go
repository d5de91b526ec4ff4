package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sortviz/internal/frame"
)

const barRune = "█"

// barHeight scales v into [1, rows] against max. Zero and negative values
// get no bar.
func barHeight(v, max, rows int) int {
	if v <= 0 || rows <= 0 {
		return 0
	}
	if max <= 0 {
		max = 1
	}
	h := (v*rows + max - 1) / max
	if h > rows {
		h = rows
	}
	return h
}

// RenderVertical draws one column per value, growing upwards, in a box of
// width columns and height rows.
func RenderVertical(f frame.Frame, width, height int, t Theme) string {
	n := f.Len()
	if n == 0 || width <= 0 || height <= 0 {
		return ""
	}
	gap := 1
	barW := (width - (n - 1)) / n
	if barW < 1 {
		barW, gap = 1, 0
	}

	max := f.Max()
	heights := make([]int, n)
	styles := make([]lipgloss.Style, n)
	for i, v := range f.Values {
		heights[i] = barHeight(v, max, height)
		styles[i] = lipgloss.NewStyle().Foreground(t.RoleColor(roleAt(f, i)))
	}

	cell := strings.Repeat(barRune, barW)
	blank := strings.Repeat(" ", barW)
	sep := strings.Repeat(" ", gap)

	rows := make([]string, height)
	for r := 0; r < height; r++ {
		level := height - r
		var b strings.Builder
		for i := 0; i < n; i++ {
			if i > 0 {
				b.WriteString(sep)
			}
			if heights[i] >= level {
				b.WriteString(styles[i].Render(cell))
			} else {
				b.WriteString(blank)
			}
		}
		rows[r] = b.String()
	}
	return strings.Join(rows, "\n")
}

// RenderHorizontal draws one labelled row per value, growing rightwards.
// Narrow terminals use it.
func RenderHorizontal(f frame.Frame, width int, t Theme) string {
	n := f.Len()
	if n == 0 || width <= 0 {
		return ""
	}
	const label = 4
	room := width - label
	if room < 1 {
		room = 1
	}
	max := f.Max()
	muted := lipgloss.NewStyle().Foreground(t.Muted)

	rows := make([]string, n)
	for i, v := range f.Values {
		style := lipgloss.NewStyle().Foreground(t.RoleColor(roleAt(f, i)))
		bar := strings.Repeat(barRune, barHeight(v, max, room))
		rows[i] = muted.Render(fmt.Sprintf("%3d ", v)) + style.Render(bar)
	}
	return strings.Join(rows, "\n")
}

func roleAt(f frame.Frame, i int) frame.RoleSet {
	if i < len(f.Roles) {
		return f.Roles[i]
	}
	return 0
}
