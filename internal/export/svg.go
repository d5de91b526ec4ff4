package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/sortviz/internal/frame"
	"github.com/san-kum/sortviz/internal/viz"
)

const background = "#0a0a0a"

// FrameToSVG draws the bars of f with the theme's role colors.
func FrameToSVG(f frame.Frame, width, height int, theme viz.Theme) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	n := f.Len()
	if n > 0 {
		slot := float64(width) / float64(n)
		gap := slot * 0.15
		max := f.Max()
		if max <= 0 {
			max = 1
		}
		for i, v := range f.Values {
			var roles frame.RoleSet
			if i < len(f.Roles) {
				roles = f.Roles[i]
			}
			h := float64(v) / float64(max) * float64(height)
			if h < 0 {
				h = 0
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(i)*slot+gap/2, float64(height)-h, slot-gap, h, string(theme.RoleColor(roles))))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG draws values as a polyline, x being the index.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2
	rangeX := float64(len(values) - 1)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
