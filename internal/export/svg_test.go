package export

import (
	"strings"
	"testing"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/frame"
	"github.com/san-kum/sortviz/internal/viz"
)

func TestFrameToSVG(t *testing.T) {
	roles := make([]frame.RoleSet, 3)
	roles[2] = roles[2].With(algo.RolePivot)
	f := frame.Frame{Values: []int{10, 20, 40}, Roles: roles}
	th := viz.ThemeDefault

	svg := FrameToSVG(f, 300, 100, th)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	// background plus one rect per bar
	if got := strings.Count(svg, "<rect"); got != 4 {
		t.Errorf("expected 4 rects, got %d", got)
	}
	if !strings.Contains(svg, `fill="`+string(th.Pivot)+`"`) {
		t.Error("pivot bar not colored")
	}
	if !strings.Contains(svg, `y="0.0"`) {
		t.Error("tallest bar should reach the top")
	}
}

func TestFrameToSVGEmpty(t *testing.T) {
	svg := FrameToSVG(frame.Frame{}, 10, 10, viz.ThemeDefault)
	if strings.Count(svg, "<rect") != 1 {
		t.Errorf("empty frame should only draw the background:\n%s", svg)
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 10, 10, "#fff") != "" {
		t.Error("a single point has no line")
	}
	svg := SeriesToSVG([]float64{0, 1, 2, 3}, 300, 100, "#00ff00")
	if strings.Count(svg, " L") != 3 {
		t.Errorf("expected 3 segments:\n%s", svg)
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("missing stroke color")
	}
}
