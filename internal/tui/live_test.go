package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/array"
	"github.com/san-kum/sortviz/internal/pacer"
)

func TestLiveRendererDrawsFinalFrame(t *testing.T) {
	var out bytes.Buffer
	r := NewLiveRenderer("bubble", 1)
	r.SetOutput(&out, false)

	arr := array.FromValues([]int{30, 10, 20})
	algo.Redraw(r, arr.Values())
	p, err := pacer.New(pacer.FastestDelay, nil, pacer.Instant{})
	if err != nil {
		t.Fatal(err)
	}
	runner := algo.New(arr, r, p)
	runner.AddObserver(r)
	res, err := runner.Run(algo.Bubble, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	s := out.String()
	if strings.Contains(s, clearScreen) {
		t.Error("plain output must not clear the screen")
	}
	if !strings.Contains(s, "completed  comparisons=3") {
		t.Errorf("missing status line:\n%s", s)
	}
	if r.Frames() < 1 {
		t.Error("final frame not drawn")
	}
	if res.Stats.Comparisons != 3 {
		t.Errorf("expected 3 comparisons, got %d", res.Stats.Comparisons)
	}
}

func TestRowsScaleToTallest(t *testing.T) {
	r := NewLiveRenderer("x", 30)
	r.SetOutput(&bytes.Buffer{}, false)
	r.Reset([]int{1, 2})
	rows := r.rows(r.buf.Snapshot())
	if len(rows) != height {
		t.Fatalf("expected %d rows, got %d", height, len(rows))
	}
	top, bottom := rows[0], rows[height-1]
	bw := width / 2
	if strings.Count(top, "#") != bw-1 {
		t.Errorf("only the tallest bar reaches the top row: %q", top)
	}
	if strings.Count(bottom, "#") != 2*(bw-1) {
		t.Errorf("both bars fill the bottom row: %q", bottom)
	}
}

func TestColorFollowsRole(t *testing.T) {
	r := NewLiveRenderer("x", 30)
	r.Reset([]int{5, 5})
	r.Highlight([]int{1}, algo.RoleFound, true)
	f := r.buf.Snapshot()
	if _, ok := r.colorFor(f, 0); ok {
		t.Error("unmarked bar should not be colored")
	}
	if c, ok := r.colorFor(f, 1); !ok || c != roleColors[algo.RoleFound] {
		t.Errorf("expected found color, got %q", c)
	}
}
