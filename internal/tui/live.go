// Package tui draws runs straight to a terminal with ANSI escapes, without
// taking over input. It backs the run --live command.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/frame"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	reset       = "\033[0m"
)

var roleColors = map[algo.Role]string{
	algo.RoleCompare: "\033[33m",
	algo.RolePivot:   "\033[35m",
	algo.RoleMid:     "\033[36m",
	algo.RoleFound:   "\033[32m",
	algo.RoleSorted:  "\033[34m",
}

// LiveRenderer redraws the whole array at most frameRate times a second. The
// final frame is always drawn.
type LiveRenderer struct {
	title     string
	frameRate int
	color     bool
	out       io.Writer
	lastFrame time.Time
	buf       *frame.Buffer
	steps     int
	frames    int
}

func NewLiveRenderer(title string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	r := &LiveRenderer{
		title:     title,
		frameRate: frameRate,
		color:     true,
		out:       os.Stdout,
	}
	r.buf = frame.NewBuffer(r.onChange)
	return r
}

// SetOutput redirects drawing; color is disabled for non-terminal writers.
func (r *LiveRenderer) SetOutput(w io.Writer, color bool) {
	r.out, r.color = w, color
}

func (r *LiveRenderer) Render(index, value int) { r.buf.Render(index, value) }

func (r *LiveRenderer) Highlight(indices []int, role algo.Role, on bool) {
	r.buf.Highlight(indices, role, on)
}

func (r *LiveRenderer) Reset(values []int) { r.buf.Reset(values) }

func (r *LiveRenderer) Finish(res algo.Result) {
	r.buf.Finish(res)
	r.draw(r.buf.Snapshot())
}

// OnStep counts events for the status line.
func (r *LiveRenderer) OnStep(algo.Event) { r.steps++ }

// Frames is the number of frames drawn so far.
func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) onChange(f frame.Frame) {
	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.draw(f)
}

func (r *LiveRenderer) draw(f frame.Frame) {
	r.lastFrame = time.Now()
	r.frames++

	var b strings.Builder
	if r.color {
		b.WriteString(clearScreen)
	}
	b.WriteString(fmt.Sprintf("  %s  steps=%d\n", r.title, r.steps))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.rows(f) {
		b.WriteString("  ")
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	if f.Result != nil {
		res := f.Result
		line := fmt.Sprintf("  %s  comparisons=%d swaps=%d writes=%d",
			res.Status, res.Stats.Comparisons, res.Stats.Swaps, res.Stats.Writes)
		if res.Algorithm.IsSearch() {
			line += fmt.Sprintf(" target=%d index=%d", res.Target, res.Index)
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprint(r.out, b.String())
}

// rows lays the bars out bottom-up, one column group per value.
func (r *LiveRenderer) rows(f frame.Frame) []string {
	n := f.Len()
	rows := make([]string, height)
	if n == 0 {
		for y := range rows {
			rows[y] = strings.Repeat(" ", width)
		}
		return rows
	}
	bw := width / n
	if bw < 1 {
		bw = 1
	}
	max := f.Max()
	if max <= 0 {
		max = 1
	}

	for y := 0; y < height; y++ {
		level := height - y
		var b strings.Builder
		for i, v := range f.Values {
			h := (v*height + max - 1) / max
			cell := strings.Repeat(" ", bw)
			if v > 0 && h >= level {
				cell = strings.Repeat("#", bw-min(1, bw-1))
				cell += strings.Repeat(" ", bw-len(cell))
				if c, ok := r.colorFor(f, i); ok {
					cell = c + cell + reset
				}
			}
			b.WriteString(cell)
		}
		rows[y] = b.String()
	}
	return rows
}

func (r *LiveRenderer) colorFor(f frame.Frame, i int) (string, bool) {
	if !r.color || i >= len(f.Roles) {
		return "", false
	}
	role, ok := f.Roles[i].Top()
	if !ok {
		return "", false
	}
	return roleColors[role], true
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
