package algo

// Resetter is implemented by renderers that can replace every bar at once,
// including a change in bar count.
type Resetter interface {
	Reset(values []int)
}

// Redraw replaces the renderer's bars with values and clears every role.
func Redraw(render Renderer, values []int) {
	if r, ok := render.(Resetter); ok {
		r.Reset(values)
		return
	}
	ClearHighlights(render, len(values))
	for i, v := range values {
		render.Render(i, v)
	}
}

type multi []Renderer

// Multi fans every call out to each renderer in order. Nil entries are
// skipped.
func Multi(rs ...Renderer) Renderer {
	out := make(multi, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m multi) Render(index, value int) {
	for _, r := range m {
		r.Render(index, value)
	}
}

func (m multi) Highlight(indices []int, role Role, on bool) {
	for _, r := range m {
		r.Highlight(indices, role, on)
	}
}

func (m multi) Reset(values []int) {
	for _, r := range m {
		Redraw(r, values)
	}
}

func (m multi) Finish(res Result) {
	for _, r := range m {
		if f, ok := r.(Finisher); ok {
			f.Finish(res)
		}
	}
}
