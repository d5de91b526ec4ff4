package httpapi

import (
	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/eventbus"
)

type renderData struct {
	Index int `json:"index"`
	Value int `json:"value"`
}

type highlightData struct {
	Indices []int     `json:"indices"`
	Role    algo.Role `json:"role"`
	On      bool      `json:"on"`
}

type resetData struct {
	Values []int `json:"values"`
}

type controlsData struct {
	Running bool `json:"running"`
}

// Renderer publishes every call as an event on the bus. It also serves as
// the controller's control surface so clients learn when to grey out their
// inputs.
type Renderer struct {
	bus *eventbus.Bus
}

func NewRenderer(bus *eventbus.Bus) *Renderer {
	return &Renderer{bus: bus}
}

func (r *Renderer) Render(index, value int) {
	r.bus.Publish(eventbus.TypeRender, renderData{Index: index, Value: value})
}

func (r *Renderer) Highlight(indices []int, role algo.Role, on bool) {
	r.bus.Publish(eventbus.TypeHighlight, highlightData{
		Indices: append([]int(nil), indices...),
		Role:    role,
		On:      on,
	})
}

func (r *Renderer) Reset(values []int) {
	r.bus.Publish(eventbus.TypeReset, resetData{Values: append([]int(nil), values...)})
}

func (r *Renderer) Finish(res algo.Result) {
	r.bus.Publish(eventbus.TypeFinish, res)
}

func (r *Renderer) SetInteractive(running bool) {
	r.bus.Publish(eventbus.TypeControls, controlsData{Running: running})
}
