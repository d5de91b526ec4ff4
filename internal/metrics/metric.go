// Package metrics accumulates per-run figures from the runner's step events.
package metrics

import "github.com/san-kum/sortviz/internal/algo"

type Metric interface {
	Name() string
	Observe(ev algo.Event)
	Value() float64
	Reset()
}

// Set is an algo.Observer feeding every event to each metric.
type Set []Metric

func Default() Set {
	return Set{
		NewComparisons(),
		NewSwaps(),
		NewWrites(),
		NewHighlights(),
		NewStepRate(),
	}
}

func (s Set) OnStep(ev algo.Event) {
	for _, m := range s {
		m.Observe(ev)
	}
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Values maps metric names to their current values.
func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}
