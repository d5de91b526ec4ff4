package metrics

import "github.com/san-kum/sortviz/internal/algo"

// Counter counts events of the given kinds.
type Counter struct {
	name  string
	kinds map[algo.EventKind]bool
	count int
}

func NewCounter(name string, kinds ...algo.EventKind) *Counter {
	c := &Counter{name: name, kinds: make(map[algo.EventKind]bool, len(kinds))}
	for _, k := range kinds {
		c.kinds[k] = true
	}
	return c
}

func NewComparisons() *Counter { return NewCounter("comparisons", algo.EventCompare) }

func NewSwaps() *Counter { return NewCounter("swaps", algo.EventSwap) }

func NewWrites() *Counter { return NewCounter("writes", algo.EventWrite) }

// NewHighlights counts the role events that draw attention to a bar without
// changing it.
func NewHighlights() *Counter {
	return NewCounter("highlights", algo.EventPivot, algo.EventMid, algo.EventFound, algo.EventSettled)
}

func (c *Counter) Name() string { return c.name }

func (c *Counter) Observe(ev algo.Event) {
	if c.kinds[ev.Kind] {
		c.count++
	}
}

func (c *Counter) Value() float64 { return float64(c.count) }

func (c *Counter) Reset() { c.count = 0 }

// StepRate is the mean number of events per comparison.
type StepRate struct {
	name        string
	events      int
	comparisons int
}

func NewStepRate() *StepRate {
	return &StepRate{name: "step_rate"}
}

func (s *StepRate) Name() string { return s.name }

func (s *StepRate) Observe(ev algo.Event) {
	s.events++
	if ev.Kind == algo.EventCompare {
		s.comparisons++
	}
}

func (s *StepRate) Value() float64 {
	if s.comparisons == 0 {
		return 0
	}
	return float64(s.events) / float64(s.comparisons)
}

func (s *StepRate) Reset() {
	s.events = 0
	s.comparisons = 0
}
