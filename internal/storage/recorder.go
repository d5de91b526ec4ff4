package storage

import (
	"sync"

	"github.com/san-kum/sortviz/internal/algo"
)

// Recorder is an algo.Observer that captures the trace of the current run.
// Reset it between runs.
type Recorder struct {
	mu     sync.Mutex
	events Trace
}

func NewRecorder() *Recorder {
	return &Recorder{events: make(Trace, 0)}
}

func (r *Recorder) OnStep(ev algo.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Trace returns a copy of the captured events.
func (r *Recorder) Trace() Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(Trace(nil), r.events...)
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = r.events[:0]
	r.mu.Unlock()
}
