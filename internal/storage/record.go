package storage

import (
	"errors"
	"time"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/session"
)

// ErrRunNotFound is returned when a run id has no stored record.
var ErrRunNotFound = errors.New("storage: run not found")

// Record describes one finished run.
type Record struct {
	ID        string             `json:"id"`
	Algorithm string             `json:"algorithm"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Size      int                `json:"size"`
	DelayMs   int64              `json:"delay_ms"`
	Target    *int               `json:"target,omitempty"`
	Status    string             `json:"status"`
	Index     int                `json:"index"`
	Initial   []int              `json:"initial"`
	Final     []int              `json:"final"`
	Stats     algo.Stats         `json:"stats"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Trace is the ordered event stream of a run.
type Trace []algo.Event

// RunStore persists records and their traces.
type RunStore interface {
	Save(rec *Record, trace Trace) (string, error)
	List() ([]Record, error)
	Load(id string) (*Record, error)
	LoadTrace(id string) (Trace, error)
}

// FromSession builds a record from a finished session.
func FromSession(sess *session.RunSession, seed int64, metrics map[string]float64) *Record {
	rec := &Record{
		ID:        sess.ID,
		Algorithm: sess.Params.Algorithm.String(),
		Timestamp: sess.StartedAt,
		Seed:      seed,
		Size:      len(sess.Initial),
		DelayMs:   sess.Params.Delay.Milliseconds(),
		Status:    sess.Status.String(),
		Index:     sess.Result.Index,
		Initial:   sess.Initial,
		Final:     sess.Final,
		Stats:     sess.Result.Stats,
		Metrics:   metrics,
	}
	if sess.Params.Algorithm.IsSearch() && sess.Params.Target != nil {
		t := *sess.Params.Target
		rec.Target = &t
	}
	if rec.Metrics == nil {
		rec.Metrics = map[string]float64{}
	}
	return rec
}
