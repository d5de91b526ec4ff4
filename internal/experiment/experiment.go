package experiment

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/array"
	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/pacer"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/storage"
)

type Config struct {
	Algorithm algo.Algorithm
	Size      int
	Sorted    bool
	Target    *int
	Seed      int64
	Range     array.Range
	Layout    array.Layout
	Delay     time.Duration
	FoundHold time.Duration
	// Values, when set, is used instead of a generated array.
	Values []int
}

// FromConfig converts the file configuration.
func FromConfig(cfg *config.Config) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	alg, err := cfg.AlgorithmValue()
	if err != nil {
		return Config{}, err
	}
	out := Config{
		Algorithm: alg,
		Size:      cfg.Size,
		Sorted:    cfg.Sorted,
		Seed:      cfg.Seed,
		Range:     cfg.Range(),
		Layout:    cfg.LayoutValue(),
		Delay:     cfg.Delay(),
		FoundHold: cfg.FoundHold(),
	}
	if cfg.Target != nil {
		t := *cfg.Target
		out.Target = &t
	}
	return out, nil
}

// Outcome is everything a finished experiment produced.
type Outcome struct {
	Session *session.RunSession
	Result  algo.Result
	Initial []int
	Final   []int
	Metrics map[string]float64
	Trace   storage.Trace
}

// Record converts the outcome for storage.
func (o *Outcome) Record(seed int64) *storage.Record {
	rec := storage.FromSession(o.Session, seed, o.Metrics)
	rec.ID = ""
	return rec
}

type Experiment struct {
	cfg       Config
	sleeper   pacer.Sleeper
	render    algo.Renderer
	controls  session.Controls
	metrics   metrics.Set
	observers []algo.Observer
	log       *logrus.Logger
}

// New builds a headless experiment: it does not sleep unless Setup installs
// a sleeper.
func New(cfg Config) *Experiment {
	return &Experiment{
		cfg:     cfg,
		sleeper: pacer.Instant{},
		metrics: metrics.Default(),
	}
}

// Setup installs an optional renderer, sleeper, control surface and metric
// set. Nil arguments keep the defaults.
func (e *Experiment) Setup(render algo.Renderer, sleeper pacer.Sleeper, controls session.Controls, set metrics.Set) {
	if render != nil {
		e.render = render
	}
	if sleeper != nil {
		e.sleeper = sleeper
	}
	if controls != nil {
		e.controls = controls
	}
	if set != nil {
		e.metrics = set
	}
}

func (e *Experiment) SetLogger(log *logrus.Logger) { e.log = log }

func (e *Experiment) AddObserver(o algo.Observer) {
	e.observers = append(e.observers, o)
}

// Run executes the configured algorithm. Cancelling ctx stops the run at its
// next checkpoint; the outcome is still returned with a cancelled status.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	delay := e.cfg.Delay
	if delay <= 0 {
		delay = pacer.FastestDelay
	}
	ctl := session.New(e.render, session.Options{
		Layout:    e.cfg.Layout,
		Range:     e.cfg.Range,
		Sleeper:   e.sleeper,
		Rand:      rand.New(rand.NewSource(e.cfg.Seed)),
		FoundHold: e.cfg.FoundHold,
		Delay:     delay,
		Controls:  e.controls,
		Logger:    e.log,
	})

	if e.cfg.Values != nil {
		if err := ctl.Load(e.cfg.Values); err != nil {
			return nil, err
		}
	} else if err := ctl.Generate(e.cfg.Size, e.cfg.Sorted); err != nil {
		return nil, err
	}

	e.metrics.Reset()
	recorder := storage.NewRecorder()
	ctl.AddObserver(e.metrics)
	ctl.AddObserver(recorder)
	for _, o := range e.observers {
		ctl.AddObserver(o)
	}

	run, err := ctl.Begin(session.Params{Algorithm: e.cfg.Algorithm, Target: e.cfg.Target})
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			ctl.RequestStop()
		case <-done:
		}
	}()

	sess, err := run.Execute()
	if err != nil {
		return nil, err
	}
	return &Outcome{
		Session: sess,
		Result:  sess.Result,
		Initial: sess.Initial,
		Final:   sess.Final,
		Metrics: e.metrics.Values(),
		Trace:   recorder.Trace(),
	}, nil
}

// Compare runs every algorithm over the same input. Searches without a target
// share one drawn from the input.
func Compare(ctx context.Context, base Config, algorithms []algo.Algorithm) ([]*Outcome, error) {
	if len(algorithms) == 0 {
		return nil, errors.New("experiment: no algorithms to compare")
	}
	values := base.Values
	if values == nil {
		arr, err := array.Generate(rand.New(rand.NewSource(base.Seed)), base.Size, array.Options{
			MaxSize: base.Layout.MaxSize(),
			Sorted:  base.Sorted,
			Range:   base.Range,
		})
		if err != nil {
			return nil, err
		}
		values = arr.Values()
	}
	target := base.Target
	if target == nil && len(values) > 0 {
		t := values[rand.New(rand.NewSource(base.Seed)).Intn(len(values))]
		target = &t
	}

	out := make([]*Outcome, 0, len(algorithms))
	for _, alg := range algorithms {
		cfg := base
		cfg.Algorithm = alg
		cfg.Values = values
		cfg.Target = target
		cfg.FoundHold = 0
		o, err := New(cfg).Run(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, o)
	}
	return out, nil
}
