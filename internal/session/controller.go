// Package session owns the array and serialises algorithm runs over it.
//
// A Controller holds at most one active run. The run executes in the
// goroutine that calls Start; RequestStop and SetDelay are safe from any
// other goroutine.
package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/array"
	"github.com/san-kum/sortviz/internal/frame"
	"github.com/san-kum/sortviz/internal/logging"
	"github.com/san-kum/sortviz/internal/pacer"
)

// Controls is the front end's control surface. While a run is active every
// control except stop must be inert.
type Controls interface {
	SetInteractive(running bool)
}

type Params struct {
	Algorithm algo.Algorithm `json:"algorithm"`
	Target    *int           `json:"target,omitempty"`
	Delay     time.Duration  `json:"delay"`
}

type RunSession struct {
	ID         string      `json:"id"`
	Params     Params      `json:"params"`
	Status     algo.Status `json:"status"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at,omitempty"`
	Initial    []int       `json:"initial"`
	Final      []int       `json:"final,omitempty"`
	Result     algo.Result `json:"result"`
	Err        string      `json:"error,omitempty"`
}

// Hook is called after every run, before the controller becomes idle.
// Hooks must not call Start or Generate.
type Hook func(*RunSession)

type Options struct {
	Layout    array.Layout
	Range     array.Range
	Sleeper   pacer.Sleeper
	Rand      *rand.Rand
	FoundHold time.Duration
	Delay     time.Duration
	Controls  Controls
	Logger    *logrus.Logger
}

type Controller struct {
	// gen orders array replacement with its redraw. Taken before mu.
	gen sync.Mutex
	mu  sync.Mutex

	arr    *array.Model
	sorted bool
	layout array.Layout
	rng    *rand.Rand
	delay  time.Duration

	render    algo.Renderer
	mirror    *frame.Buffer
	sleeper   pacer.Sleeper
	controls  Controls
	foundHold time.Duration
	valRange  array.Range
	log       *logrus.Logger

	observers []algo.Observer
	hooks     []Hook

	active *RunSession
	flag   *pacer.Flag
	pace   *pacer.Pacer
	last   *RunSession
}

// New builds an idle controller with an empty array. render may be nil.
func New(render algo.Renderer, opts Options) *Controller {
	if opts.Sleeper == nil {
		opts.Sleeper = pacer.RealSleeper{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Range == (array.Range{}) {
		opts.Range = array.DefaultRange()
	}
	if opts.Delay <= 0 {
		opts.Delay = pacer.DelayForSpeed((pacer.MinSpeed + pacer.MaxSpeed) / 2)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Controller{
		arr:       array.FromValues(nil),
		layout:    opts.Layout,
		rng:       opts.Rand,
		delay:     opts.Delay,
		render:    render,
		mirror:    frame.NewBuffer(nil),
		sleeper:   opts.Sleeper,
		controls:  opts.Controls,
		foundHold: opts.FoundHold,
		valRange:  opts.Range,
		log:       opts.Logger,
		observers: make([]algo.Observer, 0),
	}
}

func (c *Controller) AddObserver(o algo.Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

func (c *Controller) OnFinish(h Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, h)
}

// SetControls attaches the control surface after construction; the TUI
// builds its program after the controller.
func (c *Controller) SetControls(ctl Controls) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controls = ctl
}

// Generate replaces the array with size fresh values.
func (c *Controller) Generate(size int, sorted bool) error {
	c.gen.Lock()
	defer c.gen.Unlock()

	c.mu.Lock()
	if c.active != nil {
		c.mu.Unlock()
		return ErrConcurrentRun
	}
	arr, err := array.Generate(c.rng, size, array.Options{
		MaxSize: c.layout.MaxSize(),
		Sorted:  sorted,
		Range:   c.valRange,
	})
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.arr, c.sorted = arr, sorted
	c.mu.Unlock()

	c.redraw(arr.Values())
	c.log.WithFields(logrus.Fields{"size": size, "sorted": sorted}).Debug("array generated")
	return nil
}

// Load replaces the array with explicit values. It bypasses the layout
// maximum; scenarios and tests use it.
func (c *Controller) Load(values []int) error {
	c.gen.Lock()
	defer c.gen.Unlock()

	c.mu.Lock()
	if c.active != nil {
		c.mu.Unlock()
		return ErrConcurrentRun
	}
	c.arr = array.FromValues(values)
	c.sorted = c.arr.IsSorted()
	c.mu.Unlock()

	c.redraw(values)
	return nil
}

// SetLayout changes the layout. When the current array no longer fits the
// new maximum and no run is active, it is regenerated at the maximum size and
// SetLayout reports true.
func (c *Controller) SetLayout(l array.Layout) (bool, error) {
	c.mu.Lock()
	c.layout = l
	shrink := c.active == nil && c.arr.Len() > l.MaxSize()
	sorted := c.sorted
	c.mu.Unlock()

	if !shrink {
		return false, nil
	}
	if err := c.Generate(l.MaxSize(), sorted); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Controller) Layout() array.Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout
}

// Start runs one algorithm to completion or cancellation in the calling
// goroutine.
func (c *Controller) Start(p Params) (*RunSession, error) {
	run, err := c.Begin(p)
	if err != nil {
		return nil, err
	}
	return run.Execute()
}

// Run is a reserved session. The controller refuses other runs and
// regenerations until Execute returns.
type Run struct {
	c        *Controller
	sess     *RunSession
	arr      *array.Model
	target   int
	flag     *pacer.Flag
	pace     *pacer.Pacer
	render   algo.Renderer
	observer []algo.Observer
	controls Controls
	once     sync.Once
}

// Session returns a copy of the reserved session.
func (r *Run) Session() *RunSession {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	return r.sess.copy()
}

// Begin validates p and reserves the controller. Exactly one caller wins
// when several race. The returned Run must be executed.
func (c *Controller) Begin(p Params) (*Run, error) {
	c.gen.Lock()
	defer c.gen.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return nil, ErrConcurrentRun
	}
	if p.Delay == 0 {
		p.Delay = c.delay
	}
	if !p.Algorithm.Valid() {
		return nil, algo.ErrUnknownAlgorithm
	}

	target := 0
	if p.Algorithm.IsSearch() {
		if p.Target == nil {
			if c.arr.Len() == 0 {
				return nil, ErrNoValues
			}
			v, _ := c.arr.Get(c.rng.Intn(c.arr.Len()))
			p.Target = &v
		}
		target = *p.Target
	}

	flag := &pacer.Flag{}
	pace, err := pacer.New(p.Delay, flag, c.sleeper)
	if err != nil {
		return nil, err
	}

	sess := &RunSession{
		ID:        uuid.New().String()[:8],
		Params:    p,
		Status:    algo.StatusRunning,
		StartedAt: time.Now(),
		Initial:   c.arr.Values(),
	}
	c.active, c.flag, c.pace = sess, flag, pace
	return &Run{
		c:        c,
		sess:     sess,
		arr:      c.arr,
		target:   target,
		flag:     flag,
		pace:     pace,
		render:   algo.Multi(c.mirror, c.render),
		observer: append([]algo.Observer(nil), c.observers...),
		controls: c.controls,
	}, nil
}

// Execute runs the reserved session in the calling goroutine. Only the
// first call runs.
func (r *Run) Execute() (*RunSession, error) {
	var err error
	r.once.Do(func() { err = r.execute() })
	return r.sess, err
}

func (r *Run) execute() error {
	c, sess := r.c, r.sess
	if r.controls != nil {
		r.controls.SetInteractive(true)
	}
	algo.ClearHighlights(r.render, r.arr.Len())

	entry := c.log.WithFields(logrus.Fields{"session": sess.ID, "algorithm": sess.Params.Algorithm.String()})
	entry.WithField("size", r.arr.Len()).Info("run started")

	runner := algo.New(r.arr, r.render, r.pace)
	for _, o := range r.observer {
		runner.AddObserver(o)
	}
	res, runErr := runner.Run(sess.Params.Algorithm, r.target)

	if runErr == nil && res.Found() && c.foundHold > 0 && !r.flag.Cancelled() {
		c.sleeper.Sleep(c.foundHold)
	}

	c.mu.Lock()
	sess.Result = res
	sess.Status = res.Status
	sess.FinishedAt = time.Now()
	sess.Final = r.arr.Values()
	if runErr != nil {
		sess.Status = algo.StatusCancelled
		sess.Err = runErr.Error()
	}
	hooks := append([]Hook(nil), c.hooks...)
	c.mu.Unlock()

	fields := logrus.Fields{
		"status":      sess.Status.String(),
		"comparisons": res.Stats.Comparisons,
		"swaps":       res.Stats.Swaps,
	}
	if sess.Params.Algorithm.IsSearch() {
		fields["index"] = res.Index
	}
	if runErr != nil {
		entry.WithFields(fields).WithError(runErr).Error("run failed")
	} else {
		entry.WithFields(fields).Info("run finished")
	}

	for _, h := range hooks {
		h(sess)
	}

	c.mu.Lock()
	c.active, c.flag, c.pace = nil, nil, nil
	c.last = sess
	c.mu.Unlock()

	if r.controls != nil {
		r.controls.SetInteractive(false)
	}
	return runErr
}

// RequestStop asks the active run to stop at its next checkpoint. It is a
// no-op when idle.
func (c *Controller) RequestStop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flag == nil {
		return
	}
	if !c.flag.Cancelled() {
		c.log.WithField("session", c.active.ID).Info("stop requested")
	}
	c.flag.Cancel()
}

// SetDelay changes the pace of the active run and of later runs.
func (c *Controller) SetDelay(d time.Duration) error {
	if d <= 0 {
		return pacer.ErrInvalidDelay
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delay = d
	if c.pace != nil {
		return c.pace.SetDelay(d)
	}
	return nil
}

func (c *Controller) Delay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delay
}

func (c *Controller) Status() algo.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.active != nil:
		return algo.StatusRunning
	case c.last != nil:
		return c.last.Status
	}
	return algo.StatusIdle
}

func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// Active returns a copy of the running session, or nil.
func (c *Controller) Active() *RunSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active.copy()
}

// Last returns a copy of the most recently finished session, or nil.
func (c *Controller) Last() *RunSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last.copy()
}

// Array returns the values as last rendered. It is safe to call during a
// run.
func (c *Controller) Array() []int {
	return c.mirror.Snapshot().Values
}

// Frame returns the rendered values and roles.
func (c *Controller) Frame() frame.Frame {
	return c.mirror.Snapshot()
}

func (c *Controller) redraw(values []int) {
	algo.Redraw(c.mirror, values)
	if c.render != nil {
		algo.Redraw(c.render, values)
	}
}

func (s *RunSession) copy() *RunSession {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}
