package session_test

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/array"
	"github.com/san-kum/sortviz/internal/frame"
	"github.com/san-kum/sortviz/internal/pacer"
	"github.com/san-kum/sortviz/internal/session"
)

// gatedSleeper blocks every sleep until release is closed and records the
// requested durations.
type gatedSleeper struct {
	entered chan struct{}
	release chan struct{}

	mu        sync.Mutex
	durations []time.Duration
}

func newGatedSleeper() *gatedSleeper {
	return &gatedSleeper{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *gatedSleeper) Sleep(d time.Duration) {
	g.mu.Lock()
	g.durations = append(g.durations, d)
	g.mu.Unlock()
	select {
	case g.entered <- struct{}{}:
	default:
	}
	<-g.release
}

func (g *gatedSleeper) recorded() []time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]time.Duration(nil), g.durations...)
}

type recordingSleeper struct {
	mu        sync.Mutex
	durations []time.Duration
}

func (r *recordingSleeper) Sleep(d time.Duration) {
	r.mu.Lock()
	r.durations = append(r.durations, d)
	r.mu.Unlock()
}

type controlLog struct {
	mu     sync.Mutex
	states []bool
}

func (c *controlLog) SetInteractive(running bool) {
	c.mu.Lock()
	c.states = append(c.states, running)
	c.mu.Unlock()
}

func (c *controlLog) recorded() []bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]bool(nil), c.states...)
}

func intPtr(v int) *int { return &v }

var _ = Describe("Controller", func() {
	var (
		screen   *frame.Buffer
		controls *controlLog
		ctl      *session.Controller
	)

	newController := func(sleeper pacer.Sleeper, hold time.Duration) *session.Controller {
		return session.New(screen, session.Options{
			Layout:    array.Expanded,
			Sleeper:   sleeper,
			Rand:      rand.New(rand.NewSource(7)),
			FoundHold: hold,
			Delay:     10 * time.Millisecond,
			Controls:  controls,
		})
	}

	BeforeEach(func() {
		screen = frame.NewBuffer(nil)
		controls = &controlLog{}
		ctl = newController(pacer.Instant{}, 0)
	})

	Describe("Generate", func() {
		It("fills the array and redraws the renderer", func() {
			Expect(ctl.Generate(12, true)).To(Succeed())

			values := ctl.Array()
			Expect(values).To(HaveLen(12))
			Expect(sort.IntsAreSorted(values)).To(BeTrue())
			Expect(screen.Snapshot().Values).To(Equal(values))
			for _, v := range values {
				Expect(v).To(BeNumerically(">=", array.DefaultMin))
				Expect(v).To(BeNumerically("<=", array.DefaultMax))
			}
		})

		It("rejects sizes above the layout maximum", func() {
			err := ctl.Generate(array.Expanded.MaxSize()+1, false)
			Expect(err).To(MatchError(array.ErrInvalidSize))
		})

		It("regenerates when the layout maximum shrinks", func() {
			Expect(ctl.Generate(40, true)).To(Succeed())

			changed, err := ctl.SetLayout(array.Compact)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())
			Expect(ctl.Array()).To(HaveLen(array.Compact.MaxSize()))
			Expect(sort.IntsAreSorted(ctl.Array())).To(BeTrue())

			changed, err = ctl.SetLayout(array.Expanded)
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeFalse())
		})

		It("keeps the rendered array in step with the model under concurrent calls", func() {
			for round := 0; round < 500; round++ {
				var wg sync.WaitGroup
				wg.Add(2)
				go func() {
					defer wg.Done()
					_ = ctl.Generate(5, false)
				}()
				go func() {
					defer wg.Done()
					_ = ctl.Generate(12, true)
				}()
				wg.Wait()

				run, err := ctl.Begin(session.Params{Algorithm: algo.Bubble})
				Expect(err).NotTo(HaveOccurred())
				model := run.Session().Initial
				Expect(ctl.Array()).To(Equal(model), "round %d", round)
				Expect(screen.Snapshot().Values).To(Equal(model), "round %d", round)
				_, err = run.Execute()
				Expect(err).NotTo(HaveOccurred())
			}
		})
	})

	Describe("Start", func() {
		It("sorts, reports completion and toggles the controls", func() {
			Expect(ctl.Load([]int{5, 3, 8, 1})).To(Succeed())

			var hooked *session.RunSession
			ctl.OnFinish(func(s *session.RunSession) { hooked = s })

			sess, err := ctl.Start(session.Params{Algorithm: algo.Bubble})
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.Status).To(Equal(algo.StatusCompleted))
			Expect(sess.ID).To(HaveLen(8))
			Expect(sess.Initial).To(Equal([]int{5, 3, 8, 1}))
			Expect(sess.Final).To(Equal([]int{1, 3, 5, 8}))
			Expect(ctl.Array()).To(Equal([]int{1, 3, 5, 8}))
			Expect(hooked).To(Equal(sess))
			Expect(controls.recorded()).To(Equal([]bool{true, false}))
			Expect(ctl.Status()).To(Equal(algo.StatusCompleted))
			Expect(ctl.Last().ID).To(Equal(sess.ID))
			Expect(ctl.Active()).To(BeNil())
		})

		It("picks an existing value when no target is given", func() {
			Expect(ctl.Generate(15, false)).To(Succeed())
			values := ctl.Array()

			sess, err := ctl.Start(session.Params{Algorithm: algo.LinearSearch})
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.Params.Target).NotTo(BeNil())
			Expect(values).To(ContainElement(*sess.Params.Target))
			Expect(sess.Result.Found()).To(BeTrue())
			Expect(values[sess.Result.Index]).To(Equal(*sess.Params.Target))
		})

		It("reports a missing target as -1", func() {
			Expect(ctl.Load([]int{1, 2, 3})).To(Succeed())
			sess, err := ctl.Start(session.Params{Algorithm: algo.BinarySearch, Target: intPtr(9)})
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.Result.Index).To(Equal(-1))
			Expect(sess.Status).To(Equal(algo.StatusCompleted))
		})

		It("refuses a search over an empty array without a target", func() {
			_, err := ctl.Start(session.Params{Algorithm: algo.LinearSearch})
			Expect(err).To(MatchError(session.ErrNoValues))
		})

		It("rejects a negative delay", func() {
			Expect(ctl.Load([]int{2, 1})).To(Succeed())
			_, err := ctl.Start(session.Params{Algorithm: algo.Bubble, Delay: -time.Millisecond})
			Expect(err).To(MatchError(pacer.ErrInvalidDelay))
			Expect(ctl.Running()).To(BeFalse())
		})

		It("holds a found bar before returning", func() {
			sleeper := &recordingSleeper{}
			ctl = newController(sleeper, 800*time.Millisecond)
			Expect(ctl.Load([]int{9, 2, 9, 4})).To(Succeed())

			sess, err := ctl.Start(session.Params{Algorithm: algo.LinearSearch, Target: intPtr(9)})
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.Result.Index).To(Equal(0))
			Expect(sleeper.durations).NotTo(BeEmpty())
			Expect(sleeper.durations[len(sleeper.durations)-1]).To(Equal(800 * time.Millisecond))
			Expect(screen.Snapshot().Roles[0].Has(algo.RoleFound)).To(BeTrue())
		})

		It("clears stale highlights before a new run", func() {
			Expect(ctl.Load([]int{9, 2, 9, 4})).To(Succeed())
			_, err := ctl.Start(session.Params{Algorithm: algo.LinearSearch, Target: intPtr(4)})
			Expect(err).NotTo(HaveOccurred())
			Expect(screen.Snapshot().Marked(algo.RoleFound)).To(Equal([]int{3}))

			_, err = ctl.Start(session.Params{Algorithm: algo.LinearSearch, Target: intPtr(2)})
			Expect(err).NotTo(HaveOccurred())
			Expect(screen.Snapshot().Marked(algo.RoleFound)).To(Equal([]int{1}))
		})
	})

	Describe("while a run is active", func() {
		var (
			gate *gatedSleeper
			done chan *session.RunSession
		)

		BeforeEach(func() {
			gate = newGatedSleeper()
			ctl = newController(gate, 0)
			Expect(ctl.Load([]int{6, 5, 4, 3, 2, 1})).To(Succeed())

			done = make(chan *session.RunSession, 1)
			go func() {
				defer GinkgoRecover()
				sess, err := ctl.Start(session.Params{Algorithm: algo.Bubble})
				Expect(err).NotTo(HaveOccurred())
				done <- sess
			}()
			Eventually(gate.entered).Should(Receive())
		})

		AfterEach(func() {
			select {
			case <-gate.release:
			default:
				close(gate.release)
			}
		})

		It("refuses a second run and a regeneration", func() {
			Expect(ctl.Running()).To(BeTrue())
			Expect(ctl.Status()).To(Equal(algo.StatusRunning))
			Expect(ctl.Active()).NotTo(BeNil())

			_, err := ctl.Start(session.Params{Algorithm: algo.Quick})
			Expect(err).To(MatchError(session.ErrConcurrentRun))
			Expect(ctl.Generate(5, false)).To(MatchError(session.ErrConcurrentRun))
			Expect(ctl.Load([]int{1})).To(MatchError(session.ErrConcurrentRun))

			ctl.RequestStop()
			close(gate.release)
			Eventually(done).Should(Receive())
		})

		It("stops at the next checkpoint without further mutation", func() {
			before := ctl.Array()
			ctl.RequestStop()
			ctl.RequestStop()
			close(gate.release)

			var sess *session.RunSession
			Eventually(done).Should(Receive(&sess))
			Expect(sess.Status).To(Equal(algo.StatusCancelled))
			Expect(sess.Final).To(Equal(before))
			Expect(ctl.Array()).To(Equal(before))
			Expect(gate.recorded()).To(HaveLen(1))
			Expect(controls.recorded()).To(Equal([]bool{true, false}))
		})

		It("applies a delay change to the remaining steps", func() {
			Expect(ctl.SetDelay(3 * time.Millisecond)).To(Succeed())
			close(gate.release)

			var sess *session.RunSession
			Eventually(done).Should(Receive(&sess))
			Expect(sess.Status).To(Equal(algo.StatusCompleted))

			durations := gate.recorded()
			Expect(durations[0]).To(Equal(10 * time.Millisecond))
			for _, d := range durations[1:] {
				Expect(d).To(Equal(3 * time.Millisecond))
			}
			Expect(ctl.Delay()).To(Equal(3 * time.Millisecond))
		})
	})

	It("reserves the controller on Begin", func() {
		Expect(ctl.Load([]int{3, 1, 2})).To(Succeed())

		run, err := ctl.Begin(session.Params{Algorithm: algo.Insertion})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Session().Status).To(Equal(algo.StatusRunning))
		Expect(ctl.Running()).To(BeTrue())

		_, err = ctl.Begin(session.Params{Algorithm: algo.Merge})
		Expect(err).To(MatchError(session.ErrConcurrentRun))

		sess, err := run.Execute()
		Expect(err).NotTo(HaveOccurred())
		Expect(sess.Final).To(Equal([]int{1, 2, 3}))
		Expect(ctl.Running()).To(BeFalse())

		again, err := run.Execute()
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(BeIdenticalTo(sess))
		Expect(controls.recorded()).To(Equal([]bool{true, false}))
	})

	It("ignores a stop request when idle", func() {
		ctl.RequestStop()
		Expect(ctl.Status()).To(Equal(algo.StatusIdle))
		Expect(ctl.SetDelay(0)).To(MatchError(pacer.ErrInvalidDelay))
	})
})
