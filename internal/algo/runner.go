// Package algo runs one sorting or searching algorithm as a sequence of
// paced, renderable steps over an array.Model.
package algo

import (
	"errors"
	"fmt"

	"github.com/san-kum/sortviz/internal/pacer"
)

// Array is the storage a Runner mutates. *array.Model implements it.
type Array interface {
	Len() int
	Get(i int) (int, error)
	Set(i, v int) error
	Swap(i, j int) error
	IsSorted() bool
	SortAscending()
	Values() []int
}

// Runner drives a single algorithm. It is not safe for concurrent runs; the
// session controller guarantees one run at a time.
type Runner struct {
	arr       Array
	render    Renderer
	pace      *pacer.Pacer
	observers []Observer

	stats Stats
	seq   int
}

func New(arr Array, render Renderer, pace *pacer.Pacer) *Runner {
	if render == nil {
		render = NopRenderer{}
	}
	return &Runner{
		arr:       arr,
		render:    render,
		pace:      pace,
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run executes alg to completion or cancellation. Cancellation is reported
// through Result.Status, not as an error. An array fault also ends the run
// cancelled and is returned wrapped. target is ignored by sorts.
func (r *Runner) Run(alg Algorithm, target int) (Result, error) {
	if !alg.Valid() {
		return Result{Algorithm: alg, Index: -1}, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(alg))
	}
	if r.pace == nil {
		return Result{Algorithm: alg, Index: -1}, errors.New("algo: runner has no pacer")
	}

	r.stats = Stats{}
	r.seq = 0
	res := Result{Algorithm: alg, Index: -1, Status: StatusRunning}
	if alg.IsSearch() {
		res.Target = target
	}

	idx := -1
	var runErr error
	switch alg {
	case LinearSearch:
		idx, runErr = r.linearSearch(target)
	case BinarySearch:
		idx, runErr = r.binarySearch(target)
	case Bubble:
		runErr = r.bubbleSort()
	case Insertion:
		runErr = r.insertionSort()
	case Merge:
		runErr = r.mergeSort(0, r.arr.Len()-1)
	case Quick:
		runErr = r.quickSort(0, r.arr.Len()-1)
	}

	res.Stats = r.stats
	var err error
	switch {
	case errors.Is(runErr, pacer.ErrCancelled):
		res.Status = StatusCancelled
	case runErr != nil:
		res.Status = StatusCancelled
		err = fmt.Errorf("algo: %s: %w", alg, runErr)
	default:
		res.Status = StatusCompleted
		res.Index = idx
	}

	if f, ok := r.render.(Finisher); ok {
		f.Finish(res)
	}
	return res, err
}

func (r *Runner) emit(kind EventKind, value int, indices ...int) {
	r.seq++
	ev := Event{Seq: r.seq, Kind: kind, Indices: append([]int(nil), indices...), Value: value}
	for _, o := range r.observers {
		o.OnStep(ev)
	}
}

func (r *Runner) get(i int) (int, error) {
	return r.arr.Get(i)
}

// pair reads two cells.
func (r *Runner) pair(i, j int) (int, int, error) {
	a, err := r.arr.Get(i)
	if err != nil {
		return 0, 0, err
	}
	b, err := r.arr.Get(j)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (r *Runner) compare(indices ...int) {
	r.stats.Comparisons++
	r.emit(EventCompare, 0, indices...)
}

func (r *Runner) swap(i, j int) error {
	if err := r.arr.Swap(i, j); err != nil {
		return err
	}
	a, b, err := r.pair(i, j)
	if err != nil {
		return err
	}
	r.stats.Swaps++
	r.render.Render(i, a)
	r.render.Render(j, b)
	r.emit(EventSwap, 0, i, j)
	return nil
}

func (r *Runner) write(k, v int) error {
	if err := r.arr.Set(k, v); err != nil {
		return err
	}
	r.stats.Writes++
	r.render.Render(k, v)
	r.emit(EventWrite, v, k)
	return nil
}

// found marks index i, holding v, as the search result.
func (r *Runner) found(i, v int) {
	r.render.Highlight([]int{i}, RoleFound, true)
	r.emit(EventFound, v, i)
}

func (r *Runner) highlight(role Role, on bool, indices ...int) {
	r.render.Highlight(indices, role, on)
	if !on {
		return
	}
	switch role {
	case RolePivot:
		r.emit(EventPivot, 0, indices...)
	case RoleMid:
		r.emit(EventMid, 0, indices...)
	case RoleSorted:
		r.emit(EventSettled, 0, indices...)
	}
}

func (r *Runner) settle(i int) {
	r.highlight(RoleSorted, true, i)
}

func (r *Runner) wait() error {
	r.stats.Steps++
	return r.pace.Wait()
}

func (r *Runner) checkpoint() error {
	return r.pace.Checkpoint()
}

// RenderAll pushes every value of arr to the renderer.
func RenderAll(render Renderer, arr Array) {
	for i, v := range arr.Values() {
		render.Render(i, v)
	}
}

// ClearHighlights removes every role from the first n bars.
func ClearHighlights(render Renderer, n int) {
	if n <= 0 {
		return
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	for _, role := range Roles() {
		render.Highlight(all, role, false)
	}
}
