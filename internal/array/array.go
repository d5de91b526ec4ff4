// Package array holds the logical sequence of values an algorithm runs over.
// Every read and write made by the algorithm runner goes through a Model;
// renderers never touch it directly.
package array

import (
	"math/rand"
	"sort"
)

const (
	DefaultMin = 10
	DefaultMax = 320
)

// Range is an inclusive bound on generated values.
type Range struct {
	Min int
	Max int
}

func DefaultRange() Range {
	return Range{Min: DefaultMin, Max: DefaultMax}
}

func (r Range) Valid() bool {
	return r.Min <= r.Max
}

func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Options controls Generate.
type Options struct {
	MaxSize int
	Sorted  bool
	Range   Range
}

// Model is the logical array. Index i always maps to the i-th rendered bar.
type Model struct {
	values []int
}

// Generate draws size values independently from opts.Range, sorting them
// ascending when opts.Sorted is set. A zero MaxSize defaults to the
// expanded layout maximum.
func Generate(rng *rand.Rand, size int, opts Options) (*Model, error) {
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = Expanded.MaxSize()
	}
	if size < 1 || size > maxSize {
		return nil, &SizeError{Size: size, Max: maxSize}
	}
	r := opts.Range
	if r == (Range{}) {
		r = DefaultRange()
	}
	if !r.Valid() {
		return nil, ErrInvalidRange
	}

	values := make([]int, size)
	span := r.Max - r.Min + 1
	for i := range values {
		values[i] = r.Min + rng.Intn(span)
	}
	if opts.Sorted {
		sort.Ints(values)
	}
	return &Model{values: values}, nil
}

// FromValues builds a model over a copy of values.
func FromValues(values []int) *Model {
	c := make([]int, len(values))
	copy(c, values)
	return &Model{values: c}
}

func (m *Model) Len() int { return len(m.values) }

func (m *Model) Get(i int) (int, error) {
	if err := m.check("get", i); err != nil {
		return 0, err
	}
	return m.values[i], nil
}

func (m *Model) Set(i, v int) error {
	if err := m.check("set", i); err != nil {
		return err
	}
	m.values[i] = v
	return nil
}

func (m *Model) Swap(i, j int) error {
	if err := m.check("swap", i); err != nil {
		return err
	}
	if err := m.check("swap", j); err != nil {
		return err
	}
	m.values[i], m.values[j] = m.values[j], m.values[i]
	return nil
}

// SortAscending sorts in place without animation. Binary search runs it as
// its precondition step.
func (m *Model) SortAscending() {
	sort.Ints(m.values)
}

// IsSorted reports whether the values are non-decreasing.
func (m *Model) IsSorted() bool {
	return sort.IntsAreSorted(m.values)
}

// Values returns a copy of the current sequence.
func (m *Model) Values() []int {
	c := make([]int, len(m.values))
	copy(c, m.values)
	return c
}

func (m *Model) Clone() *Model {
	return FromValues(m.values)
}

// Max returns the largest value, or 0 for an empty model.
func (m *Model) Max() int {
	maxVal := 0
	for _, v := range m.values {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

func (m *Model) check(op string, i int) error {
	if i < 0 || i >= len(m.values) {
		return &IndexError{Op: op, Index: i, Size: len(m.values)}
	}
	return nil
}
