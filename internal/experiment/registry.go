package experiment

import (
	"fmt"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/array"
	"github.com/san-kum/sortviz/internal/metrics"
)

// Descriptor is what the registry knows about an algorithm.
type Descriptor struct {
	Algorithm  algo.Algorithm
	Name       string
	Kind       string
	Complexity string
	Stable     bool
	InPlace    bool
}

type Registry struct {
	algorithms map[string]Descriptor
	layouts    map[string]array.Layout
}

func NewRegistry() *Registry {
	r := &Registry{
		algorithms: make(map[string]Descriptor),
		layouts:    make(map[string]array.Layout),
	}

	r.add(algo.LinearSearch, false, true)
	r.add(algo.BinarySearch, false, true)
	r.add(algo.Bubble, true, true)
	r.add(algo.Insertion, true, true)
	r.add(algo.Merge, true, false)
	r.add(algo.Quick, false, true)

	for _, l := range []array.Layout{array.Expanded, array.Compact} {
		r.layouts[l.String()] = l
	}
	return r
}

func (r *Registry) add(a algo.Algorithm, stable, inPlace bool) {
	kind := "sort"
	if a.IsSearch() {
		kind = "search"
	}
	r.algorithms[a.String()] = Descriptor{
		Algorithm:  a,
		Name:       a.String(),
		Kind:       kind,
		Complexity: a.Describe(),
		Stable:     stable,
		InPlace:    inPlace,
	}
}

// GetAlgorithm accepts any name algo.Parse accepts.
func (r *Registry) GetAlgorithm(name string) (Descriptor, error) {
	a, err := algo.Parse(name)
	if err != nil {
		return Descriptor{}, err
	}
	d, ok := r.algorithms[a.String()]
	if !ok {
		return Descriptor{}, fmt.Errorf("unknown algorithm: %s", name)
	}
	return d, nil
}

func (r *Registry) GetLayout(name string) (array.Layout, error) {
	l, ok := r.layouts[name]
	if !ok {
		return array.Expanded, fmt.Errorf("unknown layout: %s", name)
	}
	return l, nil
}

// ListAlgorithms returns descriptors in algo.All order.
func (r *Registry) ListAlgorithms() []Descriptor {
	out := make([]Descriptor, 0, len(r.algorithms))
	for _, a := range algo.All() {
		if d, ok := r.algorithms[a.String()]; ok {
			out = append(out, d)
		}
	}
	return out
}

func (r *Registry) ListLayouts() []array.Layout {
	return []array.Layout{array.Expanded, array.Compact}
}

func (r *Registry) DefaultMetrics() metrics.Set {
	return metrics.Default()
}
