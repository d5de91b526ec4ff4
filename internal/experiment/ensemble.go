package experiment

import (
	"context"
	"runtime"
	"sync"
)

// Ensemble runs one configuration several times with consecutive seeds.
// Every run owns its controller, so runs proceed in parallel.
type Ensemble struct {
	base      Config
	numRuns   int
	seedStart int64
}

func NewEnsemble(base Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: base, numRuns: numRuns, seedStart: seedStart}
}

// Run returns outcomes in seed order. The first error wins.
func (e *Ensemble) Run(ctx context.Context) ([]*Outcome, error) {
	results := make([]*Outcome, e.numRuns)
	errs := make([]error, e.numRuns)
	sem := make(chan struct{}, runtime.NumCPU())

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			cfg := e.base
			cfg.Seed = e.seedStart + int64(idx)
			results[idx], errs[idx] = New(cfg).Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
