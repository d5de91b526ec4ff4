package experiment

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/config"
)

func TestRunHeadless(t *testing.T) {
	e := New(Config{Algorithm: algo.Merge, Size: 25, Seed: 11})
	out, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Result.Status != algo.StatusCompleted {
		t.Errorf("expected completed, got %s", out.Result.Status)
	}
	if len(out.Initial) != 25 || !sort.IntsAreSorted(out.Final) {
		t.Errorf("unexpected final %v", out.Final)
	}
	if int(out.Metrics["writes"]) != out.Result.Stats.Writes || len(out.Trace) == 0 {
		t.Errorf("metrics and trace not collected: %+v", out.Metrics)
	}
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	run := func() *Outcome {
		out, err := New(Config{Algorithm: algo.LinearSearch, Size: 20, Seed: 5}).Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return out
	}
	a, b := run(), run()
	if a.Result.Target != b.Result.Target || a.Result.Index != b.Result.Index {
		t.Errorf("same seed gave different runs: %+v vs %+v", a.Result, b.Result)
	}
	if !a.Result.Found() {
		t.Error("a drawn target must be found")
	}
}

type cancelOnFirstSleep struct{ cancel context.CancelFunc }

func (c cancelOnFirstSleep) Sleep(time.Duration) {
	c.cancel()
	time.Sleep(50 * time.Millisecond)
}

func TestRunCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := New(Config{Algorithm: algo.Bubble, Values: []int{5, 4, 3, 2, 1}})
	e.Setup(nil, cancelOnFirstSleep{cancel: cancel}, nil, nil)
	out, err := e.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Result.Status != algo.StatusCancelled {
		t.Errorf("expected cancelled, got %s", out.Result.Status)
	}
	if len(out.Final) != 5 || out.Final[0] != 4 {
		t.Errorf("expected a single swap before stopping, got %v", out.Final)
	}
}

func TestCompareSharesInput(t *testing.T) {
	outs, err := Compare(context.Background(), Config{Size: 30, Seed: 3}, algo.All())
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(outs) != len(algo.All()) {
		t.Fatalf("expected %d outcomes, got %d", len(algo.All()), len(outs))
	}
	for _, o := range outs[1:] {
		if !equal(o.Initial, outs[0].Initial) {
			t.Fatalf("inputs differ between algorithms")
		}
	}
	if outs[0].Result.Target != outs[1].Result.Target {
		t.Error("searches should share a target")
	}
	for _, o := range outs[2:] {
		if !sort.IntsAreSorted(o.Final) {
			t.Errorf("%s did not sort", o.Result.Algorithm)
		}
	}
}

func TestCompareRequiresAlgorithms(t *testing.T) {
	if _, err := Compare(context.Background(), Config{Size: 3}, nil); err == nil {
		t.Error("expected error")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.GetPreset("search-sorted")
	c, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("from config: %v", err)
	}
	if c.Algorithm != algo.BinarySearch || !c.Sorted || c.Size != 35 {
		t.Errorf("unexpected experiment config %+v", c)
	}

	cfg.Algorithm = "nope"
	if _, err := FromConfig(cfg); err == nil {
		t.Error("expected invalid config error")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	d, err := r.GetAlgorithm("merge-sort")
	if err != nil || !d.Stable || d.InPlace || d.Kind != "sort" {
		t.Errorf("unexpected merge descriptor %+v, %v", d, err)
	}
	if d, _ := r.GetAlgorithm("binary"); d.Kind != "search" {
		t.Errorf("expected search kind, got %s", d.Kind)
	}
	if _, err := r.GetAlgorithm("bogo"); err == nil {
		t.Error("expected unknown algorithm error")
	}
	if got := r.ListAlgorithms(); len(got) != 6 || got[0].Name != "linear" {
		t.Errorf("unexpected listing %+v", got)
	}
	if _, err := r.GetLayout("compact"); err != nil {
		t.Errorf("compact layout: %v", err)
	}
	if _, err := r.GetLayout("tall"); err == nil {
		t.Error("expected unknown layout error")
	}
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEnsembleSeedsConsecutively(t *testing.T) {
	outs, err := NewEnsemble(Config{Algorithm: algo.Quick, Size: 20}, 4, 100).Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	if len(outs) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(outs))
	}
	for i, o := range outs {
		single, err := New(Config{Algorithm: algo.Quick, Size: 20, Seed: 100 + int64(i)}).Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !equal(o.Initial, single.Initial) {
			t.Errorf("run %d: ensemble input differs from seed %d", i, 100+i)
		}
		if !sort.IntsAreSorted(o.Final) {
			t.Errorf("run %d not sorted", i)
		}
	}
}
