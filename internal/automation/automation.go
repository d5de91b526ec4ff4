package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sortviz/internal/array"
	"github.com/san-kum/sortviz/internal/experiment"
)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Layout      string         `yaml:"layout"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Values, when given, replaces
// the generated array.
type ScenarioStep struct {
	Algorithm string `yaml:"algorithm"`
	Size      int    `yaml:"size"`
	Sorted    bool   `yaml:"sorted"`
	Target    *int   `yaml:"target"`
	Seed      int64  `yaml:"seed"`
	Values    []int  `yaml:"values"`
	SaveAs    string `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, errors.New("automation: scenario has no steps")
	}
	return &scenario, nil
}

// RunScenario executes all steps in order, writing progress to w.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, w io.Writer) ([]*experiment.Outcome, error) {
	layout := array.Expanded
	if scenario.Layout != "" {
		l, err := registry.GetLayout(scenario.Layout)
		if err != nil {
			return nil, err
		}
		layout = l
	}

	results := make([]*experiment.Outcome, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		fmt.Fprintf(w, "Running step %d/%d: %s\n", i+1, len(scenario.Steps), step.Algorithm)

		desc, err := registry.GetAlgorithm(step.Algorithm)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(experiment.Config{
			Algorithm: desc.Algorithm,
			Size:      step.Size,
			Sorted:    step.Sorted,
			Target:    step.Target,
			Seed:      step.Seed,
			Layout:    layout,
			Values:    step.Values,
		})
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// SizeSweep runs one algorithm over a range of array sizes.
type SizeSweep struct {
	Algorithm string
	MinSize   int
	MaxSize   int
	NumSteps  int
	Trials    int
	Sorted    bool
	Seed      int64
}

// SweepResult holds the mean counts for one size.
type SweepResult struct {
	Size            int
	MeanComparisons float64
	MeanSwaps       float64
	MeanWrites      float64
	MaxComparisons  int
}

// RunSweep executes a size sweep, writing progress to w.
func RunSweep(ctx context.Context, sweep *SizeSweep, registry *experiment.Registry, w io.Writer) ([]SweepResult, error) {
	desc, err := registry.GetAlgorithm(sweep.Algorithm)
	if err != nil {
		return nil, err
	}
	if sweep.MinSize < 1 || sweep.MaxSize < sweep.MinSize {
		return nil, fmt.Errorf("automation: invalid size range [%d,%d]", sweep.MinSize, sweep.MaxSize)
	}
	steps := sweep.NumSteps
	if steps < 2 || sweep.MaxSize == sweep.MinSize {
		steps = 1
	}
	trials := sweep.Trials
	if trials < 1 {
		trials = 1
	}

	results := make([]SweepResult, 0, steps)
	for i := 0; i < steps; i++ {
		size := sweep.MinSize
		if steps > 1 {
			size += (sweep.MaxSize - sweep.MinSize) * i / (steps - 1)
		}

		outs, err := experiment.NewEnsemble(experiment.Config{
			Algorithm: desc.Algorithm,
			Size:      size,
			Sorted:    sweep.Sorted,
		}, trials, sweep.Seed+int64(i*trials)).Run(ctx)
		if err != nil {
			return results, err
		}

		res := SweepResult{Size: size}
		for _, out := range outs {
			st := out.Result.Stats
			res.MeanComparisons += float64(st.Comparisons)
			res.MeanSwaps += float64(st.Swaps)
			res.MeanWrites += float64(st.Writes)
			if st.Comparisons > res.MaxComparisons {
				res.MaxComparisons = st.Comparisons
			}
		}
		res.MeanComparisons /= float64(trials)
		res.MeanSwaps /= float64(trials)
		res.MeanWrites /= float64(trials)
		results = append(results, res)

		fmt.Fprintf(w, "Sweep %d/%d: size=%d comparisons=%.1f\n", i+1, steps, size, res.MeanComparisons)
	}
	return results, nil
}
