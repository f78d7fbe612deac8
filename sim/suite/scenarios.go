package suite

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/inference-sim/resampling/sim"
	"github.com/inference-sim/resampling/sim/dist"
)

// Built-in scenario labels.
const (
	ScenarioUniformToGaussian      = "UniformToGaussian"
	ScenarioGaussianToXSquared     = "GaussianToXSquared"
	ScenarioUniformToGaussianFail  = "UniformToGaussianFail"
	ScenarioUniformToGaussianFail2 = "UniformToGaussianFail2"
)

// DefaultOutputDir is where the built-in suite writes its CSV files.
const DefaultOutputDir = "out"

func uniform(lo, hi float64) dist.DistSpec {
	return dist.DistSpec{Type: dist.TypeUniform, Params: map[string]float64{"min": lo, "max": hi}}
}

func gaussian(sigma float64) dist.DistSpec {
	return dist.DistSpec{Type: dist.TypeGaussian, Params: map[string]float64{"sigma": sigma}}
}

// scenarios holds the reference experiments with a short description of what
// each one demonstrates.
var scenarios = []struct {
	spec        ExperimentSpec
	description string
}{
	{ExperimentSpec{Label: ScenarioUniformToGaussian, Source: uniform(-1, 1), Target: gaussian(0.1),
		Population: 100000, Trials: 10000},
		"wide uniform source reshaped into a tight Gaussian; converges"},
	{ExperimentSpec{Label: ScenarioGaussianToXSquared, Source: gaussian(1), Target: dist.DistSpec{Type: dist.TypeXSquared},
		Population: 100000, Trials: 10000},
		"unit Gaussian reshaped into 3x^2 on [0,1]; converges"},
	{ExperimentSpec{Label: ScenarioUniformToGaussianFail, Source: uniform(-0.1, 0.3), Target: gaussian(0.1),
		Population: 100000, Trials: 10000},
		"source support misses the target's left tail; cannot converge"},
	{ExperimentSpec{Label: ScenarioUniformToGaussianFail2, Source: uniform(-1, 1), Target: gaussian(0.1),
		Population: 500, Trials: 10000},
		"population too small to represent the target; fits poorly"},
}

// DefaultSuite returns the four reference experiments with the deterministic seed.
func DefaultSuite() *Suite {
	seed := sim.DeterministicSeed
	s := &Suite{
		Seed:          &seed,
		Deterministic: true,
		Buckets:       sim.DefaultBuckets,
		Workers:       1,
		OutputDir:     DefaultOutputDir,
		Alpha:         sim.DefaultAlpha,
		Tolerance:     sim.DefaultTolerance,
		ZeroDensity:   string(sim.ZeroDensitySkip),
	}
	for _, sc := range scenarios {
		s.Experiments = append(s.Experiments, sc.spec)
	}
	return s
}

// Lookup returns the built-in scenario with the given label.
func Lookup(label string) (ExperimentSpec, error) {
	for _, sc := range scenarios {
		if sc.spec.Label == label {
			return sc.spec, nil
		}
	}
	return ExperimentSpec{}, errors.Errorf("unknown scenario %q; valid: %v", label, ScenarioNames())
}

// Describe returns the one-line description of a built-in scenario, or "" if unknown.
func Describe(label string) string {
	for _, sc := range scenarios {
		if sc.spec.Label == label {
			return sc.description
		}
	}
	return ""
}

// ScenarioNames returns the built-in scenario labels, sorted.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for _, sc := range scenarios {
		names = append(names, sc.spec.Label)
	}
	sort.Strings(names)
	return names
}
