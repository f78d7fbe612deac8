// Package suite describes sets of resampling experiments in YAML and ships
// the built-in reference scenarios.
package suite

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/resampling/sim"
	"github.com/inference-sim/resampling/sim/dist"
	"github.com/inference-sim/resampling/sim/trace"
)

// Suite is the top-level experiment-suite configuration. Zero values fall
// back to the sim defaults.
type Suite struct {
	Seed          *uint64          `yaml:"seed,omitempty"`
	Deterministic bool             `yaml:"deterministic"`
	Buckets       int              `yaml:"buckets,omitempty"`
	Workers       int              `yaml:"workers,omitempty"`
	OutputDir     string           `yaml:"output_dir,omitempty"`
	Alpha         float64          `yaml:"alpha,omitempty"`
	Tolerance     float64          `yaml:"tolerance,omitempty"`
	ZeroDensity   string           `yaml:"zero_density,omitempty"`
	Trace         string           `yaml:"trace,omitempty"`
	Experiments   []ExperimentSpec `yaml:"experiments"`
}

// ExperimentSpec is one experiment entry of a suite.
type ExperimentSpec struct {
	Label      string        `yaml:"label"`
	Source     dist.DistSpec `yaml:"source"`
	Target     dist.DistSpec `yaml:"target"`
	Population int           `yaml:"population"`
	Trials     int           `yaml:"trials"`
}

// LoadSuite reads and strictly parses a YAML suite file. Unknown keys are errors.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading suite")
	}
	s, err := ParseSuite(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing suite %s", path)
	}
	return s, nil
}

// ParseSuite strictly decodes a YAML suite document.
func ParseSuite(data []byte) (*Suite, error) {
	var s Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that all fields in the suite are valid.
func (s *Suite) Validate() error {
	if s.Buckets < 0 {
		return errors.Errorf("buckets must be positive, got %d", s.Buckets)
	}
	if s.Workers < 0 {
		return errors.Errorf("workers must be positive, got %d", s.Workers)
	}
	if s.Alpha < 0 || s.Alpha >= 1 {
		return errors.Errorf("alpha must be in (0, 1), got %f", s.Alpha)
	}
	if s.Tolerance < 0 {
		return errors.Errorf("tolerance must be positive, got %f", s.Tolerance)
	}
	if !sim.IsValidZeroDensityPolicy(s.ZeroDensity) {
		return errors.Errorf("unknown zero_density %q; valid: skip, reject", s.ZeroDensity)
	}
	if !trace.IsValidTraceLevel(s.Trace) {
		return errors.Errorf("unknown trace level %q; valid: none, end, phases", s.Trace)
	}
	if len(s.Experiments) == 0 {
		return errors.New("at least one experiment required")
	}
	seen := make(map[string]bool, len(s.Experiments))
	for i, e := range s.Experiments {
		if seen[e.Label] {
			return errors.Errorf("experiments[%d]: duplicate label %q", i, e.Label)
		}
		seen[e.Label] = true
		if err := e.Config().Validate(); err != nil {
			return errors.Wrapf(err, "experiments[%d]", i)
		}
	}
	return nil
}

// Config converts the entry into the driver's config type.
func (e ExperimentSpec) Config() sim.ExperimentConfig {
	return sim.ExperimentConfig{
		Label:          e.Label,
		Source:         e.Source,
		Target:         e.Target,
		PopulationSize: e.Population,
		Trials:         e.Trials,
	}
}

// Configs returns the driver configs of every entry, in file order.
func (s *Suite) Configs() []sim.ExperimentConfig {
	configs := make([]sim.ExperimentConfig, len(s.Experiments))
	for i, e := range s.Experiments {
		configs[i] = e.Config()
	}
	return configs
}

// ResolveSeed returns the configured seed in deterministic mode, or a fresh
// entropy seed otherwise.
func (s *Suite) ResolveSeed() (uint64, error) {
	if !s.Deterministic {
		return sim.EntropySeed()
	}
	if s.Seed != nil {
		return *s.Seed, nil
	}
	return sim.DeterministicSeed, nil
}

// RunOptions builds driver options from the suite, filling defaults for unset
// fields. Sink and Trace are left for the caller.
func (s *Suite) RunOptions(seed uint64) sim.RunOptions {
	opts := sim.DefaultRunOptions()
	opts.Seed = seed
	if s.Buckets > 0 {
		opts.Buckets = s.Buckets
	}
	if s.Workers > 0 {
		opts.Workers = s.Workers
	}
	if s.Alpha > 0 {
		opts.Alpha = s.Alpha
	}
	if s.Tolerance > 0 {
		opts.Tolerance = s.Tolerance
	}
	if s.ZeroDensity != "" {
		opts.Policy = sim.ZeroDensityPolicy(s.ZeroDensity)
	}
	return opts
}

// Filter keeps only the experiments with the given labels, in suite order.
// Unknown labels are an error.
func (s *Suite) Filter(labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		want[l] = true
	}
	kept := s.Experiments[:0:0]
	for _, e := range s.Experiments {
		if want[e.Label] {
			kept = append(kept, e)
			delete(want, e.Label)
		}
	}
	for _, l := range labels {
		if want[l] {
			return errors.Errorf("no experiment labelled %q", l)
		}
	}
	s.Experiments = kept
	return nil
}
