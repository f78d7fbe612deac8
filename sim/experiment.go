package sim

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/resampling/sim/dist"
	"github.com/inference-sim/resampling/sim/trace"
)

// Phase names which histogram of an experiment is meant.
type Phase string

const (
	// PhaseStart is the raw population against the source density.
	PhaseStart Phase = trace.PhaseStart
	// PhaseEnd is the resampled values against the target density.
	PhaseEnd Phase = trace.PhaseEnd
)

// HistogramSink persists a histogram and returns where it was written.
type HistogramSink interface {
	WriteHistogram(label string, phase Phase, h *Histogram) (string, error)
	// Remove discards a previously written histogram.
	Remove(path string) error
}

// ExperimentConfig describes one resampling experiment.
type ExperimentConfig struct {
	Label          string
	Source         dist.DistSpec
	Target         dist.DistSpec
	PopulationSize int
	Trials         int
}

// Validate checks the config without building anything.
func (c ExperimentConfig) Validate() error {
	if c.Label == "" {
		return errors.New("experiment label must not be empty")
	}
	if err := c.Source.Validate(); err != nil {
		return errors.Wrapf(err, "%s: source", c.Label)
	}
	if err := c.Target.Validate(); err != nil {
		return errors.Wrapf(err, "%s: target", c.Label)
	}
	if c.PopulationSize <= 0 {
		return errors.Errorf("%s: population size must be positive, got %d", c.Label, c.PopulationSize)
	}
	if c.Trials <= 0 {
		return errors.Errorf("%s: trial count must be positive, got %d", c.Label, c.Trials)
	}
	return nil
}

// RunOptions are the run-wide settings shared by every experiment.
type RunOptions struct {
	Seed      uint64
	Buckets   int
	Workers   int
	Alpha     float64
	Tolerance float64
	Policy    ZeroDensityPolicy
	Sink      HistogramSink   // nil: histograms are not persisted
	Trace     *trace.RunTrace // nil: nothing is recorded
}

// DefaultRunOptions returns deterministic single-worker options without a sink.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		Seed:      DeterministicSeed,
		Buckets:   DefaultBuckets,
		Workers:   1,
		Alpha:     DefaultAlpha,
		Tolerance: DefaultTolerance,
		Policy:    ZeroDensitySkip,
	}
}

func (o RunOptions) validate() error {
	if o.Buckets < 1 {
		return errors.Errorf("bucket count must be at least 1, got %d", o.Buckets)
	}
	if o.Workers < 1 {
		return errors.Errorf("worker count must be at least 1, got %d", o.Workers)
	}
	if o.Alpha <= 0 || o.Alpha >= 1 {
		return errors.Errorf("alpha must be in (0, 1), got %v", o.Alpha)
	}
	if o.Tolerance <= 0 {
		return errors.Errorf("tolerance must be positive, got %v", o.Tolerance)
	}
	if !IsValidZeroDensityPolicy(string(o.Policy)) {
		return errors.Errorf("unknown zero-density policy %q", o.Policy)
	}
	return nil
}

// ExperimentResult holds both histograms of an experiment and their fits.
type ExperimentResult struct {
	Label     string
	Start     *Histogram
	End       *Histogram
	StartFit  Fit
	EndFit    Fit
	Skipped   int
	StartPath string // empty when no sink is configured
	EndPath   string
	Elapsed   time.Duration
}

// RunExperiment generates the population, resamples it and compares both
// phases against their densities. Each experiment draws from a fresh
// PartitionedRNG seeded with opts.Seed, so results do not depend on which
// experiments ran before it.
func RunExperiment(ctx context.Context, cfg ExperimentConfig, opts RunOptions) (*ExperimentResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, errors.Wrap(err, cfg.Label)
	}
	source, err := dist.New(cfg.Source)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: source", cfg.Label)
	}
	target, err := dist.New(cfg.Target)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: target", cfg.Label)
	}

	began := time.Now()
	logrus.Infof("%s: %s -> %s, population %s, trials %s", cfg.Label, cfg.Source, cfg.Target,
		humanize.Comma(int64(cfg.PopulationSize)), humanize.Comma(int64(cfg.Trials)))

	rng := NewPartitionedRNG(opts.Seed)
	pop, err := NewPopulation(source, target, cfg.PopulationSize, rng.ForSubsystem(SubsystemPopulation), opts.Policy)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: generating population", cfg.Label)
	}

	start, err := BuildHistogram(pop.Values(), opts.Buckets, source.PDF)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: start histogram", cfg.Label)
	}

	resampler, err := NewResampler(pop.Items)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: resampler", cfg.Label)
	}
	selected, err := resampler.Resample(ctx, cfg.Trials, rng.Workers(opts.Workers))
	if err != nil {
		return nil, errors.Wrap(err, cfg.Label)
	}

	end, err := BuildHistogram(selected, opts.Buckets, target.PDF)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: end histogram", cfg.Label)
	}

	result := &ExperimentResult{
		Label:    cfg.Label,
		Start:    start,
		End:      end,
		StartFit: Assess(start, opts.Alpha, opts.Tolerance),
		EndFit:   Assess(end, opts.Alpha, opts.Tolerance),
		Skipped:  pop.Skipped,
	}

	if opts.Sink != nil {
		if result.StartPath, err = opts.Sink.WriteHistogram(cfg.Label, PhaseStart, start); err != nil {
			return nil, err
		}
		if result.EndPath, err = opts.Sink.WriteHistogram(cfg.Label, PhaseEnd, end); err != nil {
			if rmErr := opts.Sink.Remove(result.StartPath); rmErr != nil {
				logrus.Warnf("%s: leaving partial output %s: %v", cfg.Label, result.StartPath, rmErr)
			}
			return nil, err
		}
	}

	if opts.Trace != nil {
		opts.Trace.Record(newRecord(cfg, opts, PhaseStart, result.StartFit, pop.Skipped))
		opts.Trace.Record(newRecord(cfg, opts, PhaseEnd, result.EndFit, pop.Skipped))
	}

	result.Elapsed = time.Since(began)
	verdict := "converged"
	if !result.EndFit.Converged {
		verdict = "diverged"
	}
	logrus.Infof("%s: %s (distance %.4f, tolerance %.4f) in %s", cfg.Label, verdict,
		result.EndFit.Distance, opts.Tolerance, result.Elapsed.Round(time.Millisecond))
	return result, nil
}

func newRecord(cfg ExperimentConfig, opts RunOptions, phase Phase, fit Fit, skipped int) trace.ExperimentRecord {
	return trace.ExperimentRecord{
		Label:        cfg.Label,
		Phase:        string(phase),
		Seed:         opts.Seed,
		Population:   cfg.PopulationSize,
		Trials:       cfg.Trials,
		ChiSquared:   fit.ChiSquared,
		Critical:     fit.Critical,
		Distance:     fit.Distance,
		MaxDeviation: fit.MaxDeviation,
		Converged:    fit.Converged,
		Skipped:      skipped,
	}
}
