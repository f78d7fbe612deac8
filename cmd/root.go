package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/resampling/sim"
	"github.com/inference-sim/resampling/sim/dist"
	"github.com/inference-sim/resampling/sim/report"
	"github.com/inference-sim/resampling/sim/store"
	"github.com/inference-sim/resampling/sim/suite"
	"github.com/inference-sim/resampling/sim/trace"
)

var (
	logLevel string // Log verbosity level

	// CLI flags for the run command
	configPath    string   // YAML suite file; empty runs the built-in scenarios
	scenarioNames []string // Experiments to run, by label
	seed          uint64   // Master seed (implies --deterministic)
	deterministic bool     // Use the fixed seed instead of entropy
	buckets       int      // Histogram bucket count
	workers       int      // Parallel resampling workers per experiment
	outputDir     string   // Directory for <label>.<phase>.csv files
	alpha         float64  // Chi-squared significance level
	tolerance     float64  // Largest distance counted as converged
	zeroDensity   string   // Zero source density policy: skip or reject
	traceLevel    string   // Which phases the run summary records
	historyDBPath string   // sqlite file to append outcomes to

	// CLI flags for a single ad-hoc experiment
	sourceSpec string // e.g. "uniform:min=-1,max=1"
	targetSpec string // e.g. "gaussian:sigma=0.1"
	population int    // Population size
	trials     int    // Number of resampling trials
	label      string // Experiment label, used in file names
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "resampling",
	Short: "Weighted reservoir resampling demonstrator",
	Long: `Draws a population from a source distribution, weights each value by
target(x)/source(x), and repeatedly picks one value by single-pass weighted
reservoir sampling. Before/after histograms are written as CSV and compared
against the source and target densities.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes the experiment suite using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run resampling experiments",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := buildSuite(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		runSeed, err := s.ResolveSeed()
		if err != nil {
			logrus.Fatalf("Unable to seed: %v", err)
		}
		if s.Deterministic {
			logrus.Infof("Deterministic seed %#x", runSeed)
		} else {
			logrus.Infof("Entropy seed %#x (rerun with --seed %d to reproduce)", runSeed, runSeed)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := s.RunOptions(runSeed)
		if s.OutputDir != "" {
			opts.Sink = report.CSVSink{Dir: s.OutputDir}
		}
		opts.Trace = trace.NewRunTrace(trace.TraceConfig{Level: trace.TraceLevel(s.Trace)})

		results, failed := runSuite(ctx, s.Configs(), opts)
		printSummary(cmd.OutOrStdout(), results, trace.Summarize(opts.Trace))

		if historyDBPath != "" {
			if err := recordHistory(historyDBPath, opts.Trace); err != nil {
				logrus.Errorf("Unable to record history: %v", err)
			}
		}

		if failed > 0 {
			logrus.Fatalf("%d of %d experiments failed", failed, len(s.Experiments))
		}
		logrus.Info("Resampling complete.")
	},
}

// buildSuite assembles the suite from --config, the ad-hoc experiment flags or
// the built-in scenarios, then applies flag overrides.
func buildSuite(cmd *cobra.Command) (*suite.Suite, error) {
	var s *suite.Suite
	switch {
	case sourceSpec != "" || targetSpec != "":
		adhoc, err := adhocExperiment()
		if err != nil {
			return nil, err
		}
		s = suite.DefaultSuite()
		s.Experiments = []suite.ExperimentSpec{adhoc}
	case configPath != "":
		loaded, err := suite.LoadSuite(configPath)
		if err != nil {
			return nil, err
		}
		s = loaded
	default:
		s = suite.DefaultSuite()
	}

	flags := cmd.Flags()
	if flags.Changed("deterministic") {
		s.Deterministic = deterministic
	}
	if flags.Changed("seed") {
		s.Seed = &seed
		s.Deterministic = true
	}
	if flags.Changed("buckets") {
		s.Buckets = buckets
	}
	if flags.Changed("workers") {
		s.Workers = workers
	}
	if flags.Changed("output-dir") {
		s.OutputDir = outputDir
	}
	if flags.Changed("alpha") {
		s.Alpha = alpha
	}
	if flags.Changed("tolerance") {
		s.Tolerance = tolerance
	}
	if flags.Changed("zero-density") {
		s.ZeroDensity = zeroDensity
	}
	if flags.Changed("trace") {
		s.Trace = traceLevel
	}

	if err := s.Filter(scenarioNames); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if historyDBPath != "" && trace.TraceLevel(s.Trace) == trace.TraceLevelNone {
		return nil, errors.New("--history-db records the traced end phases; it cannot be used with trace level none")
	}
	return s, nil
}

// adhocExperiment builds a single experiment from --source/--target.
func adhocExperiment() (suite.ExperimentSpec, error) {
	if sourceSpec == "" || targetSpec == "" {
		return suite.ExperimentSpec{}, errors.New("--source and --target must be given together")
	}
	src, err := dist.ParseDistSpec(sourceSpec)
	if err != nil {
		return suite.ExperimentSpec{}, errors.Wrap(err, "--source")
	}
	tgt, err := dist.ParseDistSpec(targetSpec)
	if err != nil {
		return suite.ExperimentSpec{}, errors.Wrap(err, "--target")
	}
	return suite.ExperimentSpec{Label: label, Source: src, Target: tgt, Population: population, Trials: trials}, nil
}

// runSuite runs the experiments in order and returns the successful results
// with the number of failures. A failed experiment is logged and recorded in
// the trace; the rest still run unless ctx is cancelled.
func runSuite(ctx context.Context, configs []sim.ExperimentConfig, opts sim.RunOptions) ([]*sim.ExperimentResult, int) {
	results := make([]*sim.ExperimentResult, 0, len(configs))
	failed := 0
	for _, cfg := range configs {
		if ctx.Err() != nil {
			failed++
			logrus.Warnf("Interrupted; skipping %s", cfg.Label)
			if opts.Trace != nil {
				opts.Trace.RecordFailure(cfg.Label, ctx.Err())
			}
			continue
		}
		result, err := sim.RunExperiment(ctx, cfg, opts)
		if err != nil {
			failed++
			logrus.Errorf("Experiment %s failed: %v", cfg.Label, err)
			if opts.Trace != nil {
				opts.Trace.RecordFailure(cfg.Label, err)
			}
			continue
		}
		results = append(results, result)
	}
	return results, failed
}

// recordHistory appends the end phase of every traced experiment to the
// sqlite history.
func recordHistory(path string, rt *trace.RunTrace) error {
	db, err := store.NewHistoryDB(path)
	if err != nil {
		return err
	}
	if err := addHistory(db, rt); err != nil {
		_ = db.Close()
		return err
	}
	return db.Close()
}

func addHistory(db store.HistoryDB, rt *trace.RunTrace) error {
	n := 0
	for _, r := range rt.Experiments {
		if r.Phase != trace.PhaseEnd {
			continue
		}
		if err := db.Add(store.NewRunRecord(r)); err != nil {
			return err
		}
		n++
	}
	logrus.Infof("Recorded %d experiments in history", n)
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&configPath, "config", "", "YAML experiment suite (default: the built-in scenarios)")
	runCmd.Flags().StringSliceVar(&scenarioNames, "scenario", nil, "Comma-separated experiment labels to run (default: all)")
	runCmd.Flags().Uint64Var(&seed, "seed", sim.DeterministicSeed, "Master seed; implies --deterministic")
	runCmd.Flags().BoolVar(&deterministic, "deterministic", true, "Use a fixed seed instead of entropy")
	runCmd.Flags().IntVar(&buckets, "buckets", sim.DefaultBuckets, "Histogram bucket count")
	runCmd.Flags().IntVar(&workers, "workers", 1, "Parallel resampling workers per experiment")
	runCmd.Flags().StringVar(&outputDir, "output-dir", suite.DefaultOutputDir, "Directory for histogram CSV files")
	runCmd.Flags().Float64Var(&alpha, "alpha", sim.DefaultAlpha, "Chi-squared significance level")
	runCmd.Flags().Float64Var(&tolerance, "tolerance", sim.DefaultTolerance, "Largest total-variation distance counted as converged")
	runCmd.Flags().StringVar(&zeroDensity, "zero-density", string(sim.ZeroDensitySkip), "Policy for values with zero source density (skip, reject)")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelPhases), "Phases kept in the run summary (none, end, phases)")
	runCmd.Flags().StringVar(&historyDBPath, "history-db", "", "sqlite file to append experiment outcomes to")

	// Single ad-hoc experiment
	runCmd.Flags().StringVar(&sourceSpec, "source", "", "Source distribution, e.g. uniform:min=-1,max=1")
	runCmd.Flags().StringVar(&targetSpec, "target", "", "Target distribution, e.g. gaussian:sigma=0.1")
	runCmd.Flags().IntVar(&population, "population", 100000, "Population size for --source/--target")
	runCmd.Flags().IntVar(&trials, "trials", 10000, "Resampling trials for --source/--target")
	runCmd.Flags().StringVar(&label, "label", "Custom", "Experiment label for --source/--target")

	rootCmd.AddCommand(runCmd)
}
