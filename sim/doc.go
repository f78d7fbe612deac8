// Package sim provides the weighted reservoir resampling engine.
//
// # Reading Guide
//
// Start with these three files to understand a run:
//   - population.go: drawing from the source and computing importance weights
//   - reservoir.go: the single-pass weighted selection and parallel trials
//   - experiment.go: the driver that ties population, resampling and histograms together
//
// # Architecture
//
// The sim package holds the algorithms; data types and I/O live in sub-packages:
//   - sim/dist/: distributions and their YAML/command-line specs
//   - sim/suite/: experiment suites and the built-in scenarios
//   - sim/report/: CSV output, PNG plots and the HTML chart page
//   - sim/trace/: per-phase fit records and run summaries
//   - sim/store/: sqlite run history
//
// Histograms reach sim/report through the HistogramSink interface, so sim
// never imports its writers.
//
// # Randomness
//
// Every stream comes from a PartitionedRNG keyed by subsystem name. The
// population stream uses the master seed directly; resampling workers derive
// theirs from the seed and the worker index. A run is reproducible from its
// seed and worker count.
package sim
