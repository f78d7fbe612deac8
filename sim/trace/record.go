// Package trace records per-phase experiment outcomes for run summaries and
// history. It has no dependencies on sim/: it stores pure data types.
package trace

// Phase names match the histogram phases written by the experiment driver.
const (
	PhaseStart = "start"
	PhaseEnd   = "end"
)

// ExperimentRecord captures the goodness of fit of one histogram phase.
type ExperimentRecord struct {
	Label        string
	Phase        string // PhaseStart or PhaseEnd
	Seed         uint64
	Population   int
	Trials       int
	ChiSquared   float64
	Critical     float64
	Distance     float64 // total-variation distance to the density
	MaxDeviation float64
	Converged    bool
	Skipped      int // population items with zero source density
}

// FailureRecord captures an experiment that aborted with an error.
type FailureRecord struct {
	Label string
	Err   string
}
