package trace

import "gonum.org/v1/gonum/stat"

// TraceSummary aggregates statistics from a RunTrace.
type TraceSummary struct {
	TotalRecords   int
	ConvergedCount int
	DivergedCount  int
	FailedCount    int
	MeanDistance   float64
	MaxDistance    float64
	WorstLabel     string // label of the record with MaxDistance
	MaxDeviation   float64
	SkippedItems   int
	PhaseCounts    map[string]int // phase → record count
}

// Summarize computes aggregate statistics from a RunTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RunTrace) *TraceSummary {
	summary := &TraceSummary{
		PhaseCounts: make(map[string]int),
	}
	if rt == nil {
		return summary
	}

	summary.TotalRecords = len(rt.Experiments)
	summary.FailedCount = len(rt.Failures)
	if len(rt.Experiments) == 0 {
		return summary
	}

	distances := make([]float64, 0, len(rt.Experiments))
	for _, r := range rt.Experiments {
		summary.PhaseCounts[r.Phase]++
		if r.Converged {
			summary.ConvergedCount++
		} else {
			summary.DivergedCount++
		}
		distances = append(distances, r.Distance)
		if r.Distance > summary.MaxDistance || summary.WorstLabel == "" {
			summary.MaxDistance = r.Distance
			summary.WorstLabel = r.Label
		}
		if r.MaxDeviation > summary.MaxDeviation {
			summary.MaxDeviation = r.MaxDeviation
		}
		if r.Phase == PhaseEnd {
			summary.SkippedItems += r.Skipped
		}
	}
	summary.MeanDistance = stat.Mean(distances, nil)

	return summary
}
