package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/inference-sim/resampling/sim"
	"github.com/inference-sim/resampling/sim/trace"
)

func verdict(converged bool) string {
	if converged {
		return "converged"
	}
	return "diverged"
}

// printSummary writes one row per experiment with its start and end fit,
// followed by the run totals.
func printSummary(w io.Writer, results []*sim.ExperimentResult, summary *trace.TraceSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Experiment", "Population", "Trials", "Skipped",
		"Start distance", "End distance", "End chi²", "Critical", "Verdict"})
	for _, r := range results {
		t.AppendRow(table.Row{
			r.Label,
			humanize.Comma(int64(r.Start.Total)),
			humanize.Comma(int64(r.End.Total)),
			r.Skipped,
			fmt.Sprintf("%.4f", r.StartFit.Distance),
			fmt.Sprintf("%.4f", r.EndFit.Distance),
			fmt.Sprintf("%.1f", r.EndFit.ChiSquared),
			fmt.Sprintf("%.1f", r.EndFit.Critical),
			verdict(r.EndFit.Converged),
		})
	}
	if summary != nil && summary.TotalRecords > 0 {
		t.AppendFooter(table.Row{"", "", "", summary.SkippedItems,
			fmt.Sprintf("mean %.4f", summary.MeanDistance), fmt.Sprintf("max %.4f", summary.MaxDistance),
			"", "", fmt.Sprintf("%d ok / %d off / %d failed", summary.ConvergedCount, summary.DivergedCount, summary.FailedCount)})
	}
	t.Render()
}
