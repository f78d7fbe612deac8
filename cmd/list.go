package cmd

import (
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/inference-sim/resampling/sim/dist"
	"github.com/inference-sim/resampling/sim/suite"
)

// listCmd prints the built-in scenarios and the known distribution types
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in scenarios and distribution types",
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Scenario", "Source", "Target", "Population", "Trials", "Description"})
		writeScenarios(t, suite.DefaultSuite().Experiments)
		t.Render()

		d := table.NewWriter()
		d.SetOutputMirror(cmd.OutOrStdout())
		d.SetStyle(table.StyleLight)
		d.AppendHeader(table.Row{"Distribution", "Example"})
		for _, name := range dist.ValidTypes() {
			d.AppendRow(table.Row{name, distExamples[name]})
		}
		d.Render()
	},
}

// writeScenarios appends one row per experiment, in suite order.
func writeScenarios(t table.Writer, experiments []suite.ExperimentSpec) {
	for _, spec := range experiments {
		t.AppendRow(table.Row{spec.Label, spec.Source.String(), spec.Target.String(),
			humanize.Comma(int64(spec.Population)), humanize.Comma(int64(spec.Trials)), suite.Describe(spec.Label)})
	}
}

// distExamples shows the --source/--target syntax for each distribution type.
var distExamples = map[string]string{
	dist.TypeUniform:     "uniform:min=-1,max=1",
	dist.TypeGaussian:    "gaussian:sigma=0.1",
	dist.TypeXSquared:    "xsquared",
	dist.TypeExponential: "exponential:rate=2",
}

func init() {
	rootCmd.AddCommand(listCmd)
}
