package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/resampling/sim/report"
	"github.com/inference-sim/resampling/sim/suite"
)

var (
	plotDir  string // Directory holding <label>.<phase>.csv files
	htmlPath string // Optional HTML chart page
)

// plotCmd renders histogram CSV files as PNG images and an optional HTML page
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render histogram CSV files as PNG plots",
	Run: func(cmd *cobra.Command, args []string) {
		written, err := report.PlotDir(plotDir)
		if err != nil {
			logrus.Fatalf("Plotting failed: %v", err)
		}
		if len(written) == 0 {
			logrus.Warnf("No histogram CSV files in %s", plotDir)
			return
		}
		for _, p := range written {
			logrus.Infof("Wrote %s", p)
		}

		if htmlPath == "" {
			return
		}
		if err := writeHTMLReport(plotDir, htmlPath); err != nil {
			logrus.Fatalf("Chart page failed: %v", err)
		}
		logrus.Infof("Wrote %s", htmlPath)
	},
}

func writeHTMLReport(dir, path string) (err error) {
	inputs, err := report.ChartDir(dir)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return report.WriteHTML(f, inputs)
}

func init() {
	plotCmd.Flags().StringVar(&plotDir, "dir", suite.DefaultOutputDir, "Directory holding histogram CSV files")
	plotCmd.Flags().StringVar(&htmlPath, "html", "", "Also write an HTML chart page to this file")
	rootCmd.AddCommand(plotCmd)
}
