package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/resampling/sim/store"
)

var (
	historyFile  string // sqlite history file to read
	historyLimit int    // Number of most recent outcomes to show
)

// historyCmd prints stored experiment outcomes
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded experiment outcomes",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := store.NewHistoryDB(historyFile)
		if err != nil {
			logrus.Fatalf("Unable to open history: %v", err)
		}
		defer db.Close()
		if err := printHistory(cmd.OutOrStdout(), db, historyLimit); err != nil {
			logrus.Fatalf("Unable to read history: %v", err)
		}
	},
}

func printHistory(w io.Writer, db store.HistoryDB, limit int) error {
	records, err := db.List(limit)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "When", "Experiment", "Seed", "Population", "Trials", "Distance", "Verdict"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.ID,
			humanize.Time(r.CreatedAt),
			r.Label,
			fmt.Sprintf("%#x", r.Seed),
			humanize.Comma(int64(r.Population)),
			humanize.Comma(int64(r.Trials)),
			fmt.Sprintf("%.4f", r.Distance),
			verdict(r.Converged),
		})
	}
	t.Render()
	return nil
}

func init() {
	historyCmd.Flags().StringVar(&historyFile, "history-db", "history.db", "sqlite history file")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of most recent outcomes to show")
	rootCmd.AddCommand(historyCmd)
}
