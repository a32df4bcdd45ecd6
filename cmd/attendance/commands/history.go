package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gnc-attendance/internal/components/chrono"
	"gnc-attendance/internal/components/serviceutil"
	"gnc-attendance/internal/history"
	"gnc-attendance/internal/report"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 14, "How many days to show.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [-n <days>]",
	Short: "Shows the reports of past runs, newest first.",
	Run: func(cmd *cobra.Command, args []string) {
		clock, err := chrono.NewStandardTime(cfg.Timezone)
		if err != nil {
			serviceutil.Fatal("invalid timezone", err)
		}
		err = showHistory(cmd.Context(), cfg, os.Stdout, historyLimit, clock.Location())
		if err != nil {
			serviceutil.Fatal("failed to read history", err)
		}
	},
}

// showHistory prints the latest snapshots as a table. With history disabled
// it says so and leaves the database untouched.
func showHistory(ctx context.Context, c Config, w io.Writer, limit int, loc *time.Location) error {
	if !c.History.Enabled {
		fmt.Fprintln(w, "history is disabled, set history.enabled in the config to record runs")
		return nil
	}

	database, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	snapshots, err := history.NewStore(database).Pull(ctx, limit, loc)
	if err != nil {
		return err
	}

	t := report.NewConsole(w).NewTable()
	t.AppendHeader(table.Row{"Time", "Overall", "Present", "Total", "Today"})
	for _, s := range snapshots {
		today := "not found"
		if s.Report.Today.Found {
			today = fmt.Sprintf("%d hours", s.Report.Today.Hours)
			if s.Report.Today.Posted {
				today += " (posted)"
			}
		}
		t.AppendRow(table.Row{
			s.Time.Format("2006-01-02 15:04"),
			s.Report.Overall,
			s.Report.TotalPresent,
			s.Report.TotalInstructional,
			today,
		})
	}
	t.Render()
	return nil
}
