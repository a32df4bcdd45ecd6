package commands

import (
	"log/slog"

	"gnc-attendance/internal/components/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Logs in once, prints the attendance summary and writes it to the output file.",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			serviceutil.Fatal("failed to set up", err)
		}
		defer a.Close()

		_, err = a.runner.Run(cmd.Context())
		if err != nil {
			// already reported, a failed scrape still exits cleanly
			slog.Error("attendance run failed", "err", err)
		}
	},
}
