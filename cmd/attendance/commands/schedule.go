package commands

import (
	"log/slog"
	"time"

	"gnc-attendance/internal/components/chrono"
	"gnc-attendance/internal/components/serviceutil"
	"gnc-attendance/internal/components/telemetry"

	"github.com/spf13/cobra"
)

var (
	scheduleSpec string
	scheduleNow  bool
)

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSpec, "spec", "", "Cron spec overriding the configured schedule.")
	scheduleCmd.Flags().BoolVar(&scheduleNow, "now", false, "Also run once immediately.")
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule [--spec <cron spec>] [--now]",
	Short: "Runs on a cron schedule until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		a, err := newApp()
		if err != nil {
			serviceutil.Fatal("failed to set up", err)
		}
		defer a.Close()

		spec := cfg.Schedule
		if scheduleSpec != "" {
			spec = scheduleSpec
		}

		job := func() {
			_, err := a.runner.Run(ctx)
			if err != nil {
				slog.Error("scheduled run failed", "err", err)
			}
		}

		cron := chrono.NewStandardCron(a.tel, a.time.Location())
		err = cron.Cron(spec, job)
		if err != nil {
			serviceutil.Fatal("invalid schedule", err)
		}

		telemetry.InstrumentPerfStats(ctx, 30*time.Second)
		cron.Start()
		slog.Info("scheduled attendance runs", "spec", spec, "timezone", a.time.Location().String())

		if scheduleNow {
			job()
		}

		<-ctx.Done()
		cron.Stop()
	},
}
