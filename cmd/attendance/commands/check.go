package commands

import (
	"fmt"
	"log/slog"
	"time"

	"gnc-attendance/internal/components/serviceutil"
	"gnc-attendance/internal/portal"

	"github.com/spf13/cobra"
)

var checkTimeout time.Duration

func init() {
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 15*time.Second, "How long to wait for the portal.")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [--timeout <duration>]",
	Short: "Checks that the portal answers over HTTP, without starting a browser.",
	Run: func(cmd *cobra.Command, args []string) {
		result, err := portal.Check(cmd.Context(), cfg.PortalURL, checkTimeout)
		if err != nil {
			serviceutil.Fatal("portal unreachable", err)
		}
		slog.Info("portal responded", "url", result.URL, "status", result.Status, "duration", result.Duration)
		if !result.Reachable() {
			serviceutil.Fatal("portal unhealthy", fmt.Errorf("status %d", result.Status))
		}
	},
}
