package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gnc-attendance/internal/components/configutil"
	"gnc-attendance/internal/components/telemetry"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string

	cfg  Config
	otlp telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "attendance",
	Short: "attendance reads your attendance off the GNC student portal.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		err := configutil.LoadDotenv(".env")
		if err != nil {
			return err
		}
		cfg, err = loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		otlp, err = telemetry.Setup(cmd.Context(), "gnc-attendance", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := otlp.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file, defaults to the nearest attendance.json5.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
