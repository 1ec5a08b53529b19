package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amitbasuri/smartbin/internal/output"
	"github.com/amitbasuri/smartbin/internal/ui"
	"github.com/spf13/cobra"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [period]",
	Short: "Refresh statistics until interrupted",
	Long: `Reload statistics for a period every --interval and redraw them.
Failed refreshes are reported and the last good view stays on screen.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		period := ui.DefaultPeriod
		if len(args) == 1 {
			period = args[0]
		}
		if watchInterval <= 0 {
			return fmt.Errorf("interval must be positive, got %s", watchInterval)
		}

		ctx := cmd.Context()
		w := cmd.OutOrStdout()
		screen := output.NewScreen(printer.UseColors())
		opts := append(timeOptions(), ui.WithErrorHandler(func(err error) {
			// Interrupting an in-flight refresh is not a failure
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			printer.Error("refresh failed: %v", err)
		}))
		controller := ui.NewStatsController(apiClient, screen, screen, opts...)
		defer controller.Dispose()

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		for {
			if err := controller.LoadStats(ctx, period); err == nil {
				var buf bytes.Buffer
				if err := screen.RenderStats(&buf); err != nil {
					return err
				}
				if printer.UseColors() {
					// clear screen, cursor home
					fmt.Fprint(w, "\033[H\033[2J")
				}
				printer.Info("Period %s, updated %s", period, time.Now().Format(time.TimeOnly))
				if _, err := w.Write(buf.Bytes()); err != nil {
					return fmt.Errorf("write stats: %w", err)
				}
			}

			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Second, "refresh interval")
}
