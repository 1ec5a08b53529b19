package cli

import (
	"time"

	"github.com/amitbasuri/smartbin/internal/output"
	"github.com/amitbasuri/smartbin/internal/ui"
	"github.com/spf13/cobra"
)

var statsUTC bool

var statsCmd = &cobra.Command{
	Use:   "stats [period]",
	Short: "Show disposal statistics",
	Long: `Show disposal statistics for a period: today, week, month, year or all.

Example:
  binctl stats          # all time
  binctl stats week`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		period := ui.DefaultPeriod
		if len(args) == 1 {
			period = args[0]
		}

		screen := output.NewScreen(printer.UseColors())
		controller := ui.NewStatsController(apiClient, screen, screen, timeOptions()...)
		defer controller.Dispose()

		if err := controller.LoadStats(cmd.Context(), period); err != nil {
			return err
		}
		return screen.RenderStats(cmd.OutOrStdout())
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsUTC, "utc", false, "show timestamps in UTC")
	watchCmd.Flags().BoolVar(&statsUTC, "utc", false, "show timestamps in UTC")
}

func timeOptions() []ui.Option {
	if statsUTC {
		return []ui.Option{ui.WithLocation(time.UTC)}
	}
	return nil
}
