package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amitbasuri/smartbin/internal/output"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search past items",
	Long:  `Find items whose detected objects or analysis mention a keyword.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyword := strings.Join(args, " ")
		items, err := apiClient.Search(cmd.Context(), keyword)
		if err != nil {
			return err
		}

		if len(items) == 0 {
			printer.Info("No items match %q", keyword)
			return nil
		}

		table := output.NewTable(cmd.OutOrStdout(), []string{"ID", "Time", "Objects", "Category", "Status"})
		for _, item := range items {
			category := "-"
			if item.Category != nil {
				category = item.Category.String()
			}
			table.AddRow(
				strconv.FormatInt(item.ID, 10),
				item.Timestamp.Format(time.DateTime, time.Local),
				strings.Join(item.DetectedObjects, ", "),
				category,
				item.AnalysisStatus.String(),
			)
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("render results: %w", err)
		}
		return nil
	},
}
