package cli

import (
	"github.com/amitbasuri/smartbin/internal/output"
	"github.com/amitbasuri/smartbin/internal/ui"
	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Open or close the lid",
	Long: `Flip the lid. When it opens, the new item is captured and analyzed
and the analysis is printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		screen := output.NewScreen(printer.UseColors())
		controller := ui.NewToggleController(apiClient, screen)

		if err := controller.Click(cmd.Context()); err != nil {
			return err
		}
		screen.RenderToggle(cmd.OutOrStdout())
		return nil
	},
}
