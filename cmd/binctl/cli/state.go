package cli

import (
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the lid state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := apiClient.State(cmd.Context())
		if err != nil {
			return err
		}
		printer.Success("Lid is %s", state)
		return nil
	},
}
