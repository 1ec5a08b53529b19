package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/amitbasuri/smartbin/internal/client"
	"github.com/amitbasuri/smartbin/internal/config"
	"github.com/amitbasuri/smartbin/internal/output"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	timeout   time.Duration
	colorFlag string

	apiClient *client.APIClient
	printer   *output.Printer
)

var rootCmd = &cobra.Command{
	Use:   "binctl",
	Short: "Smart bin control CLI",
	Long: `binctl talks to a smart bin server.
Open and close the lid, view disposal statistics and search past items.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initClient(cmd)
	},
}

// Execute runs the root command until it finishes or SIGINT/SIGTERM arrives
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (default $SMARTBIN_URL or http://localhost:8080)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (default $SMARTBIN_TIMEOUT seconds)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "color output: auto, always or never")

	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(stateCmd)
}

func initClient(cmd *cobra.Command) error {
	// Load the dotenv if exists
	_ = godotenv.Load()

	var env config.Client
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("loading env: %w", err)
	}

	if serverURL == "" {
		serverURL = env.ServerURL
	}
	if timeout == 0 {
		timeout = time.Duration(env.Timeout) * time.Second
	}

	mode, err := output.ParseColorMode(colorFlag)
	if err != nil {
		return err
	}

	apiClient = client.New(serverURL, timeout)
	printer = output.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ResolveColors(mode))
	return nil
}
