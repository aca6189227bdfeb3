package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/nfrund/sigslot/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sigslot-cli",
	Short: "Sigslot CLI tool",
	Long: `Sigslot CLI is a command-line interface for working with signal/slot graphs.

Available commands:
  signals     Discover, inspect, and validate signal declarations in Go source
  new-signal  Scaffold a new signal declaration
  demo        Run a small chat-room demonstration graph

Use "sigslot-cli [command] --help" for more information about a specific command.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; environment variables win either way.
		_ = godotenv.Load()
		logging.New()
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
