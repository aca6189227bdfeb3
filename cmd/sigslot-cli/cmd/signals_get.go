package cmd

import (
	"fmt"
	"os"

	"github.com/nfrund/sigslot/cmd/sigslot-cli/internal/analyzer"
	"github.com/nfrund/sigslot/cmd/sigslot-cli/internal/signals"
	"github.com/spf13/cobra"
)

var (
	getOutputFormat string
	getDir          string
)

// signalsGetCmd represents the signals get command
var signalsGetCmd = &cobra.Command{
	Use:   "get <signal-name>",
	Short: "Get detailed information about a specific signal",
	Long: `Get detailed information about a signal declared in a Go source tree. This
command displays the declaration's name, payload type, variable, description,
and source location.

Examples:
  # Basic usage
  sigslot-cli signals get chat.message.posted                # Show declaration details
  sigslot-cli signals get chat.message.posted --format json  # Details in JSON format

  # Error handling
  sigslot-cli signals get nonexistent.signal                 # Shows "signal not found" error

Output formats:
  table - Human-readable detailed format (default)
  json  - Machine-readable JSON format`,
	Args: cobra.ExactArgs(1),
	Run:  signalsGetHandler,
}

func signalsGetHandler(cmd *cobra.Command, args []string) {
	signalName := args[0]

	decl, err := analyzer.FindSignal(getDir, signalName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Signal '%s' not found\n", signalName)
		fmt.Fprintf(os.Stderr, "\nUse 'sigslot-cli signals list' to see all declared signals.\n")
		os.Exit(1)
	}

	if err := signals.DisplaySignalDetails(decl, getOutputFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to display signal details: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	signalsCmd.AddCommand(signalsGetCmd)

	// Add flags for output formatting
	signalsGetCmd.Flags().StringVarP(&getOutputFormat, "format", "f", "table", "Output format (table, json)")
	signalsGetCmd.Flags().StringVarP(&getDir, "dir", "d", "./", "Source tree to scan")
}
