package cmd

import (
	"github.com/spf13/cobra"
)

// signalsCmd represents the signals command
var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Discover and inspect signal declarations",
	Long: `The signals command provides tools for discovering, inspecting, and validating
signal declarations in Go source trees. Declarations are found by statically
analyzing the source for sigslot.NewSignal and sigslot.NewSlot calls, so the
target project does not have to be run.

Available subcommands:
  list      List all declared signals with optional filtering
  get       Get detailed information about a specific signal
  validate  Validate a signal name and its declaration

Examples:
  # List all signals declared in the current project
  sigslot-cli signals list

  # List signals declared by a specific owner
  sigslot-cli signals list --owner chat

  # Get detailed information about a signal
  sigslot-cli signals get chat.message.posted

  # Validate a signal name and declaration
  sigslot-cli signals validate chat.message.posted

Use "sigslot-cli signals [command] --help" for more information about a specific command.`,
}

func init() {
	rootCmd.AddCommand(signalsCmd)
}
