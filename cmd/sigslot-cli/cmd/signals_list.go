package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/nfrund/sigslot/cmd/sigslot-cli/internal/analyzer"
	"github.com/nfrund/sigslot/cmd/sigslot-cli/internal/signals"
	"github.com/spf13/cobra"
)

var (
	listOutputFormat string
	listOwnerFilter  string
	listDir          string
	listSlots        bool
)

// signalsListCmd represents the signals list command
var signalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all declared signals",
	Long: `List all signals declared in a Go source tree. This command helps developers
discover what signals are available to connect to.

Declarations are collected by scanning the source for package-level
sigslot.NewSignal calls and displayed in either table or JSON format with
optional filtering by owner prefix.

Examples:
  # Basic usage
  sigslot-cli signals list                      # List all signals in table format
  sigslot-cli signals list --format json        # List all signals in JSON format

  # Filtering options
  sigslot-cli signals list --owner chat         # Show only signals owned by "chat"
  sigslot-cli signals list --slots              # Include slot declarations
  sigslot-cli signals list --dir ../service     # Scan a different source tree

Output formats:
  table - Human-readable table format (default)
  json  - Machine-readable JSON format`,
	Run: signalsListHandler,
}

func signalsListHandler(cmd *cobra.Command, args []string) {
	inventory, err := analyzer.Scan(listDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to scan source tree: %v\n", err)
		os.Exit(1)
	}

	if listOwnerFilter != "" {
		inventory.Signals = filterByOwner(inventory.Signals, listOwnerFilter)
	}

	if len(inventory.Signals) == 0 && (!listSlots || len(inventory.Slots) == 0) {
		message := "No signals found"
		if listOwnerFilter != "" {
			message += fmt.Sprintf(" matching: owner '%s'", listOwnerFilter)
		}
		fmt.Println(message)
		return
	}

	switch listOutputFormat {
	case "json":
		if !listSlots {
			inventory.Slots = nil
		}
		if err := signals.DisplayInventoryJSON(inventory); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
			os.Exit(1)
		}
	case "table":
		if listOwnerFilter != "" {
			fmt.Printf("Signals for owner '%s':\n\n", listOwnerFilter)
		}
		signals.DisplaySignalsTable(inventory.Signals)
		if listSlots {
			fmt.Println()
			signals.DisplaySlotsTable(inventory.Slots)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: Unsupported output format '%s'. Use 'table' or 'json'\n", listOutputFormat)
		os.Exit(1)
	}
}

// filterByOwner keeps declarations whose name carries the given owner prefix.
func filterByOwner(decls []analyzer.SignalDecl, owner string) []analyzer.SignalDecl {
	var filtered []analyzer.SignalDecl
	for _, decl := range decls {
		prefix, _, _ := strings.Cut(decl.Name, ".")
		if prefix == owner {
			filtered = append(filtered, decl)
		}
	}
	return filtered
}

func init() {
	signalsCmd.AddCommand(signalsListCmd)

	// Add flags for output formatting and filtering
	signalsListCmd.Flags().StringVarP(&listOutputFormat, "format", "f", "table", "Output format (table, json)")
	signalsListCmd.Flags().StringVarP(&listOwnerFilter, "owner", "o", "", "Filter signals by owner prefix")
	signalsListCmd.Flags().StringVarP(&listDir, "dir", "d", "./", "Source tree to scan")
	signalsListCmd.Flags().BoolVar(&listSlots, "slots", false, "Include slot declarations")
}
