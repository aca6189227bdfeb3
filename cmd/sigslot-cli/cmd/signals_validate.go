package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/nfrund/sigslot/catalog"
	"github.com/nfrund/sigslot/cmd/sigslot-cli/internal/analyzer"
	"github.com/spf13/cobra"
)

var validateDir string

// signalsValidateCmd represents the signals validate command
var signalsValidateCmd = &cobra.Command{
	Use:   "validate <signal-name>",
	Short: "Validate a signal name and declaration",
	Long: `Validate a signal name and its declaration to ensure it follows proper naming
conventions and has complete configuration.

The validation process includes:
- Signal name format validation (lowercase, alphanumeric, dots only)
- Reserved prefix checking
- Declaration completeness (payload type, description)

Examples:
  # Basic validation
  sigslot-cli signals validate chat.message.posted   # Validate a declared signal
  sigslot-cli signals validate user.created          # Validate another signal

  # Error cases
  sigslot-cli signals validate Invalid.Signal        # Shows name format error
  sigslot-cli signals validate nonexistent.signal    # Shows "signal not declared" error

Output:
  ✅ Success - Shows signal is valid with details
  ❌ Error   - Shows specific validation failure with explanation`,
	Args: cobra.ExactArgs(1),
	Run:  signalsValidateHandler,
}

func signalsValidateHandler(cmd *cobra.Command, args []string) {
	signalName := args[0]

	// First validate the name format
	if err := catalog.ValidateName(signalName); err != nil {
		fmt.Printf("❌ Signal name validation failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nSignal names must follow the pattern: owner.subject.event\n")
		fmt.Fprintf(os.Stderr, "Examples: chat.message.posted, sensor.reading.updated\n")
		os.Exit(1)
	}

	// Look up the declaration in the source tree
	decl, err := analyzer.FindSignal(validateDir, signalName)
	if err != nil {
		fmt.Printf("❌ Signal validation failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nUse 'sigslot-cli signals list' to see all declared signals.\n")
		os.Exit(1)
	}

	// Validate the declaration completeness
	owner, _, _ := strings.Cut(signalName, ".")
	config := catalog.Config{
		Name:        decl.Name,
		Owner:       owner,
		Description: decl.Description,
		Payload:     decl.PayloadType,
	}
	if err := catalog.ValidateConfig(config); err != nil {
		fmt.Printf("❌ Signal declaration validation failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nDeclarations need a payload type and a description.\n")
		os.Exit(1)
	}

	// Success case - display declaration details
	fmt.Printf("✅ Signal '%s' is valid\n", decl.Name)
	fmt.Printf("   Owner: %s\n", owner)
	fmt.Printf("   Payload: %s\n", decl.PayloadType)
	fmt.Printf("   Description: %s\n", decl.Description)
	fmt.Printf("   Declared: %s:%d\n", decl.File, decl.Line)
}

func init() {
	signalsCmd.AddCommand(signalsValidateCmd)

	signalsValidateCmd.Flags().StringVarP(&validateDir, "dir", "d", "./", "Source tree to scan")
}
