// Package signals formats signal and slot declarations for CLI output.
package signals

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nfrund/sigslot/cmd/sigslot-cli/internal/analyzer"
)

// DisplaySignalsTable displays signal declarations in a formatted table
func DisplaySignalsTable(decls []analyzer.SignalDecl) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "NAME\tPAYLOAD\tVAR\tDESCRIPTION")
	fmt.Fprintln(w, "----\t-------\t---\t-----------")

	for _, decl := range decls {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			decl.Name,
			decl.PayloadType,
			decl.VarName,
			truncateString(decl.Description, 50))
	}
}

// DisplaySlotsTable displays slot declarations in a formatted table
func DisplaySlotsTable(decls []analyzer.SlotDecl) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "NAME\tPAYLOAD\tVAR")
	fmt.Fprintln(w, "----\t-------\t---")

	for _, decl := range decls {
		fmt.Fprintf(w, "%s\t%s\t%s\n", decl.Name, decl.PayloadType, decl.VarName)
	}
}

// DisplayInventoryJSON displays a full inventory in JSON format
func DisplayInventoryJSON(inventory *analyzer.Inventory) error {
	output := struct {
		Signals     []analyzer.SignalDecl `json:"signals"`
		Slots       []analyzer.SlotDecl   `json:"slots"`
		SignalCount int                   `json:"signal_count"`
		SlotCount   int                   `json:"slot_count"`
	}{
		Signals:     inventory.Signals,
		Slots:       inventory.Slots,
		SignalCount: len(inventory.Signals),
		SlotCount:   len(inventory.Slots),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// DisplaySignalDetails displays detailed information for a single declaration
func DisplaySignalDetails(decl *analyzer.SignalDecl, format string) error {
	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(decl)
	}

	fmt.Printf("Name:        %s\n", decl.Name)
	fmt.Printf("Payload:     %s\n", decl.PayloadType)
	fmt.Printf("Var:         %s\n", decl.VarName)
	fmt.Printf("Description: %s\n", decl.Description)
	fmt.Printf("Declared:    %s:%d\n", decl.File, decl.Line)
	return nil
}

// truncateString truncates a string to maxLen characters, adding "..." if truncated
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
