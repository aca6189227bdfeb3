package analyzer

import (
	"os"
	"path/filepath"
	"testing"
)

const fixtureGoMod = `module fixture

go 1.21
`

const fixtureDecls = `package fixture

import (
	"github.com/nfrund/sigslot"
)

// Declarations for the order workflow.
var (
	OrderPlaced  = sigslot.NewSignal[Order]("shop.order.placed", "A customer placed an order.")
	OrderShipped = sigslot.NewSignal[*Order]("shop.order.shipped", "An order left the warehouse.")
	RecordOrder  = sigslot.NewSlot[Order]("record_order")
)

type Order struct {
	ID    string
	Total float64
}
`

const fixtureAliased = `package fixture

import (
	ss "github.com/nfrund/sigslot"
	other "example.com/other"
)

var StockLow = ss.NewSignal[int]("shop.stock.low", "Inventory dropped below the threshold.")

// Same shape, different package: must not be picked up.
var Decoy = other.NewSignal[int]("shop.decoy", "Not ours.")
`

func writeFixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"go.mod":     fixtureGoMod,
		"decls.go":   fixtureDecls,
		"aliased.go": fixtureAliased,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write fixture file %s: %v", name, err)
		}
	}
	return dir
}

func TestScan(t *testing.T) {
	dir := writeFixture(t)

	inventory, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(inventory.Signals) != 3 {
		t.Fatalf("Expected 3 signals, got %d: %+v", len(inventory.Signals), inventory.Signals)
	}
	if len(inventory.Slots) != 1 {
		t.Fatalf("Expected 1 slot, got %d: %+v", len(inventory.Slots), inventory.Slots)
	}

	// Sorted by name.
	placed := inventory.Signals[0]
	if placed.Name != "shop.order.placed" {
		t.Errorf("Expected shop.order.placed first, got %s", placed.Name)
	}
	if placed.VarName != "OrderPlaced" {
		t.Errorf("Expected var OrderPlaced, got %s", placed.VarName)
	}
	if placed.PayloadType != "Order" {
		t.Errorf("Expected payload type Order, got %s", placed.PayloadType)
	}
	if placed.Description != "A customer placed an order." {
		t.Errorf("Unexpected description: %q", placed.Description)
	}
	if placed.Line == 0 || placed.File == "" {
		t.Errorf("Expected source position, got %s:%d", placed.File, placed.Line)
	}

	if shipped := inventory.Signals[1]; shipped.PayloadType != "*Order" {
		t.Errorf("Expected pointer payload type *Order, got %s", shipped.PayloadType)
	}

	// Aliased import is matched; the decoy package is not.
	if low := inventory.Signals[2]; low.Name != "shop.stock.low" {
		t.Errorf("Expected aliased declaration shop.stock.low, got %s", low.Name)
	}

	slot := inventory.Slots[0]
	if slot.Name != "record_order" || slot.VarName != "RecordOrder" {
		t.Errorf("Unexpected slot declaration: %+v", slot)
	}
}

func TestFindSignal(t *testing.T) {
	dir := writeFixture(t)

	decl, err := FindSignal(dir, "shop.order.placed")
	if err != nil {
		t.Fatalf("FindSignal failed: %v", err)
	}
	if decl.VarName != "OrderPlaced" {
		t.Errorf("Expected var OrderPlaced, got %s", decl.VarName)
	}

	if _, err := FindSignal(dir, "shop.unknown"); err == nil {
		t.Error("Expected an error for an undeclared signal")
	}
}
