// Package analyzer discovers signal and slot declarations in Go source trees
// by walking package ASTs for sigslot.NewSignal and sigslot.NewSlot calls.
package analyzer

import (
	"fmt"
	"go/ast"
	"go/token"
	"sort"
	"strconv"

	"golang.org/x/tools/go/packages"
)

// ImportPath is the import path declarations are matched against.
const ImportPath = "github.com/nfrund/sigslot"

// SignalDecl represents a package-level signal declaration
type SignalDecl struct {
	VarName     string `json:"var"`
	Name        string `json:"name"`
	PayloadType string `json:"payload_type"`
	Description string `json:"description"`
	File        string `json:"file"`
	Line        int    `json:"line"`
}

// SlotDecl represents a package-level slot declaration
type SlotDecl struct {
	VarName     string `json:"var"`
	Name        string `json:"name"`
	PayloadType string `json:"payload_type"`
	File        string `json:"file"`
	Line        int    `json:"line"`
}

// Inventory is the set of declarations found in a source tree
type Inventory struct {
	Signals []SignalDecl `json:"signals"`
	Slots   []SlotDecl   `json:"slots"`
}

// Scan loads the packages under root and collects signal and slot
// declarations. Loading is syntax-only; calls are matched through each
// file's sigslot import, so the tree does not need to type-check.
func Scan(root string) (*Inventory, error) {
	cfg := &packages.Config{
		Mode:  packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:   root,
		Tests: false, // Don't include test files
	}

	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	inventory := &Inventory{}
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			collectFile(pkg.Fset, file, inventory)
		}
	}

	sort.Slice(inventory.Signals, func(i, j int) bool {
		return inventory.Signals[i].Name < inventory.Signals[j].Name
	})
	sort.Slice(inventory.Slots, func(i, j int) bool {
		return inventory.Slots[i].Name < inventory.Slots[j].Name
	})

	return inventory, nil
}

// FindSignal scans root and returns the declaration of the named signal.
func FindSignal(root, name string) (*SignalDecl, error) {
	inventory, err := Scan(root)
	if err != nil {
		return nil, err
	}

	for i := range inventory.Signals {
		if inventory.Signals[i].Name == name {
			return &inventory.Signals[i], nil
		}
	}

	return nil, fmt.Errorf("signal not declared: %s", name)
}

// collectFile walks one file's AST for declarations.
func collectFile(fset *token.FileSet, file *ast.File, inventory *Inventory) {
	alias := sigslotAlias(file)
	if alias == "" {
		return
	}

	ast.Inspect(file, func(n ast.Node) bool {
		// We are looking for `var MySignal = sigslot.NewSignal[...](...)`.
		genDecl, ok := n.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			return true
		}

		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}

			for i, varName := range valueSpec.Names {
				if i >= len(valueSpec.Values) {
					break
				}

				callExpr, ok := valueSpec.Values[i].(*ast.CallExpr)
				if !ok {
					continue
				}

				callee, typeArg := genericCallee(callExpr)
				if callee == nil {
					continue
				}
				pkgIdent, ok := callee.X.(*ast.Ident)
				if !ok || pkgIdent.Name != alias {
					continue
				}

				pos := fset.Position(varName.Pos())

				switch callee.Sel.Name {
				case "NewSignal":
					inventory.Signals = append(inventory.Signals, SignalDecl{
						VarName:     varName.Name,
						Name:        stringArg(callExpr, 0),
						PayloadType: typeString(typeArg),
						Description: stringArg(callExpr, 1),
						File:        pos.Filename,
						Line:        pos.Line,
					})
				case "NewSlot":
					inventory.Slots = append(inventory.Slots, SlotDecl{
						VarName:     varName.Name,
						Name:        stringArg(callExpr, 0),
						PayloadType: typeString(typeArg),
						File:        pos.Filename,
						Line:        pos.Line,
					})
				}
			}
		}
		return true
	})
}

// sigslotAlias returns the local name the file imports the sigslot package
// under, or "" when the file does not import it. Dot imports are not
// supported.
func sigslotAlias(file *ast.File) string {
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != ImportPath {
			continue
		}
		if imp.Name != nil {
			if imp.Name.Name == "." || imp.Name.Name == "_" {
				return ""
			}
			return imp.Name.Name
		}
		return "sigslot"
	}
	return ""
}

// genericCallee unpacks a generic call like pkg.Fn[T](...) into the selector
// and its single type argument.
func genericCallee(callExpr *ast.CallExpr) (*ast.SelectorExpr, ast.Expr) {
	indexExpr, ok := callExpr.Fun.(*ast.IndexExpr)
	if !ok {
		return nil, nil
	}
	selExpr, ok := indexExpr.X.(*ast.SelectorExpr)
	if !ok {
		return nil, nil
	}
	return selExpr, indexExpr.Index
}

// stringArg extracts a string literal argument, or "" when the argument is
// absent or not a plain literal.
func stringArg(callExpr *ast.CallExpr, i int) string {
	if i >= len(callExpr.Args) {
		return ""
	}
	basicLit, ok := callExpr.Args[i].(*ast.BasicLit)
	if !ok || basicLit.Kind != token.STRING {
		return ""
	}
	value, err := strconv.Unquote(basicLit.Value)
	if err != nil {
		return ""
	}
	return value
}

// typeString converts an AST type expression to string
func typeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + typeString(t.X)
	case *ast.SelectorExpr:
		return typeString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + typeString(t.Elt)
	case *ast.MapType:
		return "map[" + typeString(t.Key) + "]" + typeString(t.Value)
	default:
		return "unknown"
	}
}
