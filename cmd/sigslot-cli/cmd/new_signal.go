package cmd

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"log"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/nfrund/sigslot/catalog"
	"github.com/nfrund/sigslot/cmd/sigslot-cli/internal/analyzer"
	"github.com/spf13/cobra"
	"golang.org/x/tools/go/ast/astutil"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	signalName        string
	signalType        string
	signalVar         string
	signalDescription string
	signalFile        string
	signalPackage     string
)

// newSignalCmd represents the new-signal command
var newSignalCmd = &cobra.Command{
	Use:   "new-signal",
	Short: "Scaffold a new signal declaration",
	Long: `Creates a package-level signal declaration and adds it to a declarations file.
If the target file does not exist it is created; otherwise the declaration is
appended to the existing file, adding the sigslot import when missing.`,
	Run: func(cmd *cobra.Command, args []string) {
		if signalName == "" {
			log.Fatal("Signal name is required: --name=<owner.subject.event>")
		}
		if err := catalog.ValidateName(signalName); err != nil {
			log.Fatalf("Invalid signal name: %v", err)
		}

		if signalVar == "" {
			signalVar = pascalName(signalName)
		}
		if signalDescription == "" {
			signalDescription = fmt.Sprintf("Describe the %s signal here.", signalName)
		}

		if _, err := os.Stat(signalFile); os.IsNotExist(err) {
			if err := generateDeclarationsFile(); err != nil {
				log.Fatalf("Failed to generate %s: %v", signalFile, err)
			}
		} else if err := appendDeclaration(); err != nil {
			log.Fatalf("Failed to update %s: %v", signalFile, err)
		}

		fmt.Printf("✅ Added signal '%s' to %s\n", signalName, signalFile)
		fmt.Printf("\nvar %s = sigslot.NewSignal[%s](%q, %q)\n",
			signalVar, signalType, signalName, signalDescription)
	},
}

func init() {
	rootCmd.AddCommand(newSignalCmd)

	newSignalCmd.Flags().StringVarP(&signalName, "name", "n", "", "The signal name (e.g., 'chat.message.posted')")
	newSignalCmd.Flags().StringVarP(&signalType, "type", "t", "string", "The payload type")
	newSignalCmd.Flags().StringVar(&signalVar, "var", "", "The variable name (defaults to the PascalCase signal name)")
	newSignalCmd.Flags().StringVar(&signalDescription, "description", "", "The declaration description")
	newSignalCmd.Flags().StringVar(&signalFile, "file", "signals.go", "The declarations file to create or extend")
	newSignalCmd.Flags().StringVar(&signalPackage, "package", "main", "Package name when creating a new file")
}

// pascalName converts a dotted signal name into a PascalCase identifier.
func pascalName(name string) string {
	caser := cases.Title(language.English)
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '.' || r == '_' }) {
		b.WriteString(caser.String(part))
	}
	return b.String()
}

type declTemplateData struct {
	Package     string
	VarName     string
	Type        string
	Name        string
	Description string
}

func generateDeclarationsFile() error {
	t, err := template.New("").Parse(declarationsTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	data := declTemplateData{
		Package:     signalPackage,
		VarName:     signalVar,
		Type:        signalType,
		Name:        signalName,
		Description: signalDescription,
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return os.WriteFile(signalFile, buf.Bytes(), 0644)
}

// appendDeclaration adds the new declaration to an existing Go file.
func appendDeclaration() error {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, signalFile, nil, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", signalFile, err)
	}

	typeExpr, err := parser.ParseExpr(signalType)
	if err != nil {
		return fmt.Errorf("invalid payload type %q: %w", signalType, err)
	}

	astutil.AddImport(fset, node, analyzer.ImportPath)

	newDecl := &ast.GenDecl{
		Tok: token.VAR,
		Specs: []ast.Spec{
			&ast.ValueSpec{
				Names: []*ast.Ident{ast.NewIdent(signalVar)},
				Values: []ast.Expr{
					&ast.CallExpr{
						Fun: &ast.IndexExpr{
							X: &ast.SelectorExpr{
								X:   ast.NewIdent("sigslot"),
								Sel: ast.NewIdent("NewSignal"),
							},
							Index: typeExpr,
						},
						Args: []ast.Expr{
							&ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(signalName)},
							&ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(signalDescription)},
						},
					},
				},
			},
		},
	}
	node.Decls = append(node.Decls, newDecl)

	return writeASTToFile(fset, node, signalFile)
}

func writeASTToFile(fset *token.FileSet, node *ast.File, filename string) error {
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, node); err != nil {
		return fmt.Errorf("failed to format AST: %w", err)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", filename, err)
	}
	return nil
}

const declarationsTemplate = `package {{.Package}}

import (
	"github.com/nfrund/sigslot"
)

var {{.VarName}} = sigslot.NewSignal[{{.Type}}]({{printf "%q" .Name}}, {{printf "%q" .Description}})
`
