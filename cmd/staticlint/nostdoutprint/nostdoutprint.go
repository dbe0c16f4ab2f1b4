// Package nostdoutprint defines an analyzer that keeps library packages
// from printing straight to standard output.
package nostdoutprint

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports fmt.Print, fmt.Printf, fmt.Println and the print/println
// builtins outside package main. The menu owns standard output and every
// other package writes through an io.Writer it is given.
var Analyzer = &analysis.Analyzer{
	Name: "nostdoutprint",
	Doc:  "forbids printing to standard output outside package main",
	Run:  run,
}

var forbiddenFmt = map[string]bool{
	"Print":   true,
	"Printf":  true,
	"Println": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() == "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		filename := pass.Fset.File(file.Pos()).Name()
		if strings.HasSuffix(filename, "_test.go") || ast.IsGenerated(file) {
			continue
		}

		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			switch fun := call.Fun.(type) {
			case *ast.SelectorExpr:
				obj, ok := pass.TypesInfo.Uses[fun.Sel].(*types.Func)
				if ok && obj.Pkg() != nil && obj.Pkg().Path() == "fmt" && forbiddenFmt[obj.Name()] {
					pass.Reportf(call.Pos(), "use an io.Writer instead of fmt.%s", obj.Name())
				}
			case *ast.Ident:
				if builtin, ok := pass.TypesInfo.Uses[fun].(*types.Builtin); ok {
					if builtin.Name() == "print" || builtin.Name() == "println" {
						pass.Reportf(call.Pos(), "use an io.Writer instead of %s", builtin.Name())
					}
				}
			}

			return true
		})
	}

	return nil, nil
}
