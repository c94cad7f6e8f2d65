package arch_test

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"
)

// TestPackagesHaveDoc verifies that every internal package carries a
// "// Package <name>" comment in at least one of its files.
func TestPackagesHaveDoc(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		t.Run(pkg, func(t *testing.T) {
			t.Parallel()

			fset := token.NewFileSet()
			for _, f := range goFilesIn(t, filepath.Join(dir, pkg)) {
				node, err := parser.ParseFile(fset, f, nil, parser.PackageClauseOnly|parser.ParseComments)
				if err != nil {
					t.Fatalf("parsing %s: %v", f, err)
				}
				if node.Doc != nil && strings.HasPrefix(node.Doc.Text(), "Package "+node.Name.Name) {
					return
				}
			}
			t.Errorf("package %s has no package doc comment", pkg)
		})
	}
}
