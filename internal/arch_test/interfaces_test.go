package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"testing"
)

// allowedColocations maps package names to interfaces that are legitimately
// defined next to their implementations.
var allowedColocations = map[string]map[string]bool{
	// Strategy pattern: Substring and Fuzzy are selected by NewMatcher, and
	// session/tui consume the interface.
	"filter": {
		"Matcher": true,
	},
}

// structMethodsInPkg maps each receiver type in pkgDir to its method names.
func structMethodsInPkg(t *testing.T, pkgDir string) map[string][]string {
	t.Helper()

	result := make(map[string][]string)
	fset := token.NewFileSet()
	for _, f := range goFilesIn(t, pkgDir) {
		node, err := parser.ParseFile(fset, f, nil, parser.SkipObjectResolution)
		if err != nil {
			t.Fatalf("parsing %s: %v", f, err)
		}
		for _, decl := range node.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil {
				continue
			}
			if recv := receiverTypeName(fd.Recv); recv != "" {
				result[recv] = append(result[recv], fd.Name.Name)
			}
		}
	}
	return result
}

// receiverTypeName extracts the type name from a receiver, unwrapping pointers.
func receiverTypeName(fl *ast.FieldList) string {
	if fl == nil || len(fl.List) == 0 {
		return ""
	}
	expr := fl.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

func implementsAll(ifaceMethods, structMethods []string) bool {
	set := make(map[string]bool, len(structMethods))
	for _, m := range structMethods {
		set[m] = true
	}
	for _, m := range ifaceMethods {
		if !set[m] {
			return false
		}
	}
	return true
}

// TestInterfacePlacement verifies that interfaces are defined where they are
// consumed, not next to a type that implements them, unless allowlisted.
func TestInterfacePlacement(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		t.Run(pkg, func(t *testing.T) {
			t.Parallel()

			pkgDir := filepath.Join(dir, pkg)
			var ifaces []interfaceDecl
			for _, f := range goFilesIn(t, pkgDir) {
				ifaces = append(ifaces, interfaceDecls(t, f)...)
			}
			if len(ifaces) == 0 {
				return
			}

			methods := structMethodsInPkg(t, pkgDir)
			for _, iface := range ifaces {
				if len(iface.Methods) == 0 || allowedColocations[pkg][iface.Name] {
					continue
				}
				for typeName, typeMethods := range methods {
					if implementsAll(iface.Methods, typeMethods) {
						t.Errorf("interface %s defined in %s but %s in the same package implements it; move interface to consumer",
							iface.Name, pkg, typeName)
					}
				}
			}
		})
	}
}

func TestAllowedColocationsExist(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for pkg, names := range allowedColocations {
		declared := make(map[string]bool)
		for _, f := range goFilesIn(t, filepath.Join(dir, pkg)) {
			for _, d := range interfaceDecls(t, f) {
				declared[d.Name] = true
			}
		}
		for name := range names {
			if !declared[name] {
				t.Errorf("allowedColocations[%q] lists %s but no such interface exists", pkg, name)
			}
		}
	}
}
