package arch_test

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxFilesPerPackage = 12
	maxLinesPerFile    = 400
)

// lineCountExceptions lists files allowed past maxLinesPerFile, keyed by
// path relative to the repo root.
var lineCountExceptions = map[string]int{
	// One table case per row of the one-hop relation table.
	"internal/cascade/cascade_test.go": 470,
}

// isGenerated reports whether the file begins with a "// Code generated" comment.
func isGenerated(t *testing.T, filePath string) bool {
	t.Helper()

	f, err := os.Open(filePath)
	if err != nil {
		t.Fatalf("opening %s: %v", filePath, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return strings.HasPrefix(scanner.Text(), "// Code generated")
	}
	return false
}

// TestPackageFileCount verifies that no internal package has more than
// maxFilesPerPackage non-test .go files.
func TestPackageFileCount(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		if count := len(goFilesIn(t, filepath.Join(dir, pkg))); count > maxFilesPerPackage {
			t.Errorf("package %s has %d .go files (limit: %d); consider splitting", pkg, count, maxFilesPerPackage)
		}
	}
}

// TestFileLineCount verifies that no .go file in internal packages exceeds
// maxLinesPerFile lines, or its recorded exception.
func TestFileLineCount(t *testing.T) {
	t.Parallel()

	root := repoRoot(t)
	dir := internalDirPath(t)

	for _, pkg := range internalPackages(t) {
		for _, filePath := range allGoFilesIn(t, filepath.Join(dir, pkg)) {
			rel, err := filepath.Rel(root, filePath)
			if err != nil {
				t.Fatalf("computing relative path for %s: %v", filePath, err)
			}
			rel = filepath.ToSlash(rel)

			t.Run(rel, func(t *testing.T) {
				t.Parallel()

				if isGenerated(t, filePath) {
					t.Skipf("skipping generated file %s", rel)
				}

				limit := maxLinesPerFile
				if n, ok := lineCountExceptions[rel]; ok {
					limit = n
				}
				if count := lineCount(t, filePath); count > limit {
					t.Errorf("%s has %d lines (limit: %d); consider decomposing", rel, count, limit)
				}
			})
		}
	}
}
