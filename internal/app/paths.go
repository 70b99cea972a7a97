package app

import (
	"path/filepath"
	"strings"
)

// deriveOutputPath maps an input page to an output file under dir with the
// given extension, e.g. docs/org/x/FooTest.html -> out/FooTest.tex. The
// base name is kept so the LaTeX side can \input files by test class.
func deriveOutputPath(dir, input, ext string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "output"
	}
	return filepath.Join(dir, base+ext)
}

// replaceExt swaps the extension of path.
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// baseTitle is the fallback title when a page has no <title> element.
func baseTitle(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
