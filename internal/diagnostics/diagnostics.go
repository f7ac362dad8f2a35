// Package diagnostics pretty-prints compiler data structures and sorts
// multi-file diagnostic listings in natural (human) order rather than
// strict lexical order, so "file2.jsnc" sorts before "file10.jsnc".
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/kr/pretty"
	"github.com/maruel/natural"
)

// Dump pretty-prints v (an *ast.Program, *ir.Module, or any other compiler
// data structure) for debugging output; `jsnc ir` uses it to print the IR
// module.
func Dump(label string, v any) string {
	return fmt.Sprintf("%s:\n%s\n", label, pretty.Sprint(v))
}

// FileDiagnostics groups the errors raised while processing one file.
type FileDiagnostics struct {
	File   string
	Errors []error
}

// SortByFileNatural sorts diagnostics by file name in natural order, so
// numeric suffixes compare numerically rather than lexically.
func SortByFileNatural(diags []FileDiagnostics) {
	sort.Slice(diags, func(i, j int) bool {
		return natural.Less(diags[i].File, diags[j].File)
	})
}
