// Package ir defines the passive intermediate representation the
// precompiler produces and codegen walks, per spec §3.2/§3.3. Every type
// here is a plain data structure: construction has no side effects, so
// precompiler tests can assert on IR shape directly without going through
// codegen.
package ir

import "fmt"

// Name is a precompiler-assigned (original-name, index) pair. Index 0
// renders bare; indices ≥1 render as name1, name2, and so on. The
// precompiler guarantees every Name in a Module renders to a distinct
// string.
type Name struct {
	Base  string
	Index int
}

// String renders the Name as codegen will use it as an SSA symbol.
func (n Name) String() string {
	if n.Index == 0 {
		return n.Base
	}
	return fmt.Sprintf("%s%d", n.Base, n.Index)
}

// Module is one translation unit: an implicit "main" sequence of top-level
// statements plus every (hoisted) function declaration.
type Module struct {
	Name       string
	Functions  []*FunctionDecl
	Statements []Statement
}

// FunctionDecl is a function with a uniquely-indexed name and parameters.
type FunctionDecl struct {
	Name   Name
	Params []Name
	Body   []Statement
}
