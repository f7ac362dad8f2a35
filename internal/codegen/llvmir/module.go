// Package llvmir is a small textual SSA builder in the shape of an
// LLVM IR builder API (CreateAlloca, CreateStore, CreateCondBr, and so on)
// without depending on a real LLVM binding: it assembles IR as text via
// strings.Builder, since invoking the external assembler and linker that
// would consume this text is out of this compiler's scope.
package llvmir

import (
	"fmt"
	"strings"
)

// VariablePtrType is the textual IR type of every runtime dynamic-value
// handle: a pointer to the opaque "core" runtime tagged union.
const VariablePtrType = "%Variable*"

// Module is one compiled translation unit's worth of textual IR: a set of
// extern function declarations (the runtime ABI) plus the function
// definitions codegen produces from an ir.Module.
type Module struct {
	Name string
	// TargetTriple, when set, is emitted as the module's `target triple`
	// directive — the driver's --config target string, per spec §6's
	// "additional names may be injected by the driver" hook.
	TargetTriple string
	externs      []string
	globals      []string
	functions    []*Function
}

// NewModule creates an empty Module named name.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// DeclareExternFunction registers an external function declaration (the
// runtime ABI surface of spec §4.4), emitted once per module regardless of
// how many call sites reference it.
func (m *Module) DeclareExternFunction(name, retType string, paramTypes []string) {
	line := fmt.Sprintf("declare %s @%s(%s)", retType, name, strings.Join(paramTypes, ", "))
	for _, existing := range m.externs {
		if existing == line {
			return
		}
	}
	m.externs = append(m.externs, line)
}

// DeclareGlobalString adds a new private string constant on every call
// (equal strings are not shared), returning the name of the global it was
// assigned.
func (m *Module) DeclareGlobalString(value string) string {
	name := fmt.Sprintf("@.str.%d", len(m.globals))
	escaped := strings.NewReplacer("\\", "\\5C", "\"", "\\22", "\n", "\\0A").Replace(value)
	m.globals = append(m.globals, fmt.Sprintf(
		"%s = private unnamed_addr constant [%d x i8] c\"%s\\00\"",
		name, len(value)+1, escaped,
	))
	return name
}

// AddFunction creates and appends a new Function definition.
func (m *Module) AddFunction(name, retType string, params []Param) *Function {
	f := &Function{Name: name, RetType: retType, Params: params}
	m.functions = append(m.functions, f)
	return f
}

// String renders the full module as LLVM-style textual IR.
func (m *Module) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; ModuleID = '%s'\n", m.Name)
	if m.TargetTriple != "" {
		fmt.Fprintf(&sb, "target triple = %q\n", m.TargetTriple)
	}
	sb.WriteByte('\n')
	for _, g := range m.globals {
		sb.WriteString(g)
		sb.WriteByte('\n')
	}
	if len(m.globals) > 0 {
		sb.WriteByte('\n')
	}
	for _, e := range m.externs {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}
	if len(m.externs) > 0 {
		sb.WriteByte('\n')
	}
	for i, f := range m.functions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		f.writeTo(&sb)
	}
	return sb.String()
}
