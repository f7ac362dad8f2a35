package llvmir

import (
	"fmt"
	"strings"
)

// Param is one function parameter: its IR type and register name.
type Param struct {
	Name string
	Type string
}

// Block is a single basic block: a label and its ordered instructions.
type Block struct {
	Label string

	f      *Function
	instrs []string
}

// Function is one function definition under construction.
type Function struct {
	Name    string
	RetType string
	Params  []Param

	blocks  []*Block
	cur     *Block
	nextTmp int
}

// AddBasicBlock creates a new block named label (the builder still needs
// SetInsertPoint to start emitting into it).
func (f *Function) AddBasicBlock(label string) *Block {
	b := &Block{Label: label, f: f}
	f.blocks = append(f.blocks, b)
	return b
}

// SetInsertPoint moves the builder's current insertion point to b.
func (f *Function) SetInsertPoint(b *Block) {
	f.cur = b
}

// NewTemp allocates a fresh SSA register name, e.g. "%t3".
func (f *Function) NewTemp() string {
	name := fmt.Sprintf("%%t%d", f.nextTmp)
	f.nextTmp++
	return name
}

func (f *Function) emit(format string, args ...any) {
	f.cur.instrs = append(f.cur.instrs, fmt.Sprintf(format, args...))
}

func (f *Function) writeTo(sb *strings.Builder) {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s %s", p.Type, p.Name)
	}
	fmt.Fprintf(sb, "define %s @%s(%s) {\n", f.RetType, f.Name, strings.Join(params, ", "))
	for _, b := range f.blocks {
		fmt.Fprintf(sb, "%s:\n", strings.TrimPrefix(b.Label, "%"))
		for _, instr := range b.instrs {
			fmt.Fprintf(sb, "  %s\n", instr)
		}
	}
	sb.WriteString("}\n")
}
