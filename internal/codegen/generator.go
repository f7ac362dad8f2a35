// Package codegen lowers internal/ir into textual SSA IR via
// internal/codegen/llvmir, per spec §4.3: variable-to-stack-slot lowering,
// assignment semantics, member-access chains, control flow, short-circuit
// logical operators, function lowering, and the temporary-lifetime
// deallocate discipline.
package codegen

import (
	"fmt"

	"github.com/jsnc-lang/jsnc/internal/codegen/llvmir"
	"github.com/jsnc-lang/jsnc/internal/ir"
)

// Generator lowers one ir.Module into one llvmir.Module.
type Generator struct {
	mod *llvmir.Module
}

// New creates a Generator that will emit into a module named name.
func New(name string) *Generator {
	return &Generator{mod: llvmir.NewModule(name)}
}

// ctx carries the per-function state threaded through statement/expression
// lowering: the builder, the map from IR name to its stack-slot register,
// the function's designated return slot, and its epilogue block.
type ctx struct {
	f        *llvmir.Function
	slots    map[string]string
	retSlot  string
	epilogue *llvmir.Block
	blockSeq int
}

// newLabel returns a codegen-unique label for a control-flow construct's
// helper blocks (then/else/continue and friends), so nested constructs of
// the same shape never collide.
func (c *ctx) newLabel(prefix string) string {
	label := fmt.Sprintf("%s.%d", prefix, c.blockSeq)
	c.blockSeq++
	return label
}

// Generate lowers m, returning the resulting textual module. The implicit
// top-level module body is emitted as a native "main" function returning
// i32, per spec §3.2's "implicit main" top-level sequence and spec
// §6(c)'s "a main function returning i32 ... followed by ret i32 0".
func (g *Generator) Generate(m *ir.Module) (*llvmir.Module, error) {
	declareRuntime(g.mod)

	for _, fn := range m.Functions {
		if err := g.lowerFunction(fn); err != nil {
			return nil, err
		}
	}
	if err := g.lowerMain(m.Statements); err != nil {
		return nil, err
	}
	return g.mod, nil
}

func (g *Generator) lowerFunction(fn *ir.FunctionDecl) error {
	v := llvmir.VariablePtrType
	f := g.mod.AddFunction(fn.Name.String(), v, []llvmir.Param{{Name: "%argv", Type: v + "*"}})
	c := &ctx{f: f, slots: make(map[string]string)}

	entry := f.AddBasicBlock("entry")
	f.SetInsertPoint(entry)

	for i, param := range fn.Params {
		argPtr := f.CreateGEPIndex(v, "%argv", i)
		argVal := f.CreateLoad(v, argPtr)
		slot := f.CreateAlloca(v)
		f.CreateStore(v, argVal, slot)
		c.slots[param.String()] = slot
	}

	c.retSlot = f.CreateAlloca(v)
	retInit := f.CreateCall(v, "allocate", nil)
	f.CreateStore(v, retInit, c.retSlot)

	c.epilogue = f.AddBasicBlock("epilogue")

	terminated, err := g.lowerStatements(c, fn.Body)
	if err != nil {
		return err
	}
	if !terminated {
		f.CreateBr("epilogue")
	}

	f.SetInsertPoint(c.epilogue)
	retVal := f.CreateLoad(v, c.retSlot)
	f.CreateRet(v, retVal)
	return nil
}

// lowerMain emits the module's top-level statements as a native
// `i32 main()`, not the `Variable* (Variable** argv)` shape ordinary
// functions get: main is never called from generated code, takes no
// argv, and always exits with `ret i32 0` rather than handing back a
// dynamic value (spec §6(c)). A retSlot is still threaded through in
// case a stray top-level `return` statement branches to the epilogue
// early; its stored Variable* is simply never read back out.
func (g *Generator) lowerMain(stmts []ir.Statement) error {
	v := llvmir.VariablePtrType
	f := g.mod.AddFunction("main", "i32", nil)
	c := &ctx{f: f, slots: make(map[string]string)}

	entry := f.AddBasicBlock("entry")
	f.SetInsertPoint(entry)

	c.retSlot = f.CreateAlloca(v)
	retInit := f.CreateCall(v, "allocate", nil)
	f.CreateStore(v, retInit, c.retSlot)
	c.epilogue = f.AddBasicBlock("epilogue")

	terminated, err := g.lowerStatements(c, stmts)
	if err != nil {
		return err
	}
	if !terminated {
		f.CreateBr("epilogue")
	}

	f.SetInsertPoint(c.epilogue)
	f.CreateRet("i32", "0")
	return nil
}
