// Package exec walks an ir.Module directly against internal/core's
// Variable semantics, standing in for the compiled-and-linked native
// binary spec §1 treats as an external artifact (the assembler and
// linker are out of scope; this package is how the rest of this repo
// exercises a program end to end without them).
package exec

import (
	"fmt"
	"io"
	"os"

	"github.com/jsnc-lang/jsnc/internal/core"
	"github.com/jsnc-lang/jsnc/internal/ir"
	"github.com/jsnc-lang/jsnc/internal/token"
)

// Machine executes one ir.Module. Output defaults to os.Stdout; tests
// redirect it to capture print()'s writes.
type Machine struct {
	Output    io.Writer
	functions map[string]*ir.FunctionDecl
	callStack callStack
}

// New creates a Machine ready to Run a module.
func New() *Machine {
	return &Machine{Output: os.Stdout}
}

// signal is the control-flow unwinding mechanism for return statements,
// mirroring the generated code's branch-to-epilogue-block behavior
// without needing actual basic blocks.
type signal struct {
	returning bool
	value     *core.Value
}

// RuntimeError is a failure during execution: an abort() call, an
// undefined-callee reference, or any other condition the compiled
// program's runtime would itself treat as fatal.
type RuntimeError struct {
	Message string
	Stack   callStack
}

func (e *RuntimeError) Error() string {
	if len(e.Stack) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s\n%s", e.Message, e.Stack.String())
}

// Run executes m's top-level statements after registering every
// function declaration (functions hoist to file scope, spec §3.5).
func (machine *Machine) Run(m *ir.Module) error {
	machine.functions = make(map[string]*ir.FunctionDecl, len(m.Functions))
	for _, fn := range m.Functions {
		machine.functions[fn.Name.String()] = fn
	}

	machine.callStack = nil
	frame := newFrame(nil)
	_, err := machine.execBlock(frame, "main", m.Statements)
	return err
}

// frame is one call's local-variable environment. Every IR name in a
// translation unit renders to a distinct string (spec §3.3), so a flat
// map suffices: there is no nested lexical scoping left to model once
// the precompiler has resolved identifiers.
type frame struct {
	vars map[string]*core.Value
}

func newFrame(args map[string]*core.Value) *frame {
	f := &frame{vars: make(map[string]*core.Value)}
	for k, v := range args {
		f.vars[k] = v
	}
	return f
}

func (f *frame) get(name string) (*core.Value, bool) {
	v, ok := f.vars[name]
	return v, ok
}

func (f *frame) set(name string, v *core.Value) {
	f.vars[name] = v
}

func (machine *Machine) abort(funcName string, pos token.Position, format string, args ...any) error {
	trace := make(callStack, len(machine.callStack), len(machine.callStack)+1)
	copy(trace, machine.callStack)
	trace = append(trace, callFrame{functionName: funcName, position: &pos})
	return &RuntimeError{
		Message: fmt.Sprintf(format, args...),
		Stack:   trace,
	}
}

// execBlock runs stmts in order, returning the unwinding signal (if a
// return was hit) so callers above it in the IR tree can stop early.
func (machine *Machine) execBlock(f *frame, funcName string, stmts []ir.Statement) (signal, error) {
	for _, stmt := range stmts {
		sig, err := machine.execStatement(f, funcName, stmt)
		if err != nil {
			return signal{}, err
		}
		if sig.returning {
			return sig, nil
		}
	}
	return signal{}, nil
}

func (machine *Machine) execStatement(f *frame, funcName string, stmt ir.Statement) (signal, error) {
	switch s := stmt.(type) {
	case *ir.VarDecl:
		v, err := machine.evalExpr(f, funcName, s.Init)
		if err != nil {
			return signal{}, err
		}
		nv := core.Undefined()
		nv.SetVariable(v)
		f.set(s.Name.String(), nv)
		return signal{}, nil

	case *ir.Assignment:
		v, err := machine.evalExpr(f, funcName, s.Value)
		if err != nil {
			return signal{}, err
		}
		return signal{}, machine.assign(f, funcName, s.Target, v)

	case *ir.ExprStmt:
		_, err := machine.evalExpr(f, funcName, s.Expr)
		return signal{}, err

	case *ir.ReturnStmt:
		if !s.HasValue {
			return signal{returning: true, value: core.Undefined()}, nil
		}
		v, err := machine.evalExpr(f, funcName, s.Value)
		if err != nil {
			return signal{}, err
		}
		return signal{returning: true, value: v}, nil

	case *ir.Deallocate:
		// No garbage collector to free from (core.Value is Go-GC'd); the
		// binding simply goes out of scope.
		delete(f.vars, s.Target.String())
		return signal{}, nil

	case *ir.IfStmt:
		cond, err := machine.evalExpr(f, funcName, s.Cond)
		if err != nil {
			return signal{}, err
		}
		if cond.ToBoolean() {
			return machine.execBlock(f, funcName, s.Then)
		}
		if s.HasElse {
			return machine.execBlock(f, funcName, s.Else)
		}
		return signal{}, nil

	case *ir.WhileStmt:
		for {
			cond, err := machine.evalExpr(f, funcName, s.Cond)
			if err != nil {
				return signal{}, err
			}
			if !cond.ToBoolean() {
				return signal{}, nil
			}
			sig, err := machine.execBlock(f, funcName, s.Body)
			if err != nil || sig.returning {
				return sig, err
			}
		}

	case *ir.DoWhileStmt:
		for {
			sig, err := machine.execBlock(f, funcName, s.Body)
			if err != nil || sig.returning {
				return sig, err
			}
			cond, err := machine.evalExpr(f, funcName, s.Cond)
			if err != nil {
				return signal{}, err
			}
			if !cond.ToBoolean() {
				return signal{}, nil
			}
		}

	default:
		return signal{}, fmt.Errorf("unsupported IR statement %T", stmt)
	}
}

func (machine *Machine) assign(f *frame, funcName string, target ir.Expression, v *core.Value) error {
	switch t := target.(type) {
	case ir.IdentifierValue:
		dst, ok := f.get(t.Name.String())
		if !ok {
			dst = core.Undefined()
			f.set(t.Name.String(), dst)
		}
		dst.SetVariable(v)
		return nil

	case *ir.MemberDot:
		base, err := machine.evalExpr(f, funcName, t.Base)
		if err != nil {
			return err
		}
		base.GetPropertyByName(t.Name, true).SetVariable(v)
		return nil

	case *ir.MemberIndex:
		base, err := machine.evalExpr(f, funcName, t.Base)
		if err != nil {
			return err
		}
		idx, err := machine.evalExpr(f, funcName, t.Index)
		if err != nil {
			return err
		}
		base.GetPropertyByVar(idx, true).SetVariable(v)
		return nil

	default:
		return fmt.Errorf("unsupported assignment target %T", target)
	}
}

func (machine *Machine) evalExpr(f *frame, funcName string, e ir.Expression) (*core.Value, error) {
	switch v := e.(type) {
	case ir.UndefinedValue:
		return core.Undefined(), nil
	case ir.NullValue:
		return core.Null(), nil
	case ir.NaNValue:
		return core.NaN(), nil
	case ir.InfinityValue:
		return core.Infinity(), nil
	case ir.NegInfinityValue:
		return core.NegInfinity(), nil
	case ir.BooleanValue:
		return core.NewBoolean(v.Val), nil
	case ir.NumberValue:
		return core.NewNumber(v.Val), nil
	case ir.StringValue:
		return core.NewString(v.Val), nil

	case ir.IdentifierValue:
		val, ok := f.get(v.Name.String())
		if !ok {
			return nil, machine.abort(funcName, token.Position{}, "reference to undefined variable %q", v.Name.String())
		}
		return val, nil

	case ir.ObjectLiteralValue:
		obj := core.NewObject()
		for _, prop := range v.Props {
			pv, err := machine.evalExpr(f, funcName, prop.Value)
			if err != nil {
				return nil, err
			}
			obj.GetPropertyByName(prop.Key, true).SetVariable(pv)
		}
		return obj, nil

	case ir.ArrayLiteralValue:
		elems := make([]*core.Value, len(v.Elements))
		for i, el := range v.Elements {
			ev, err := machine.evalExpr(f, funcName, el)
			if err != nil {
				return nil, err
			}
			dup := core.Undefined()
			dup.SetVariable(ev)
			elems[i] = dup
		}
		return core.NewArray(elems), nil

	case *ir.UnaryExpr:
		return machine.evalUnary(f, funcName, v)

	case *ir.BinaryExpr:
		return machine.evalBinary(f, funcName, v)

	case *ir.MemberDot:
		base, err := machine.evalExpr(f, funcName, v.Base)
		if err != nil {
			return nil, err
		}
		return base.GetPropertyByName(v.Name, false), nil

	case *ir.MemberIndex:
		base, err := machine.evalExpr(f, funcName, v.Base)
		if err != nil {
			return nil, err
		}
		idx, err := machine.evalExpr(f, funcName, v.Index)
		if err != nil {
			return nil, err
		}
		return base.GetPropertyByVar(idx, false), nil

	case *ir.CallExpr:
		return machine.evalCall(f, funcName, v)

	default:
		return nil, fmt.Errorf("unsupported IR expression %T", e)
	}
}

func (machine *Machine) evalUnary(f *frame, funcName string, v *ir.UnaryExpr) (*core.Value, error) {
	operand, err := machine.evalExpr(f, funcName, v.Operand)
	if err != nil {
		return nil, err
	}
	switch v.Op {
	case token.BANG:
		return core.NewBoolean(core.Not(operand)), nil
	case token.MINUS:
		return core.Sub(core.NewNumber(0), operand), nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %s", v.Op)
	}
}

func (machine *Machine) evalBinary(f *frame, funcName string, v *ir.BinaryExpr) (*core.Value, error) {
	if v.Op == token.AND || v.Op == token.OR {
		left, err := machine.evalExpr(f, funcName, v.Left)
		if err != nil {
			return nil, err
		}
		if v.Op == token.AND && !left.ToBoolean() {
			return left, nil
		}
		if v.Op == token.OR && left.ToBoolean() {
			return left, nil
		}
		return machine.evalExpr(f, funcName, v.Right)
	}

	left, err := machine.evalExpr(f, funcName, v.Left)
	if err != nil {
		return nil, err
	}
	right, err := machine.evalExpr(f, funcName, v.Right)
	if err != nil {
		return nil, err
	}
	switch v.Op {
	case token.PLUS:
		return core.Add(left, right), nil
	case token.MINUS:
		return core.Sub(left, right), nil
	case token.STAR:
		return core.Mul(left, right), nil
	case token.SLASH:
		return core.Div(left, right), nil
	case token.EQ:
		return core.NewBoolean(core.LooseEquals(left, right)), nil
	case token.NOT_EQ:
		return core.NewBoolean(!core.LooseEquals(left, right)), nil
	case token.STRICT_EQ:
		return core.NewBoolean(core.StrictEquals(left, right)), nil
	case token.STRICT_NOT_EQ:
		return core.NewBoolean(!core.StrictEquals(left, right)), nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %s", v.Op)
	}
}

func (machine *Machine) evalCall(f *frame, funcName string, v *ir.CallExpr) (*core.Value, error) {
	callee, ok := v.Callee.(ir.IdentifierValue)
	if !ok {
		return nil, fmt.Errorf("unsupported call target %T", v.Callee)
	}
	name := callee.Name.String()

	args := make([]*core.Value, len(v.Args))
	for i, a := range v.Args {
		av, err := machine.evalExpr(f, funcName, a)
		if err != nil {
			return nil, err
		}
		args[i] = av
	}

	if builtin, ok := machine.builtin(name); ok {
		return builtin(args)
	}

	fn, ok := machine.functions[name]
	if !ok {
		return nil, machine.abort(funcName, token.Position{}, "call to undefined function %q", name)
	}

	callFrame := newFrame(nil)
	for i, p := range fn.Params {
		if i < len(args) {
			callFrame.set(p.String(), args[i])
		} else {
			callFrame.set(p.String(), core.Undefined())
		}
	}

	machine.callStack = append(machine.callStack, callFrame{functionName: name})
	defer func() { machine.callStack = machine.callStack[:len(machine.callStack)-1] }()

	sig, err := machine.execBlock(callFrame, name, fn.Body)
	if err != nil {
		return nil, err
	}
	if sig.returning {
		return sig.value, nil
	}
	return core.Undefined(), nil
}

// builtin resolves one of the unconditionally-injected externs (spec
// §6: print, assert, assert_eq) plus abort when configured in
// (internal/config, spec C.2). Any other extern name the precompiler
// accepted but that has no Machine-side implementation aborts at call
// time rather than at load time, mirroring a real missing symbol.
func (machine *Machine) builtin(name string) (func(args []*core.Value) (*core.Value, error), bool) {
	switch name {
	case "print":
		return func(args []*core.Value) (*core.Value, error) {
			var v *core.Value
			if len(args) > 0 {
				v = args[0]
			} else {
				v = core.Undefined()
			}
			fmt.Fprintln(machine.Output, v.ToString())
			return core.Undefined(), nil
		}, true

	case "assert":
		return func(args []*core.Value) (*core.Value, error) {
			if len(args) == 0 || !args[0].ToBoolean() {
				return nil, machine.abort("assert", token.Position{}, "assertion failed")
			}
			return core.Undefined(), nil
		}, true

	case "assert_eq":
		return func(args []*core.Value) (*core.Value, error) {
			if len(args) < 2 || !core.DeepEquals(args[0], args[1]) {
				return nil, machine.abort("assert_eq", token.Position{}, "assertion failed: values not equal")
			}
			return core.Undefined(), nil
		}, true

	case "abort":
		return func(args []*core.Value) (*core.Value, error) {
			return nil, machine.abort("abort", token.Position{}, "aborted")
		}, true

	default:
		return nil, false
	}
}
