// Package precompiler translates internal/ast's surface tree into
// internal/ir, performing name resolution, function hoisting, and
// shunting-yard operator linearization per spec §4.1.
package precompiler

import (
	"github.com/jsnc-lang/jsnc/internal/ast"
	"github.com/jsnc-lang/jsnc/internal/ir"
)

// Precompiler holds the mutable state of a single lowering pass: the
// variable and function name sets, and the flat list of function
// declarations collected from every nesting depth (the IR module's
// Functions list is flat regardless of lexical nesting, since this
// language subset has no closures).
type Precompiler struct {
	vars      *NameSet
	funcs     *NameSet
	functions []*ir.FunctionDecl
	errs      []error

	// varScopeMark is the vars Mark the innermost currently-open scope
	// (block or function) was entered at, so a VarDecl can tell a
	// same-scope redeclaration from a nested scope legally shadowing an
	// outer binding (spec §8).
	varScopeMark int
}

// Lower translates prog into an ir.Module. externs seeds the function name
// set with predefined (extern) names available from the start, per the
// precompiler's configurable extern set (spec §4.1).
func Lower(prog *ast.Program, externs []string) (*ir.Module, []error) {
	p := &Precompiler{vars: NewNameSet(), funcs: NewNameSet(externs...)}
	stmts := p.lowerScopedBlock(prog.Statements)
	mod := &ir.Module{Name: "main", Functions: p.functions, Statements: stmts}
	return mod, p.errs
}

// hoistFunctions declares every function name at this block's own nesting
// level before lowering its statements, so forward references resolve
// regardless of textual order (spec §3.5).
func (p *Precompiler) hoistFunctions(stmts []ast.Stmt) {
	seen := make(map[string]bool)
	for _, s := range stmts {
		fd, ok := s.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		if seen[fd.Name] {
			p.errs = append(p.errs, &Error{Kind: DuplicateFunction, Name: fd.Name, Pos: fd.Pos})
			continue
		}
		seen[fd.Name] = true
		p.funcs.Declare(fd.Name)
	}
}

// lowerStmtList hoists and lowers stmts in the current variable/function
// scope, without opening a new one. Bare blocks are flattened in place,
// since spec §3.2's IR statement set has no "block" kind of its own.
func (p *Precompiler) lowerStmtList(stmts []ast.Stmt) []ir.Statement {
	p.hoistFunctions(stmts)
	var out []ir.Statement
	for _, s := range stmts {
		switch st := s.(type) {
		case *ast.FunctionDecl:
			p.functions = append(p.functions, p.lowerFunctionDecl(st))
		case *ast.BlockStmt:
			out = append(out, p.lowerScopedBlock(st.Body)...)
		default:
			lowered, err := p.lowerStmt(s)
			if err != nil {
				p.errs = append(p.errs, err)
				continue
			}
			out = append(out, lowered)
		}
	}
	return out
}

// lowerScopedBlock lowers stmts inside a fresh variable/function scope,
// emitting explicit Deallocate statements for every named binding declared
// directly in it, in reverse declaration order, once the scope exits.
func (p *Precompiler) lowerScopedBlock(stmts []ast.Stmt) []ir.Statement {
	varMark := p.vars.Mark()
	funcMark := p.funcs.Mark()

	prevScopeMark := p.varScopeMark
	p.varScopeMark = varMark
	out := p.lowerStmtList(stmts)
	p.varScopeMark = prevScopeMark

	for _, n := range p.vars.PopTo(varMark) {
		out = append(out, &ir.Deallocate{Target: n})
	}
	p.funcs.PopTo(funcMark)
	return out
}

func (p *Precompiler) lowerFunctionDecl(fd *ast.FunctionDecl) *ir.FunctionDecl {
	name, _ := p.funcs.Lookup(fd.Name)

	varMark := p.vars.Mark()
	prevScopeMark := p.varScopeMark
	p.varScopeMark = varMark
	params := make([]ir.Name, 0, len(fd.Params))
	for _, param := range fd.Params {
		params = append(params, p.vars.Declare(param))
	}

	body := p.lowerStmtList(fd.Body)
	p.varScopeMark = prevScopeMark
	for _, n := range p.vars.PopTo(varMark) {
		body = append(body, &ir.Deallocate{Target: n})
	}

	return &ir.FunctionDecl{Name: name, Params: params, Body: body}
}

func (p *Precompiler) lowerStmt(s ast.Stmt) (ir.Statement, error) {
	switch st := s.(type) {
	case *ast.VarDecl:
		if p.vars.DeclaredSince(st.Name, p.varScopeMark) {
			return nil, &Error{Kind: DuplicateVariable, Name: st.Name, Pos: st.Pos}
		}
		var init ir.Expression = ir.UndefinedValue{}
		if st.HasInit {
			e, err := p.lowerValueExpr(st.Init)
			if err != nil {
				return nil, err
			}
			init = e
		}
		name := p.vars.Declare(st.Name)
		return &ir.VarDecl{Name: name, Init: init}, nil

	case *ast.Assignment:
		target, err := p.resolveOperand(st.Target)
		if err != nil {
			return nil, err
		}
		value, err := p.lowerValueExpr(st.Value)
		if err != nil {
			return nil, err
		}
		return &ir.Assignment{Target: target, Value: value}, nil

	case *ast.ExprStmt:
		expr, err := p.lowerValueExpr(st.Expr)
		if err != nil {
			return nil, err
		}
		return &ir.ExprStmt{Expr: expr}, nil

	case *ast.ReturnStmt:
		if !st.HasValue {
			return &ir.ReturnStmt{HasValue: false}, nil
		}
		value, err := p.lowerValueExpr(st.Value)
		if err != nil {
			return nil, err
		}
		return &ir.ReturnStmt{Value: value, HasValue: true}, nil

	case *ast.IfStmt:
		cond, err := p.lowerValueExpr(st.Cond)
		if err != nil {
			return nil, err
		}
		then := p.lowerScopedBlock(st.Then)
		var elseBody []ir.Statement
		if st.HasElse {
			elseBody = p.lowerScopedBlock(st.Else)
		}
		return &ir.IfStmt{Cond: cond, Then: then, Else: elseBody, HasElse: st.HasElse}, nil

	case *ast.WhileStmt:
		cond, err := p.lowerValueExpr(st.Cond)
		if err != nil {
			return nil, err
		}
		body := p.lowerScopedBlock(st.Body)
		return &ir.WhileStmt{Cond: cond, Body: body}, nil

	case *ast.DoWhileStmt:
		body := p.lowerScopedBlock(st.Body)
		cond, err := p.lowerValueExpr(st.Cond)
		if err != nil {
			return nil, err
		}
		return &ir.DoWhileStmt{Body: body, Cond: cond}, nil

	default:
		return nil, &Error{Message: "unsupported statement", Pos: s.Position()}
	}
}

// lowerValueExpr runs shunting-yard linearization over a flat surface
// stream, resolving every operand against the current scope along the way.
func (p *Precompiler) lowerValueExpr(v ast.ValueExpr) (ir.Expression, error) {
	return linearize(v, p.resolveOperand)
}

func (p *Precompiler) resolveOperand(op ast.Operand) (ir.Expression, error) {
	switch o := op.(type) {
	case *ast.Literal:
		return p.resolveLiteral(o)

	case *ast.Identifier:
		if name, ok := p.vars.Lookup(o.Name); ok {
			return ir.IdentifierValue{Name: name}, nil
		}
		if name, ok := p.funcs.Lookup(o.Name); ok {
			return ir.IdentifierValue{Name: name}, nil
		}
		return nil, &Error{Kind: UndefinedVariable, Name: o.Name, Pos: o.Pos}

	case *ast.ObjectLiteral:
		props := make([]ir.ObjectProp, 0, len(o.Props))
		for _, prop := range o.Props {
			value, err := p.lowerValueExpr(prop.Value)
			if err != nil {
				return nil, err
			}
			props = append(props, ir.ObjectProp{Key: prop.Key, Value: value})
		}
		return ir.ObjectLiteralValue{Props: props}, nil

	case *ast.ArrayLiteral:
		elems := make([]ir.Expression, 0, len(o.Elements))
		for _, el := range o.Elements {
			v, err := p.lowerValueExpr(el)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return ir.ArrayLiteralValue{Elements: elems}, nil

	case *ast.MemberDot:
		base, err := p.resolveOperand(o.Base)
		if err != nil {
			return nil, err
		}
		return &ir.MemberDot{Base: base, Name: o.Name}, nil

	case *ast.MemberIndex:
		base, err := p.resolveOperand(o.Base)
		if err != nil {
			return nil, err
		}
		index, err := p.lowerValueExpr(o.Index)
		if err != nil {
			return nil, err
		}
		return &ir.MemberIndex{Base: base, Index: index}, nil

	case *ast.Call:
		return p.resolveCall(o)

	default:
		return nil, &Error{Message: "unsupported operand", Pos: op.Position()}
	}
}

func (p *Precompiler) resolveCall(c *ast.Call) (ir.Expression, error) {
	var callee ir.Expression
	if ident, ok := c.Callee.(*ast.Identifier); ok {
		if name, ok := p.funcs.Lookup(ident.Name); ok {
			callee = ir.IdentifierValue{Name: name}
		} else if name, ok := p.vars.Lookup(ident.Name); ok {
			callee = ir.IdentifierValue{Name: name}
		} else {
			return nil, &Error{Kind: UndefinedFunction, Name: ident.Name, Pos: ident.Pos}
		}
	} else {
		resolved, err := p.resolveOperand(c.Callee)
		if err != nil {
			return nil, err
		}
		callee = resolved
	}

	args := make([]ir.Expression, 0, len(c.Args))
	for _, a := range c.Args {
		v, err := p.lowerValueExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return &ir.CallExpr{Callee: callee, Args: args}, nil
}

func (p *Precompiler) resolveLiteral(l *ast.Literal) (ir.Expression, error) {
	switch l.Kind {
	case ast.Undefined:
		return ir.UndefinedValue{}, nil
	case ast.Null:
		return ir.NullValue{}, nil
	case ast.NaNLiteral:
		return ir.NaNValue{}, nil
	case ast.InfinityLiteral:
		return ir.InfinityValue{}, nil
	case ast.BooleanLiteral:
		return ir.BooleanValue{Val: l.Bool}, nil
	case ast.NumberLiteral:
		return ir.NumberValue{Val: l.Num}, nil
	case ast.StringLiteral:
		return ir.StringValue{Val: l.Str}, nil
	default:
		return nil, &Error{Message: "unsupported literal kind", Pos: l.Pos}
	}
}
