package ast

import "github.com/jsnc-lang/jsnc/internal/token"

// VarDecl is a `var`/`let`/`const` declaration, with an optional initializer.
type VarDecl struct {
	Pos     token.Position
	Kind    token.Type // VAR, LET or CONST
	Name    string
	Init    ValueExpr
	HasInit bool
}

func (*VarDecl) stmtNode()                   {}
func (v *VarDecl) Position() token.Position { return v.Pos }

// Assignment is `target = value`, where target is a plain identifier or a
// member-access chain.
type Assignment struct {
	Pos    token.Position
	Target Operand
	Value  ValueExpr
}

func (*Assignment) stmtNode()                   {}
func (a *Assignment) Position() token.Position { return a.Pos }

// FunctionDecl is a named function declaration, hoisted by the precompiler
// to be visible throughout its enclosing block regardless of textual order.
type FunctionDecl struct {
	Pos    token.Position
	Name   string
	Params []string
	Body   []Stmt
}

func (*FunctionDecl) stmtNode()                   {}
func (f *FunctionDecl) Position() token.Position { return f.Pos }

// ExprStmt is a bare expression statement: any value expression, most
// often a function call, evaluated for effect.
type ExprStmt struct {
	Pos  token.Position
	Expr ValueExpr
}

func (*ExprStmt) stmtNode()                   {}
func (e *ExprStmt) Position() token.Position { return e.Pos }

// ReturnStmt is `return [value];`.
type ReturnStmt struct {
	Pos      token.Position
	Value    ValueExpr
	HasValue bool
}

func (*ReturnStmt) stmtNode()                   {}
func (r *ReturnStmt) Position() token.Position { return r.Pos }

// IfStmt is `if (cond) { ... } [else { ... }]`.
type IfStmt struct {
	Pos     token.Position
	Cond    ValueExpr
	Then    []Stmt
	Else    []Stmt
	HasElse bool
}

func (*IfStmt) stmtNode()                   {}
func (i *IfStmt) Position() token.Position { return i.Pos }

// WhileStmt is `while (cond) { ... }`.
type WhileStmt struct {
	Pos  token.Position
	Cond ValueExpr
	Body []Stmt
}

func (*WhileStmt) stmtNode()                   {}
func (w *WhileStmt) Position() token.Position { return w.Pos }

// DoWhileStmt is `do { ... } while (cond);`.
type DoWhileStmt struct {
	Pos  token.Position
	Body []Stmt
	Cond ValueExpr
}

func (*DoWhileStmt) stmtNode()                   {}
func (d *DoWhileStmt) Position() token.Position { return d.Pos }

// BlockStmt is a standalone `{ ... }` appearing where a statement is
// expected; it introduces a new lexical scope but no new IR construct.
type BlockStmt struct {
	Pos  token.Position
	Body []Stmt
}

func (*BlockStmt) stmtNode()                   {}
func (b *BlockStmt) Position() token.Position { return b.Pos }
