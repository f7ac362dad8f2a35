// Package ast defines the surface AST produced by internal/parser: an
// ordered sequence of top-level statements whose value expressions are, per
// spec §3.1, NOT yet reduced to trees. A value expression is a flat stream
// of operands, prefix/postfix unary markers, binary operators, and explicit
// grouping-parenthesis markers; internal/precompiler is what linearizes that
// stream into a proper expression tree via shunting-yard.
package ast

import "github.com/jsnc-lang/jsnc/internal/token"

// Program is the root node: the implicit top-level "main" sequence plus any
// function declarations, in source order (hoisting is resolved later, by
// the precompiler).
type Program struct {
	Statements []Stmt
}

// Stmt is a top-level surface statement.
type Stmt interface {
	stmtNode()
	Position() token.Position
}

// Operand is a primary value: a literal, an identifier, an object/array
// literal, or a postfix chain of member-access/call operations rooted at
// one of those. Operands are fully resolved by the parser; only the binary
// operator layer around them is left flat for the precompiler.
type Operand interface {
	operandNode()
	Position() token.Position
}

// StreamItem is one element of an unlinearized value expression.
type StreamItem interface {
	streamItem()
}

// ValueExpr is a value expression in its surface, pre-linearization form:
// a flat sequence of StreamItems. A value expression with no operators is
// simply a one-item stream holding a single OperandItem.
type ValueExpr []StreamItem

// Pos returns the position of the expression's first item, for diagnostics.
func (v ValueExpr) Pos() token.Position {
	if len(v) == 0 {
		return token.Position{}
	}
	if oi, ok := v[0].(OperandItem); ok {
		return oi.Operand.Position()
	}
	if pu, ok := v[0].(PrefixUnaryItem); ok {
		return pu.Pos
	}
	if g, ok := v[0].(GroupOpenItem); ok {
		return g.Pos
	}
	return token.Position{}
}
