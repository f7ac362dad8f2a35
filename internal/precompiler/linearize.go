package precompiler

import (
	"github.com/jsnc-lang/jsnc/internal/ast"
	"github.com/jsnc-lang/jsnc/internal/ir"
	"github.com/jsnc-lang/jsnc/internal/token"
)

// priority implements spec §4.1's table (higher binds tighter), extended
// with the arithmetic operators the spec's worked table leaves implicit:
// `*`/`/` bind tighter than `+`/`-`, which bind tighter than the comparison
// tier the spec gives numbers for.
func priority(op token.Type) int {
	switch op {
	case token.STAR, token.SLASH:
		return 12
	case token.PLUS, token.MINUS:
		return 11
	case token.EQ, token.NOT_EQ, token.STRICT_EQ, token.STRICT_NOT_EQ:
		return 8
	case token.AND:
		return 4
	case token.OR:
		return 3
	default:
		return 0
	}
}

// unaryPriority is higher than every binary priority so a pending prefix
// unary operator always reduces before an enclosing binary operator does.
const unaryPriority = 100

type opEntry struct {
	isGroupOpen bool
	isUnary     bool
	op          token.Type
	pos         token.Position
}

// resolveOperand converts a fully-parsed surface Operand into a resolved IR
// expression, looking up identifiers and recursing into nested value
// expressions (array/object literals, call arguments, member indices).
type resolveOperand func(ast.Operand) (ir.Expression, error)

// linearize performs the two-stack shunting-yard reduction of spec §4.1
// over a flat value-expression stream, producing a fully-parenthesized
// (tree-shaped) ir.Expression.
func linearize(stream ast.ValueExpr, resolve resolveOperand) (ir.Expression, error) {
	var operands []ir.Expression
	var operators []opEntry

	reduce := func() error {
		if len(operators) == 0 {
			return &Error{Kind: StackUnderflow, Pos: token.Position{}, Message: "no operator to reduce"}
		}
		top := operators[len(operators)-1]
		operators = operators[:len(operators)-1]

		if top.isUnary {
			if len(operands) < 1 {
				return &Error{Kind: StackUnderflow, Pos: top.pos, Message: "unary operator missing operand"}
			}
			operand := operands[len(operands)-1]
			operands = operands[:len(operands)-1]
			operands = append(operands, &ir.UnaryExpr{Op: top.op, Operand: operand})
			return nil
		}

		if len(operands) < 2 {
			return &Error{Kind: StackUnderflow, Pos: top.pos, Message: "binary operator missing operand"}
		}
		right := operands[len(operands)-1]
		left := operands[len(operands)-2]
		operands = operands[:len(operands)-2]
		operands = append(operands, &ir.BinaryExpr{Op: top.op, Left: left, Right: right})
		return nil
	}

	for _, item := range stream {
		switch v := item.(type) {
		case ast.OperandItem:
			expr, err := resolve(v.Operand)
			if err != nil {
				return nil, err
			}
			operands = append(operands, expr)

		case ast.GroupOpenItem:
			operators = append(operators, opEntry{isGroupOpen: true, pos: v.Pos})

		case ast.GroupCloseItem:
			for {
				if len(operators) == 0 {
					return nil, &Error{Kind: ImbalancedBraces, Pos: v.Pos, Message: "unmatched )"}
				}
				top := operators[len(operators)-1]
				if top.isGroupOpen {
					operators = operators[:len(operators)-1]
					break
				}
				if err := reduce(); err != nil {
					return nil, err
				}
			}

		case ast.PrefixUnaryItem:
			operators = append(operators, opEntry{isUnary: true, op: v.Op, pos: v.Pos})

		case ast.PostfixUnaryItem:
			if len(operands) < 1 {
				return nil, &Error{Kind: StackUnderflow, Pos: v.Pos, Message: "postfix operator missing operand"}
			}
			operand := operands[len(operands)-1]
			operands = operands[:len(operands)-1]
			operands = append(operands, &ir.UnaryExpr{Op: v.Op, Operand: operand})

		case ast.BinaryOpItem:
			for len(operators) > 0 {
				top := operators[len(operators)-1]
				if top.isGroupOpen {
					break
				}
				topPriority := unaryPriority
				if !top.isUnary {
					topPriority = priority(top.op)
				}
				if topPriority < priority(v.Op) {
					break
				}
				if err := reduce(); err != nil {
					return nil, err
				}
			}
			operators = append(operators, opEntry{op: v.Op, pos: v.Pos})
		}
	}

	for len(operators) > 0 {
		if operators[len(operators)-1].isGroupOpen {
			return nil, &Error{Kind: ImbalancedBraces, Pos: operators[len(operators)-1].pos, Message: "unmatched ("}
		}
		if err := reduce(); err != nil {
			return nil, err
		}
	}

	if len(operands) != 1 {
		return nil, &Error{Kind: StackUnderflow, Message: "malformed expression stream"}
	}
	return operands[0], nil
}
