package precompiler

import (
	"fmt"
	"testing"

	"github.com/jsnc-lang/jsnc/internal/ast"
	"github.com/jsnc-lang/jsnc/internal/ir"
	"github.com/jsnc-lang/jsnc/internal/token"
)

func identResolve(op ast.Operand) (ir.Expression, error) {
	id, ok := op.(*ast.Identifier)
	if !ok {
		return nil, fmt.Errorf("not an identifier: %T", op)
	}
	return ir.IdentifierValue{Name: ir.Name{Base: id.Name}}, nil
}

func operand(name string) ast.StreamItem {
	return ast.OperandItem{Operand: &ast.Identifier{Name: name}}
}

func binOp(op token.Type) ast.StreamItem { return ast.BinaryOpItem{Op: op} }
func prefixOp(op token.Type) ast.StreamItem { return ast.PrefixUnaryItem{Op: op} }
func groupOpen() ast.StreamItem  { return ast.GroupOpenItem{} }
func groupClose() ast.StreamItem { return ast.GroupCloseItem{} }

func render(e ir.Expression) string {
	switch v := e.(type) {
	case ir.IdentifierValue:
		return v.Name.Base
	case *ir.UnaryExpr:
		return "(" + v.Op.String() + render(v.Operand) + ")"
	case *ir.BinaryExpr:
		return "(" + render(v.Left) + " " + v.Op.String() + " " + render(v.Right) + ")"
	default:
		return fmt.Sprintf("%#v", e)
	}
}

func TestLinearizeArithmeticPrecedence(t *testing.T) {
	// a + b * c
	stream := ast.ValueExpr{operand("a"), binOp(token.PLUS), operand("b"), binOp(token.STAR), operand("c")}
	tree, err := linearize(stream, identResolve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "(a + (b * c))"
	if got := render(tree); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLinearizeLeftAssociativeTies(t *testing.T) {
	// a - b - c
	stream := ast.ValueExpr{operand("a"), binOp(token.MINUS), operand("b"), binOp(token.MINUS), operand("c")}
	tree, err := linearize(stream, identResolve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "((a - b) - c)"
	if got := render(tree); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLinearizeGrouping(t *testing.T) {
	// (a + b) * c
	stream := ast.ValueExpr{groupOpen(), operand("a"), binOp(token.PLUS), operand("b"), groupClose(), binOp(token.STAR), operand("c")}
	tree, err := linearize(stream, identResolve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "((a + b) * c)"
	if got := render(tree); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLinearizePrefixUnary(t *testing.T) {
	// !a && b
	stream := ast.ValueExpr{prefixOp(token.BANG), operand("a"), binOp(token.AND), operand("b")}
	tree, err := linearize(stream, identResolve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "((!a) && b)"
	if got := render(tree); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLinearizeLogicalPriority(t *testing.T) {
	// a || b && c  ->  a || (b && c), since && binds tighter than ||
	stream := ast.ValueExpr{operand("a"), binOp(token.OR), operand("b"), binOp(token.AND), operand("c")}
	tree, err := linearize(stream, identResolve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "(a || (b && c))"
	if got := render(tree); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLinearizeComparisonVsArithmetic(t *testing.T) {
	// a + b == c  ->  (a + b) == c
	stream := ast.ValueExpr{operand("a"), binOp(token.PLUS), operand("b"), binOp(token.EQ), operand("c")}
	tree, err := linearize(stream, identResolve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "((a + b) == c)"
	if got := render(tree); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLinearizeSingleOperand(t *testing.T) {
	stream := ast.ValueExpr{operand("a")}
	tree, err := linearize(stream, identResolve)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := render(tree); got != "a" {
		t.Errorf("got %s, want a", got)
	}
}

func TestLinearizeUnmatchedOpenParen(t *testing.T) {
	stream := ast.ValueExpr{groupOpen(), operand("a"), binOp(token.PLUS), operand("b")}
	_, err := linearize(stream, identResolve)
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ImbalancedBraces {
		t.Fatalf("expected ImbalancedBraces error, got %v", err)
	}
}

func TestLinearizeUnmatchedCloseParen(t *testing.T) {
	stream := ast.ValueExpr{operand("a"), groupClose()}
	_, err := linearize(stream, identResolve)
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ImbalancedBraces {
		t.Fatalf("expected ImbalancedBraces error, got %v", err)
	}
}

func TestLinearizeStackUnderflow(t *testing.T) {
	stream := ast.ValueExpr{operand("a"), binOp(token.PLUS)}
	_, err := linearize(stream, identResolve)
	perr, ok := err.(*Error)
	if !ok || perr.Kind != StackUnderflow {
		t.Fatalf("expected StackUnderflow error, got %v", err)
	}
}
