package exec

import (
	"bytes"
	"testing"

	"github.com/jsnc-lang/jsnc/internal/ir"
	"github.com/jsnc-lang/jsnc/internal/token"
)

func name(base string) ir.Name { return ir.Name{Base: base} }

func runModule(t *testing.T, m *ir.Module) (string, error) {
	t.Helper()
	var out bytes.Buffer
	machine := New()
	machine.Output = &out
	err := machine.Run(m)
	return out.String(), err
}

func TestVarDeclAndPrint(t *testing.T) {
	m := &ir.Module{
		Statements: []ir.Statement{
			&ir.VarDecl{Name: name("x"), Init: ir.NumberValue{Val: 42}},
			&ir.ExprStmt{Expr: &ir.CallExpr{
				Callee: ir.IdentifierValue{Name: name("print")},
				Args:   []ir.Expression{ir.IdentifierValue{Name: name("x")}},
			}},
		},
	}
	out, err := runModule(t, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "42\n" {
		t.Fatalf("expected %q, got %q", "42\n", out)
	}
}

func TestArithmetic(t *testing.T) {
	m := &ir.Module{
		Statements: []ir.Statement{
			&ir.VarDecl{Name: name("x"), Init: &ir.BinaryExpr{
				Op:    token.PLUS,
				Left:  ir.NumberValue{Val: 1},
				Right: ir.NumberValue{Val: 2},
			}},
			&ir.ExprStmt{Expr: &ir.CallExpr{
				Callee: ir.IdentifierValue{Name: name("print")},
				Args:   []ir.Expression{ir.IdentifierValue{Name: name("x")}},
			}},
		},
	}
	out, err := runModule(t, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "3\n" {
		t.Fatalf("expected %q, got %q", "3\n", out)
	}
}

func TestDivisionByZero(t *testing.T) {
	m := &ir.Module{
		Statements: []ir.Statement{
			&ir.VarDecl{Name: name("x"), Init: &ir.BinaryExpr{
				Op:    token.SLASH,
				Left:  ir.NumberValue{Val: 1},
				Right: ir.NumberValue{Val: 0},
			}},
			&ir.ExprStmt{Expr: &ir.CallExpr{
				Callee: ir.IdentifierValue{Name: name("print")},
				Args:   []ir.Expression{ir.IdentifierValue{Name: name("x")}},
			}},
		},
	}
	out, err := runModule(t, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Infinity\n" {
		t.Fatalf("expected %q, got %q", "Infinity\n", out)
	}
}

func TestIfElse(t *testing.T) {
	m := &ir.Module{
		Statements: []ir.Statement{
			&ir.VarDecl{Name: name("x"), Init: ir.NumberValue{Val: 0}},
			&ir.IfStmt{
				Cond: ir.BooleanValue{Val: false},
				Then: []ir.Statement{
					&ir.Assignment{Target: ir.IdentifierValue{Name: name("x")}, Value: ir.NumberValue{Val: 1}},
				},
				Else: []ir.Statement{
					&ir.Assignment{Target: ir.IdentifierValue{Name: name("x")}, Value: ir.NumberValue{Val: 2}},
				},
				HasElse: true,
			},
			&ir.ExprStmt{Expr: &ir.CallExpr{
				Callee: ir.IdentifierValue{Name: name("print")},
				Args:   []ir.Expression{ir.IdentifierValue{Name: name("x")}},
			}},
		},
	}
	out, err := runModule(t, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "2\n" {
		t.Fatalf("expected %q, got %q", "2\n", out)
	}
}

func TestWhileLoop(t *testing.T) {
	m := &ir.Module{
		Statements: []ir.Statement{
			&ir.VarDecl{Name: name("i"), Init: ir.NumberValue{Val: 0}},
			&ir.WhileStmt{
				Cond: &ir.BinaryExpr{
					Op:    token.NOT_EQ,
					Left:  ir.IdentifierValue{Name: name("i")},
					Right: ir.NumberValue{Val: 3},
				},
				Body: []ir.Statement{
					&ir.Assignment{
						Target: ir.IdentifierValue{Name: name("i")},
						Value: &ir.BinaryExpr{
							Op:    token.PLUS,
							Left:  ir.IdentifierValue{Name: name("i")},
							Right: ir.NumberValue{Val: 1},
						},
					},
				},
			},
			&ir.ExprStmt{Expr: &ir.CallExpr{
				Callee: ir.IdentifierValue{Name: name("print")},
				Args:   []ir.Expression{ir.IdentifierValue{Name: name("i")}},
			}},
		},
	}
	out, err := runModule(t, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "3\n" {
		t.Fatalf("expected %q, got %q", "3\n", out)
	}
}

func TestFunctionCallAndReturn(t *testing.T) {
	m := &ir.Module{
		Functions: []*ir.FunctionDecl{
			{
				Name:   name("add"),
				Params: []ir.Name{name("a"), name("b")},
				Body: []ir.Statement{
					&ir.ReturnStmt{
						Value: &ir.BinaryExpr{
							Op:    token.PLUS,
							Left:  ir.IdentifierValue{Name: name("a")},
							Right: ir.IdentifierValue{Name: name("b")},
						},
						HasValue: true,
					},
				},
			},
		},
		Statements: []ir.Statement{
			&ir.ExprStmt{Expr: &ir.CallExpr{
				Callee: ir.IdentifierValue{Name: name("print")},
				Args: []ir.Expression{&ir.CallExpr{
					Callee: ir.IdentifierValue{Name: name("add")},
					Args:   []ir.Expression{ir.NumberValue{Val: 1}, ir.NumberValue{Val: 2}},
				}},
			}},
		},
	}
	out, err := runModule(t, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "3\n" {
		t.Fatalf("expected %q, got %q", "3\n", out)
	}
}

func TestAssertFailureAborts(t *testing.T) {
	m := &ir.Module{
		Statements: []ir.Statement{
			&ir.ExprStmt{Expr: &ir.CallExpr{
				Callee: ir.IdentifierValue{Name: name("assert")},
				Args:   []ir.Expression{ir.BooleanValue{Val: false}},
			}},
		},
	}
	_, err := runModule(t, m)
	if err == nil {
		t.Fatal("expected assertion failure to abort execution")
	}
	if _, ok := err.(*RuntimeError); !ok {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
}

func TestMemberAccess(t *testing.T) {
	m := &ir.Module{
		Statements: []ir.Statement{
			&ir.VarDecl{Name: name("obj"), Init: ir.ObjectLiteralValue{
				Props: []ir.ObjectProp{{Key: "x", Value: ir.NumberValue{Val: 7}}},
			}},
			&ir.ExprStmt{Expr: &ir.CallExpr{
				Callee: ir.IdentifierValue{Name: name("print")},
				Args: []ir.Expression{&ir.MemberDot{
					Base: ir.IdentifierValue{Name: name("obj")},
					Name: "x",
				}},
			}},
		},
	}
	out, err := runModule(t, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "7\n" {
		t.Fatalf("expected %q, got %q", "7\n", out)
	}
}

func TestShortCircuitAndSkipsRightOperand(t *testing.T) {
	m := &ir.Module{
		Statements: []ir.Statement{
			&ir.VarDecl{Name: name("x"), Init: &ir.BinaryExpr{
				Op:    token.AND,
				Left:  ir.BooleanValue{Val: false},
				Right: ir.NumberValue{Val: 99},
			}},
			&ir.ExprStmt{Expr: &ir.CallExpr{
				Callee: ir.IdentifierValue{Name: name("print")},
				Args:   []ir.Expression{ir.IdentifierValue{Name: name("x")}},
			}},
		},
	}
	out, err := runModule(t, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "false\n" {
		t.Fatalf("expected %q, got %q", "false\n", out)
	}
}
