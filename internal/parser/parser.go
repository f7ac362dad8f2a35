// Package parser builds internal/ast's surface AST from a token stream.
// Concrete-syntax parsing is not this compiler's focus (spec §1 treats
// grammar-production as an external concern and specifies only the grammar
// it yields), but a working recursive-descent implementation is needed to
// drive the pipeline end to end. Per spec §3.1/§4.1, value expressions are
// parsed into a flat, unlinearized operator stream; internal/precompiler
// performs the shunting-yard reduction to a tree.
package parser

import (
	"fmt"

	"github.com/jsnc-lang/jsnc/internal/ast"
	"github.com/jsnc-lang/jsnc/internal/lexer"
	"github.com/jsnc-lang/jsnc/internal/token"
)

// Parser turns a token stream into a Program.
type Parser struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token

	errs []error
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.advance()
	p.advance()
	return p
}

// Errors returns every lex/parse error encountered. A non-empty result means
// ParseProgram's return value should not be used.
func (p *Parser) Errors() []error { return p.errs }

func (p *Parser) advance() {
	p.cur = p.peek
	tok, err := p.l.Next()
	if err != nil {
		p.errs = append(p.errs, err)
		// Surface EOF so the recursive-descent loops terminate instead of
		// spinning on a byte the lexer couldn't classify.
		tok = token.Token{Type: token.EOF, Pos: p.cur.Pos}
	}
	p.peek = tok
}

func (p *Parser) fail(format string, args ...any) {
	p.errs = append(p.errs, &Error{Message: fmt.Sprintf(format, args...), Pos: p.cur.Pos})
	panic(parseAbort{})
}

func (p *Parser) expect(t token.Type) token.Token {
	if p.cur.Type != t {
		p.fail("unexpected token %q, expected %s", p.cur.Literal, t)
	}
	tok := p.cur
	p.advance()
	return tok
}

// ParseProgram parses the whole translation unit. Check Errors() afterward;
// a non-nil error list means the Program is incomplete or malformed.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseAbort); !ok {
				panic(r)
			}
		}
	}()

	for p.cur.Type != token.EOF {
		prog.Statements = append(prog.Statements, p.parseStatement())
	}
	return prog
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Type {
	case token.VAR, token.LET, token.CONST:
		return p.parseVarDecl()
	case token.FUNCTION:
		return p.parseFunctionDecl()
	case token.RETURN:
		return p.parseReturn()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseBody() []ast.Stmt {
	p.expect(token.LBRACE)
	var body []ast.Stmt
	for p.cur.Type != token.RBRACE && p.cur.Type != token.EOF {
		body = append(body, p.parseStatement())
	}
	p.expect(token.RBRACE)
	return body
}

func (p *Parser) parseBlock() ast.Stmt {
	pos := p.cur.Pos
	body := p.parseBody()
	return &ast.BlockStmt{Pos: pos, Body: body}
}

func (p *Parser) parseVarDecl() ast.Stmt {
	pos := p.cur.Pos
	kind := p.cur.Type
	p.advance()
	name := p.expect(token.IDENT).Literal
	decl := &ast.VarDecl{Pos: pos, Kind: kind, Name: name}
	if p.cur.Type == token.ASSIGN {
		p.advance()
		decl.Init = p.parseValueExpr()
		decl.HasInit = true
	}
	p.expectSemicolon()
	return decl
}

func (p *Parser) parseFunctionDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.expect(token.IDENT).Literal
	p.expect(token.LPAREN)
	var params []string
	for p.cur.Type != token.RPAREN {
		params = append(params, p.expect(token.IDENT).Literal)
		if p.cur.Type == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	body := p.parseBody()
	return &ast.FunctionDecl{Pos: pos, Name: name, Params: params, Body: body}
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	stmt := &ast.ReturnStmt{Pos: pos}
	if p.cur.Type != token.SEMICOLON {
		stmt.Value = p.parseValueExpr()
		stmt.HasValue = true
	}
	p.expectSemicolon()
	return stmt
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)
	cond := p.parseValueExpr()
	p.expect(token.RPAREN)
	then := p.parseBody()
	stmt := &ast.IfStmt{Pos: pos, Cond: cond, Then: then}
	if p.cur.Type == token.ELSE {
		p.advance()
		stmt.Else = p.parseBody()
		stmt.HasElse = true
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LPAREN)
	cond := p.parseValueExpr()
	p.expect(token.RPAREN)
	body := p.parseBody()
	return &ast.WhileStmt{Pos: pos, Cond: cond, Body: body}
}

func (p *Parser) parseDoWhile() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	body := p.parseBody()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseValueExpr()
	p.expect(token.RPAREN)
	p.expectSemicolon()
	return &ast.DoWhileStmt{Pos: pos, Body: body, Cond: cond}
}

func (p *Parser) parseExprStatement() ast.Stmt {
	pos := p.cur.Pos
	expr := p.parseValueExpr()
	if p.cur.Type == token.ASSIGN {
		target := singleOperand(expr)
		if target == nil {
			p.fail("left-hand side of assignment must be a single identifier or member access")
		}
		p.advance()
		value := p.parseValueExpr()
		p.expectSemicolon()
		return &ast.Assignment{Pos: pos, Target: target, Value: value}
	}
	p.expectSemicolon()
	return &ast.ExprStmt{Pos: pos, Expr: expr}
}

func (p *Parser) expectSemicolon() {
	p.expect(token.SEMICOLON)
}

// singleOperand returns expr's sole Operand if expr is exactly one operand
// with no surrounding operators or grouping, nil otherwise.
func singleOperand(expr ast.ValueExpr) ast.Operand {
	if len(expr) != 1 {
		return nil
	}
	item, ok := expr[0].(ast.OperandItem)
	if !ok {
		return nil
	}
	return item.Operand
}
