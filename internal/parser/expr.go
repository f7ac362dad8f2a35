package parser

import (
	"strconv"

	"github.com/jsnc-lang/jsnc/internal/ast"
	"github.com/jsnc-lang/jsnc/internal/token"
)

func isPrefixUnary(t token.Type) bool {
	switch t {
	case token.BANG, token.MINUS:
		return true
	}
	return false
}

func isBinaryOp(t token.Type) bool {
	switch t {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.EQ, token.NOT_EQ, token.STRICT_EQ, token.STRICT_NOT_EQ,
		token.AND, token.OR:
		return true
	}
	return false
}

// parseValueExpr builds a flat, unlinearized value-expression stream per
// spec §3.1. Only call-argument parens are resolved here; grouping parens
// around sub-expressions are left as explicit markers for the precompiler's
// shunting-yard reduction.
func (p *Parser) parseValueExpr() ast.ValueExpr {
	var stream ast.ValueExpr
	groupDepth := 0
	expectOperand := true

	for {
		if expectOperand {
			switch {
			case isPrefixUnary(p.cur.Type):
				stream = append(stream, ast.PrefixUnaryItem{Pos: p.cur.Pos, Op: p.cur.Type})
				p.advance()
				continue
			case p.cur.Type == token.LPAREN:
				stream = append(stream, ast.GroupOpenItem{Pos: p.cur.Pos})
				groupDepth++
				p.advance()
				continue
			default:
				operand := p.parsePrimaryOperand()
				stream = append(stream, ast.OperandItem{Operand: operand})
				expectOperand = false
				continue
			}
		}

		switch {
		case isBinaryOp(p.cur.Type):
			stream = append(stream, ast.BinaryOpItem{Pos: p.cur.Pos, Op: p.cur.Type})
			p.advance()
			expectOperand = true
		case p.cur.Type == token.RPAREN && groupDepth > 0:
			stream = append(stream, ast.GroupCloseItem{Pos: p.cur.Pos})
			groupDepth--
			p.advance()
		default:
			if groupDepth > 0 {
				p.fail("unexpected token %q, expected closing %q", p.cur.Literal, ")")
			}
			return stream
		}
	}
}

// parsePrimaryOperand parses one literal/identifier/object/array base,
// followed by any postfix chain of `.name`, `[index]`, and `(args)`.
func (p *Parser) parsePrimaryOperand() ast.Operand {
	base := p.parseOperandBase()
	for {
		switch p.cur.Type {
		case token.DOT:
			pos := p.cur.Pos
			p.advance()
			name := p.expect(token.IDENT).Literal
			base = &ast.MemberDot{Pos: pos, Base: base, Name: name}
		case token.LBRACKET:
			pos := p.cur.Pos
			p.advance()
			index := p.parseValueExpr()
			p.expect(token.RBRACKET)
			base = &ast.MemberIndex{Pos: pos, Base: base, Index: index}
		case token.LPAREN:
			pos := p.cur.Pos
			p.advance()
			var args []ast.ValueExpr
			for p.cur.Type != token.RPAREN {
				args = append(args, p.parseValueExpr())
				if p.cur.Type == token.COMMA {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
			base = &ast.Call{Pos: pos, Callee: base, Args: args}
		default:
			return base
		}
	}
}

func (p *Parser) parseOperandBase() ast.Operand {
	tok := p.cur
	switch tok.Type {
	case token.IDENT:
		p.advance()
		return &ast.Identifier{Pos: tok.Pos, Name: tok.Literal}
	case token.NUMBER:
		p.advance()
		n, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.fail("invalid number literal %q", tok.Literal)
		}
		return &ast.Literal{Pos: tok.Pos, Kind: ast.NumberLiteral, Num: n}
	case token.STRING:
		p.advance()
		return &ast.Literal{Pos: tok.Pos, Kind: ast.StringLiteral, Str: tok.Literal}
	case token.TRUE:
		p.advance()
		return &ast.Literal{Pos: tok.Pos, Kind: ast.BooleanLiteral, Bool: true}
	case token.FALSE:
		p.advance()
		return &ast.Literal{Pos: tok.Pos, Kind: ast.BooleanLiteral, Bool: false}
	case token.NULL:
		p.advance()
		return &ast.Literal{Pos: tok.Pos, Kind: ast.Null}
	case token.UNDEFINED:
		p.advance()
		return &ast.Literal{Pos: tok.Pos, Kind: ast.Undefined}
	case token.NAN:
		p.advance()
		return &ast.Literal{Pos: tok.Pos, Kind: ast.NaNLiteral}
	case token.INFINITY:
		p.advance()
		return &ast.Literal{Pos: tok.Pos, Kind: ast.InfinityLiteral}
	case token.LBRACE:
		return p.parseObjectLiteral()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	default:
		p.fail("unexpected token %q, expected an expression", tok.Literal)
		return nil
	}
}

func (p *Parser) parseObjectLiteral() ast.Operand {
	pos := p.cur.Pos
	p.expect(token.LBRACE)
	obj := &ast.ObjectLiteral{Pos: pos}
	for p.cur.Type != token.RBRACE {
		var key string
		switch p.cur.Type {
		case token.IDENT:
			key = p.cur.Literal
			p.advance()
		case token.STRING:
			key = p.cur.Literal
			p.advance()
		default:
			p.fail("unexpected token %q, expected a property key", p.cur.Literal)
		}
		p.expect(token.COLON)
		value := p.parseValueExpr()
		obj.Props = append(obj.Props, ast.ObjectProp{Key: key, Value: value})
		if p.cur.Type == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return obj
}

func (p *Parser) parseArrayLiteral() ast.Operand {
	pos := p.cur.Pos
	p.expect(token.LBRACKET)
	arr := &ast.ArrayLiteral{Pos: pos}
	for p.cur.Type != token.RBRACKET {
		arr.Elements = append(arr.Elements, p.parseValueExpr())
		if p.cur.Type == token.COMMA {
			p.advance()
		}
	}
	p.expect(token.RBRACKET)
	return arr
}
