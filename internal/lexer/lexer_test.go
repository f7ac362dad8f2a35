package lexer

import (
	"testing"

	"github.com/jsnc-lang/jsnc/internal/token"
)

func collect(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestLexerBasicProgram(t *testing.T) {
	toks := collect(t, `var x = 2 + 3; assert_eq(x, 5);`)

	want := []token.Type{
		token.VAR, token.IDENT, token.ASSIGN, token.NUMBER, token.PLUS, token.NUMBER, token.SEMICOLON,
		token.IDENT, token.LPAREN, token.IDENT, token.COMMA, token.NUMBER, token.RPAREN, token.SEMICOLON,
		token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestLexerOperators(t *testing.T) {
	toks := collect(t, `== != === !== && || = ! + - * /`)
	want := []token.Type{
		token.EQ, token.NOT_EQ, token.STRICT_EQ, token.STRICT_NOT_EQ, token.AND, token.OR,
		token.ASSIGN, token.BANG, token.PLUS, token.MINUS, token.STAR, token.SLASH, token.EOF,
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestLexerStringEscapes(t *testing.T) {
	toks := collect(t, `"a\nb\t\"c\\"`)
	if toks[0].Type != token.STRING {
		t.Fatalf("expected STRING, got %s", toks[0].Type)
	}
	want := "a\nb\t\"c\\"
	if toks[0].Literal != want {
		t.Errorf("got %q, want %q", toks[0].Literal, want)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := New(`"unterminated`)
	_, err := l.Next()
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
}

func TestLexerKeywordsAndLiterals(t *testing.T) {
	toks := collect(t, `true false null undefined NaN Infinity function return if else while do var let const`)
	want := []token.Type{
		token.TRUE, token.FALSE, token.NULL, token.UNDEFINED, token.NAN, token.INFINITY,
		token.FUNCTION, token.RETURN, token.IF, token.ELSE, token.WHILE, token.DO,
		token.VAR, token.LET, token.CONST, token.EOF,
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestLexerPositionTracking(t *testing.T) {
	toks := collect(t, "var x\n= 1;")
	// "=" is on line 2.
	for _, tok := range toks {
		if tok.Type == token.ASSIGN {
			if tok.Pos.Line != 2 {
				t.Errorf("expected = on line 2, got line %d", tok.Pos.Line)
			}
			return
		}
	}
	t.Fatal("did not find ASSIGN token")
}
