package errors

import (
	"strings"
	"testing"

	"github.com/jsnc-lang/jsnc/internal/token"
)

func TestCompilerErrorFormat(t *testing.T) {
	tests := []struct {
		name        string
		pos         token.Position
		message     string
		source      string
		file        string
		wantContain []string
	}{
		{
			name:    "simple error with file",
			pos:     token.Position{Line: 1, Column: 10},
			message: "undefined variable 'x'",
			source:  "var y = x + 5;",
			file:    "test.jsnc",
			wantContain: []string{
				"parse error in test.jsnc:1:10",
				"   1 | var y = x + 5;",
				"^",
				"undefined variable 'x'",
			},
		},
		{
			name:    "error without file",
			pos:     token.Position{Line: 5, Column: 15},
			message: "type mismatch",
			source:  "line1\nline2\nline3\nline4\nline5 with error here\nline6",
			file:    "",
			wantContain: []string{
				"parse error at line 5:15",
				"   5 | line5 with error here",
				"^",
				"type mismatch",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCompilerError(ParseError, tt.pos, tt.message, tt.source, tt.file)
			got := err.Format(false)

			for _, want := range tt.wantContain {
				if !strings.Contains(got, want) {
					t.Errorf("Format() output missing expected string\nwant substring: %q\ngot:\n%s", want, got)
				}
			}
		})
	}
}

func TestCompilerErrorFormatWithContext(t *testing.T) {
	source := `var x = 5;
var y = "";
y = 10;
print(y);`

	err := NewCompilerError(CodegenError, token.Position{Line: 3, Column: 3}, "cannot assign number to string", source, "test.jsnc")
	got := err.FormatWithContext(1, false)

	wantContain := []string{
		"codegen error in test.jsnc:3:3",
		"   2 | var y = \"\";",
		"   3 | y = 10;",
		"   4 | print(y);",
		"^",
		"cannot assign number to string",
	}
	for _, want := range wantContain {
		if !strings.Contains(got, want) {
			t.Errorf("FormatWithContext() output missing expected string\nwant substring: %q\ngot:\n%s", want, got)
		}
	}
}

func TestCompilerErrorGetSourceLine(t *testing.T) {
	source := "line1\nline2\nline3\nline4"

	tests := []struct {
		name    string
		lineNum int
		want    string
	}{
		{"first line", 1, "line1"},
		{"middle line", 2, "line2"},
		{"last line", 4, "line4"},
		{"out of range too high", 10, ""},
		{"out of range zero", 0, ""},
		{"out of range negative", -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCompilerError(ParseError, token.Position{}, "", source, "")
			got := err.getSourceLine(tt.lineNum)
			if got != tt.want {
				t.Errorf("getSourceLine(%d) = %q, want %q", tt.lineNum, got, tt.want)
			}
		})
	}
}

func TestCompilerErrorGetSourceContext(t *testing.T) {
	source := "line1\nline2\nline3\nline4\nline5"

	tests := []struct {
		name          string
		lineNum       int
		contextBefore int
		contextAfter  int
		want          []string
	}{
		{"middle with 1 context", 3, 1, 1, []string{"line2", "line3", "line4"}},
		{"first line with context", 1, 1, 2, []string{"line1", "line2", "line3"}},
		{"last line with context", 5, 2, 1, []string{"line3", "line4", "line5"}},
		{"no context", 3, 0, 0, []string{"line3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCompilerError(ParseError, token.Position{}, "", source, "")
			got := err.getSourceContext(tt.lineNum, tt.contextBefore, tt.contextAfter)

			if len(got) != len(tt.want) {
				t.Fatalf("getSourceContext() returned %d lines, want %d", len(got), len(tt.want))
			}
			for i, line := range got {
				if line != tt.want[i] {
					t.Errorf("getSourceContext() line %d = %q, want %q", i, line, tt.want[i])
				}
			}
		})
	}
}

func TestFormatErrors(t *testing.T) {
	if got := FormatErrors(nil, false); got != "" {
		t.Errorf("FormatErrors(nil) = %q, want empty", got)
	}

	single := []*CompilerError{
		NewCompilerError(ParseError, token.Position{Line: 1, Column: 5}, "syntax error", "var x", "test.jsnc"),
	}
	got := FormatErrors(single, false)
	for _, want := range []string{"parse error in test.jsnc:1:5", "syntax error"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatErrors() missing %q, got:\n%s", want, got)
		}
	}

	multi := []*CompilerError{
		NewCompilerError(ParseError, token.Position{Line: 1, Column: 5}, "first error", "var x", "test.jsnc"),
		NewCompilerError(LinearizationError, token.Position{Line: 3, Column: 10}, "second error", "line1\nline2\ny = 10", "test.jsnc"),
	}
	got = FormatErrors(multi, false)
	for _, want := range []string{
		"compilation failed with 2 error(s)",
		"[Error 1 of 2]", "first error",
		"[Error 2 of 2]", "second error",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatErrors() missing %q, got:\n%s", want, got)
		}
	}
}

func TestFromErrorsRecoversPositionFromPositioned(t *testing.T) {
	errs := []error{
		&positionedError{msg: "undefined variable 'x'", pos: token.Position{Line: 5, Column: 10}},
		plainError("unpositioned failure"),
	}

	got := FromErrors(ParseError, errs, "source", "test.jsnc")
	if len(got) != 2 {
		t.Fatalf("expected 2 compiler errors, got %d", len(got))
	}
	if got[0].Pos.Line != 5 || got[0].Pos.Column != 10 {
		t.Errorf("expected recovered position 5:10, got %d:%d", got[0].Pos.Line, got[0].Pos.Column)
	}
	if got[1].Pos != (token.Position{}) {
		t.Errorf("expected zero position for unpositioned error, got %+v", got[1].Pos)
	}
}

func TestCompilerErrorImplementsError(t *testing.T) {
	err := NewCompilerError(ParseError, token.Position{Line: 1, Column: 5}, "test error", "var x", "test.jsnc")
	var _ error = err

	if !strings.Contains(err.Error(), "test error") {
		t.Errorf("Error() should contain 'test error', got: %s", err.Error())
	}
}

func TestFormatWithColor(t *testing.T) {
	err := NewCompilerError(ParseError, token.Position{Line: 1, Column: 5}, "test error", "var x = 10;", "test.jsnc")

	if colored := err.Format(true); !strings.Contains(colored, "\033[") {
		t.Error("Format(true) should contain ANSI color codes")
	}
	if plain := err.Format(false); strings.Contains(plain, "\033[") {
		t.Error("Format(false) should not contain ANSI color codes")
	}
}

func TestToolErrorFormat(t *testing.T) {
	err := NewToolError("linker exited with status 1", "", "undefined symbol: arithmetic_add")
	got := err.Format(false)

	for _, want := range []string{"tool error", "linker exited with status 1", "--- stderr ---", "undefined symbol: arithmetic_add"} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() missing %q, got:\n%s", want, got)
		}
	}
}

type positionedError struct {
	msg string
	pos token.Position
}

func (e *positionedError) Error() string              { return e.msg }
func (e *positionedError) Position() token.Position    { return e.pos }

type plainError string

func (e plainError) Error() string { return string(e) }
