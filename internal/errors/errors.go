// Package errors formats compiler errors with source context, line/column
// information, and a caret pointing at the offending location.
package errors

import (
	"fmt"
	"strings"

	"github.com/jsnc-lang/jsnc/internal/token"
)

// Kind classifies which compiler stage raised an error, so a driver can
// decide whether to keep going (e.g. collect every parse error before
// giving up) or stop immediately (e.g. an I/O failure has no recovery).
type Kind int

const (
	LexError Kind = iota
	ParseError
	NameResolutionError
	LinearizationError
	CodegenError
	IOError
	ToolError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case NameResolutionError:
		return "name resolution error"
	case LinearizationError:
		return "linearization error"
	case CodegenError:
		return "codegen error"
	case IOError:
		return "I/O error"
	case ToolError:
		return "tool error"
	default:
		return "error"
	}
}

// CompilerError is a single compilation error with position and context.
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     token.Position
	Kind    Kind

	// Stdout/Stderr carry the captured output of an external tool (an
	// assembler or linker) when Kind is ToolError; empty otherwise. The
	// driver in this repository does not run any external tool.
	Stdout string
	Stderr string
}

// NewCompilerError creates a new compiler error.
func NewCompilerError(kind Kind, pos token.Position, message, source, file string) *CompilerError {
	return &CompilerError{
		Kind:    kind,
		Pos:     pos,
		Message: message,
		Source:  source,
		File:    file,
	}
}

// NewToolError wraps an external tool's failure, attaching its captured
// output for display alongside the message.
func NewToolError(message, stdout, stderr string) *CompilerError {
	return &CompilerError{Kind: ToolError, Message: message, Stdout: stdout, Stderr: stderr}
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format formats the error message with source context.
// If color is true, ANSI color codes are used for terminal output.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.Kind == ToolError {
		sb.WriteString(e.Kind.String())
		sb.WriteString(": ")
		sb.WriteString(e.Message)
		if e.Stdout != "" {
			sb.WriteString("\n--- stdout ---\n")
			sb.WriteString(e.Stdout)
		}
		if e.Stderr != "" {
			sb.WriteString("\n--- stderr ---\n")
			sb.WriteString(e.Stderr)
		}
		return sb.String()
	}

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column))
	}

	sourceLine := e.getSourceLine(e.Pos.Line)
	if sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// getSourceLine extracts a specific 1-indexed line from the source code.
func (e *CompilerError) getSourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}

	return lines[lineNum-1]
}

// getSourceContext extracts lines from (lineNum - contextBefore) to
// (lineNum + contextAfter), both 1-indexed and clamped to the source.
func (e *CompilerError) getSourceContext(lineNum, contextBefore, contextAfter int) []string {
	if e.Source == "" {
		return nil
	}

	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return nil
	}

	start := lineNum - contextBefore
	if start < 1 {
		start = 1
	}

	end := lineNum + contextAfter
	if end > len(lines) {
		end = len(lines)
	}

	return lines[start-1 : end]
}

// FormatWithContext formats the error with surrounding source context.
func (e *CompilerError) FormatWithContext(contextLines int, color bool) string {
	if e.Kind == ToolError {
		return e.Format(color)
	}

	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%s at line %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column))
	}

	contextLinesList := e.getSourceContext(e.Pos.Line, contextLines, contextLines)
	if len(contextLinesList) == 0 {
		return e.Format(color)
	}

	startLine := e.Pos.Line - contextLines
	if startLine < 1 {
		startLine = 1
	}

	for i, line := range contextLinesList {
		currentLine := startLine + i
		lineNumStr := fmt.Sprintf("%4d | ", currentLine)

		if currentLine == e.Pos.Line {
			if color {
				sb.WriteString("\033[1m")
			}
			sb.WriteString(lineNumStr)
			sb.WriteString(line)
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")

			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		} else {
			if color {
				sb.WriteString("\033[2m")
			}
			sb.WriteString(lineNumStr)
			sb.WriteString(line)
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// FormatErrors formats multiple compiler errors, each with source context.
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}

	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("compilation failed with %d error(s):\n\n", len(errs)))

	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("[Error %d of %d]\n", i+1, len(errs)))
		sb.WriteString(err.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}

// FormatErrorsWithContext formats multiple compiler errors with surrounding
// source context.
func FormatErrorsWithContext(errs []*CompilerError, contextLines int, color bool) string {
	if len(errs) == 0 {
		return ""
	}

	if len(errs) == 1 {
		return errs[0].FormatWithContext(contextLines, color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("compilation failed with %d error(s):\n\n", len(errs)))

	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("[Error %d of %d]\n", i+1, len(errs)))
		sb.WriteString(err.FormatWithContext(contextLines, color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}

// Positioned is implemented by parser.Error and precompiler.Error, letting
// FromErrors recover the source location each already carries instead of
// emitting a bare, unpositioned message.
type Positioned interface {
	error
	Position() token.Position
}

// FromErrors wraps a slice of errors from a compiler stage into
// CompilerErrors suitable for FormatErrors, recovering position
// information from any error implementing Positioned.
func FromErrors(kind Kind, errs []error, source, file string) []*CompilerError {
	out := make([]*CompilerError, 0, len(errs))
	for _, err := range errs {
		var pos token.Position
		if p, ok := err.(Positioned); ok {
			pos = p.Position()
		}
		out = append(out, NewCompilerError(kind, pos, err.Error(), source, file))
	}
	return out
}
