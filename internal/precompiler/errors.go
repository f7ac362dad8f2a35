package precompiler

import (
	"fmt"

	"github.com/jsnc-lang/jsnc/internal/token"
)

// Kind distinguishes the precompiler failure modes spec §4.1 names.
type Kind int

const (
	UndefinedVariable Kind = iota
	UndefinedFunction
	DuplicateFunction
	DuplicateVariable
	ImbalancedBraces
	StackUnderflow
)

func (k Kind) String() string {
	switch k {
	case UndefinedVariable:
		return "undefined variable"
	case UndefinedFunction:
		return "undefined function"
	case DuplicateFunction:
		return "duplicate function declaration"
	case DuplicateVariable:
		return "duplicate variable declaration"
	case ImbalancedBraces:
		return "imbalanced braces"
	case StackUnderflow:
		return "stack underflow during reduction"
	default:
		return "precompiler error"
	}
}

// Error is a single name-resolution or linearization failure.
type Error struct {
	Kind    Kind
	Name    string
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Name, e.Pos)
	}
	return fmt.Sprintf("%s (at %s)", e.Kind, e.Pos)
}

// Position reports where the error occurred, satisfying errors.Positioned.
func (e *Error) Position() token.Position { return e.Pos }
