package parser

import "github.com/jsnc-lang/jsnc/internal/token"

// Error is a single parse error: an unexpected token at a given position.
type Error struct {
	Message string
	Pos     token.Position
}

func (e *Error) Error() string { return e.Message }

// Position reports where the error occurred, satisfying errors.Positioned.
func (e *Error) Position() token.Position { return e.Pos }

// parseAbort is used internally to unwind the recursive-descent parser to
// ParseProgram once the first error has been recorded, mirroring the
// teacher's habit of recording structured errors and letting the caller
// decide whether to keep going.
type parseAbort struct{}
