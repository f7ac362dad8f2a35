package exec

import (
	"fmt"
	"strings"

	"github.com/jsnc-lang/jsnc/internal/token"
)

// callFrame is one entry in a Machine's call stack: the function being
// executed and, when known, the position of the call/trap that produced
// this frame.
type callFrame struct {
	functionName string
	position     *token.Position
}

// String returns "functionName [line: N, column: M]", or just the function
// name when no position is known.
func (cf callFrame) String() string {
	if cf.position == nil {
		return cf.functionName
	}
	return fmt.Sprintf("%s [line: %d, column: %d]",
		cf.functionName, cf.position.Line, cf.position.Column)
}

// callStack is a Machine's call stack, ordered oldest (bottom) to newest
// (top). Captured whenever a runtime abort fires, so RuntimeError can
// report the call chain that led there.
type callStack []callFrame

// String renders the stack most-recent-call-first, one frame per line.
func (cs callStack) String() string {
	if len(cs) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := len(cs) - 1; i >= 0; i-- {
		sb.WriteString(cs[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
