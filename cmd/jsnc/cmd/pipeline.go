package cmd

import (
	"fmt"
	"os"

	"github.com/jsnc-lang/jsnc/internal/ast"
	"github.com/jsnc-lang/jsnc/internal/config"
	"github.com/jsnc-lang/jsnc/internal/errors"
	"github.com/jsnc-lang/jsnc/internal/ir"
	"github.com/jsnc-lang/jsnc/internal/lexer"
	"github.com/jsnc-lang/jsnc/internal/parser"
	"github.com/jsnc-lang/jsnc/internal/precompiler"
)

// readInputFile reads the --input source file shared by the root, ir, and
// run commands.
func readInputFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("--input is required")
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return string(content), nil
}

// loadConfig loads the driver configuration at path, or the default
// configuration if path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

// parseProgram runs the lexer and parser, sharing the lex-then-parse step
// between the root, ir, and run commands.
func parseProgram(input string) (*ast.Program, []error) {
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	return program, p.Errors()
}

// lowerProgram runs the precompiler, sharing parse-then-lower between the
// root, ir, and run commands. Parse errors are reported and turned into a
// single Go error; lowering errors likewise.
func lowerProgram(input, filename string, cfg *config.Config) (*ir.Module, error) {
	program, perrs := parseProgram(input)
	if len(perrs) > 0 {
		reportStageErrors(errors.ParseError, perrs, input, filename)
		return nil, fmt.Errorf("parsing failed with %d error(s)", len(perrs))
	}

	module, lerrs := precompiler.Lower(program, cfg.Externs())
	if len(lerrs) > 0 {
		reportStageErrors(errors.LinearizationError, lerrs, input, filename)
		return nil, fmt.Errorf("lowering failed with %d error(s)", len(lerrs))
	}

	return module, nil
}

// reportStageErrors prints every error from one compiler stage to stderr
// via errors.FormatErrors: a count header, then for each error a
// "<kind> in <file>:<line>:<col>" line, the source line with a caret, and
// the message. Errors are not printed as single "<kind>: <detail>" lines.
func reportStageErrors(kind errors.Kind, errs []error, input, filename string) {
	compilerErrors := errors.FromErrors(kind, errs, input, filename)
	fmt.Fprint(os.Stderr, errors.FormatErrors(compilerErrors, true))
}
