package cmd

import (
	"fmt"

	"github.com/jsnc-lang/jsnc/internal/diagnostics"
	"github.com/spf13/cobra"
)

var irInputPath string

var irCmd = &cobra.Command{
	Use:   "ir",
	Short: "Pretty-print the lowered IR module of a source file to stdout",
	Long: `Lex, parse, and lower a jsnc source file and pretty-print the
resulting IR module (the precompiler's ir.Module, under an "IR:" heading)
to stdout without writing any output file. It does not run codegen, so the
textual LLVM-style IR written by the root command is not printed.`,
	RunE: runIR,
}

func init() {
	rootCmd.AddCommand(irCmd)
	irCmd.Flags().StringVar(&irInputPath, "input", "", "source file to lower (required)")
}

func runIR(_ *cobra.Command, _ []string) error {
	input, err := readInputFile(irInputPath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig("")
	if err != nil {
		return err
	}

	module, err := lowerProgram(input, irInputPath, cfg)
	if err != nil {
		return err
	}

	fmt.Print(diagnostics.Dump("IR", module))
	return nil
}
