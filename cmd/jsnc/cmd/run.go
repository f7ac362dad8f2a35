package cmd

import (
	"fmt"
	"os"

	"github.com/jsnc-lang/jsnc/internal/exec"
	"github.com/spf13/cobra"
)

var runInputPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Interpret a jsnc source file",
	Long: `Lex, parse, and lower a jsnc source file, then execute the
resulting IR directly against the Go-native reference implementation of
the runtime contract (internal/core + internal/exec), instead of
hard-linking a native binary. This is the harness the compiler's
end-to-end scenarios run under, since this repository never invokes a
real system linker.`,
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runInputPath, "input", "", "source file to execute (required)")
}

func runScript(_ *cobra.Command, _ []string) error {
	input, err := readInputFile(runInputPath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig("")
	if err != nil {
		return err
	}

	module, err := lowerProgram(input, runInputPath, cfg)
	if err != nil {
		return err
	}

	machine := exec.New()
	if err := machine.Run(module); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %s\n", err)
		return fmt.Errorf("execution failed")
	}

	return nil
}
