// Command jsnc is the ahead-of-time compiler driver: it lexes, parses, and
// lowers a source program to textual SSA IR, ready for an external
// assembler and linker to turn into a native binary against the core
// runtime.
package main

import (
	"fmt"
	"os"

	"github.com/jsnc-lang/jsnc/cmd/jsnc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
