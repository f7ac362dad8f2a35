package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsnc-lang/jsnc/internal/codegen"
	"github.com/jsnc-lang/jsnc/internal/manifest"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	inputPath    string
	outputPath   string
	configPath   string
	manifestPath string
)

var rootCmd = &cobra.Command{
	Use:   "jsnc",
	Short: "Ahead-of-time compiler driver for the jsnc language",
	Long: `jsnc lexes, parses, and lowers a small JavaScript-like dynamic
language to textual SSA IR, ready for an external assembler and linker to
turn into a native binary linked against the core runtime.

Every value in a jsnc program is a dynamically-typed Variable, boxed the
same way at runtime whether it started out as a number, a string, an
object, or a function. The compiler resolves names and linearizes
expressions ahead of time; the generated IR calls out to the core
runtime for every coercion, arithmetic operation, and property access.

Invoked with --input and --output, the root command runs the full
pipeline and writes the module's textual IR to <output>.ll. The
assembler and linker step that would turn that text into a native
object and binary is out of scope: this driver stops at the IR.`,
	Version: Version,
	RunE:    compileToIR,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.Flags().StringVar(&inputPath, "input", "", "source file to compile (required)")
	rootCmd.Flags().StringVar(&outputPath, "output", "", "base path for the generated <output>.ll (required)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "driver configuration file (extern names, target triple)")
	rootCmd.Flags().StringVar(&manifestPath, "manifest", "", "build manifest file to update with this unit's record")
}

func compileToIR(_ *cobra.Command, _ []string) error {
	if inputPath == "" || outputPath == "" {
		return fmt.Errorf("--input and --output are both required")
	}

	input, err := readInputFile(inputPath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	module, err := lowerProgram(input, inputPath, cfg)
	if err != nil {
		return err
	}

	gen := codegen.New(moduleName(inputPath))
	llvmModule, err := gen.Generate(module)
	if err != nil {
		return fmt.Errorf("codegen failed: %w", err)
	}
	llvmModule.TargetTriple = cfg.TargetTriple

	irPath := outputPath + ".ll"
	if err := os.WriteFile(irPath, []byte(llvmModule.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", irPath, err)
	}

	if manifestPath != "" {
		if err := updateManifest(manifestPath, inputPath, irPath, cfg.Externs()); err != nil {
			return err
		}
	}

	fmt.Printf("%s -> %s\n", inputPath, irPath)
	return nil
}

// moduleName derives the emitted module's name from its source filename.
func moduleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// updateManifest merges this unit's record into the manifest at path,
// replacing any existing entry for the same source file.
func updateManifest(path, sourcePath, irPath string, externs []string) error {
	entries, err := manifest.Read(path)
	if err != nil {
		return fmt.Errorf("reading manifest %s: %w", path, err)
	}

	entry := manifest.Entry{SourcePath: sourcePath, IRPath: irPath, Externs: externs}
	replaced := false
	for i, e := range entries {
		if e.SourcePath == sourcePath {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}

	if err := manifest.Write(path, entries); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}
