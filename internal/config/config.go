// Package config loads the compiler driver's YAML configuration: the
// target triple handed to the external assembler/linker, the path to the
// core runtime library to link against, and which extern function names
// the precompiler should seed beyond spec's unconditional three
// (print, assert, assert_eq).
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is one driver configuration.
type Config struct {
	// TargetTriple, when set, is written into the emitted IR module's
	// `target triple` line; this repo never invokes an assembler or
	// linker itself.
	TargetTriple string `yaml:"target_triple"`

	// CoreRuntimePath points at the core runtime library archive the
	// linker should link against.
	CoreRuntimePath string `yaml:"core_runtime_path"`

	// OutputDir is parsed but not read by the driver: the IR file path is
	// the --output flag's value plus ".ll".
	OutputDir string `yaml:"output_dir"`

	// ExternNames are additional extern function names available to
	// source programs beyond the three spec always injects. "abort" is
	// the only name original_source predefines beyond those three.
	ExternNames []string `yaml:"extern_names"`
}

// defaultExterns are the three names spec unconditionally injects,
// regardless of what a config file adds.
var defaultExterns = []string{"print", "assert", "assert_eq"}

// Default returns the configuration used when no file is given: no
// additional externs, no runtime path, no target triple, OutputDir ".".
func Default() *Config {
	return &Config{OutputDir: "."}
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Externs returns the full seed set the precompiler should resolve
// against: the three unconditional names plus whatever this config adds.
func (c *Config) Externs() []string {
	seen := make(map[string]bool, len(defaultExterns)+len(c.ExternNames))
	out := make([]string, 0, len(defaultExterns)+len(c.ExternNames))
	for _, name := range defaultExterns {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, name := range c.ExternNames {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
