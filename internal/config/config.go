// Package config loads and validates the optional .maestro YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for execution and cache configuration.
const (
	DefaultTimeout    = 5 * time.Minute
	DefaultMaxOutput  = 1 << 20 // 1 MB per stream
	DefaultTailLines  = 50
	DefaultMaxEntries = 20
	DefaultMakefile   = "Makefile"
)

// Config holds the parsed .maestro configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int      `yaml:"version"`
	RawMakefile  string   `yaml:"makefile"`    // path to the Makefile, relative to the working dir
	WorkingDir   string   `yaml:"working_dir"` // directory make runs from
	RawTimeout   string   `yaml:"timeout"`     // e.g. "5m", "30s"
	RawMaxOutput int      `yaml:"max_output"`  // bytes per captured stream
	RawTail      int      `yaml:"tail_lines"`  // inline preview limit for make tool responses
	RawEntries   int      `yaml:"max_entries"` // execution cache capacity
	Include      []string `yaml:"include"`     // only these targets are exposed (empty: all)
	Exclude      []string `yaml:"exclude"`     // these targets are never exposed
	ArchiveDir   string   `yaml:"archive_dir"` // execution archive directory (empty: temp dir)
}

// Timeout returns the configured per-execution timeout or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// MaxOutputBytes returns the configured per-stream capture cap or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// TailLines returns the inline preview line limit or the default.
func (c *Config) TailLines() int {
	if c.RawTail > 0 {
		return c.RawTail
	}
	return DefaultTailLines
}

// MaxEntries returns the execution cache capacity or the default.
func (c *Config) MaxEntries() int {
	if c.RawEntries > 0 {
		return c.RawEntries
	}
	return DefaultMaxEntries
}

// Makefile returns the configured Makefile path or the default.
func (c *Config) Makefile() string {
	if c.RawMakefile != "" {
		return c.RawMakefile
	}
	return DefaultMakefile
}

// LoadResult holds the parsed config and the discovered project root.
type LoadResult struct {
	Config *Config
	Root   string // directory containing the Makefile; falls back to workdir
}

// Load reads the .maestro file from the project root. The project root is
// discovered by walking upward from workdir looking for a Makefile. If no
// .maestro file exists, a default Config is returned.
func Load(workdir string) (*LoadResult, error) {
	root, err := findProjectRoot(workdir)
	if err != nil {
		// No Makefile found; use workdir as root.
		root = workdir
	}

	path := filepath.Join(root, ".maestro")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LoadResult{Config: &Config{}, Root: root}, nil
		}
		return nil, fmt.Errorf("reading .maestro: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing .maestro: %w", err)
	}
	return &LoadResult{Config: cfg, Root: root}, nil
}

// findProjectRoot walks upward from dir looking for a directory containing
// a Makefile (or makefile, which make also accepts).
func findProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range []string{"Makefile", "makefile"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no Makefile found")
		}
		dir = parent
	}
}
