package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromProjectRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Makefile"), []byte("build:\n\techo ok\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".maestro"), []byte("version: 1\ntimeout: 10m\ntail_lines: 25\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Root != dir {
		t.Errorf("Root = %q, want %q", res.Root, dir)
	}
	if res.Config.Version != 1 {
		t.Errorf("Config.Version = %d, want 1", res.Config.Version)
	}
	if res.Config.Timeout() != 10*time.Minute {
		t.Errorf("Timeout() = %s, want 10m", res.Config.Timeout())
	}
	if res.Config.TailLines() != 25 {
		t.Errorf("TailLines() = %d, want 25", res.Config.TailLines())
	}
}

func TestLoad_FromSubdirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "Makefile"), []byte("build:\n\techo ok\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".maestro"), []byte("version: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sub := filepath.Join(root, "pkg", "foo")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := Load(sub)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Root != root {
		t.Errorf("Root = %q, want %q", res.Root, root)
	}
	if res.Config.Version != 2 {
		t.Errorf("Config.Version = %d, want 2", res.Config.Version)
	}
}

func TestLoad_NoMakefile(t *testing.T) {
	dir := t.TempDir()

	res, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Root != dir {
		t.Errorf("Root = %q, want %q (fallback to workdir)", res.Root, dir)
	}
	if res.Config.RawTimeout != "" {
		t.Errorf("expected default config, got RawTimeout = %q", res.Config.RawTimeout)
	}
}

func TestLoad_NoMaestroFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Makefile"), []byte("build:\n\techo ok\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Config.Version != 0 {
		t.Errorf("expected default config, got Version = %d", res.Config.Version)
	}
}

func TestLoad_FiltersAndPaths(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Makefile"), []byte("build:\n\techo ok\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := `makefile: build/Makefile.dev
working_dir: /srv/app
include: [build, test]
exclude: [deploy]
max_entries: 5
`
	if err := os.WriteFile(filepath.Join(dir, ".maestro"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c := res.Config
	if c.Makefile() != "build/Makefile.dev" {
		t.Errorf("Makefile() = %q", c.Makefile())
	}
	if c.WorkingDir != "/srv/app" {
		t.Errorf("WorkingDir = %q", c.WorkingDir)
	}
	if len(c.Include) != 2 || c.Include[0] != "build" {
		t.Errorf("Include = %v", c.Include)
	}
	if len(c.Exclude) != 1 || c.Exclude[0] != "deploy" {
		t.Errorf("Exclude = %v", c.Exclude)
	}
	if c.MaxEntries() != 5 {
		t.Errorf("MaxEntries() = %d, want 5", c.MaxEntries())
	}
}

func TestDefaults(t *testing.T) {
	c := &Config{}
	if c.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %s, want %s", c.Timeout(), DefaultTimeout)
	}
	if c.MaxOutputBytes() != DefaultMaxOutput {
		t.Errorf("MaxOutputBytes() = %d, want %d", c.MaxOutputBytes(), DefaultMaxOutput)
	}
	if c.TailLines() != DefaultTailLines {
		t.Errorf("TailLines() = %d, want %d", c.TailLines(), DefaultTailLines)
	}
	if c.MaxEntries() != DefaultMaxEntries {
		t.Errorf("MaxEntries() = %d, want %d", c.MaxEntries(), DefaultMaxEntries)
	}
	if c.Makefile() != DefaultMakefile {
		t.Errorf("Makefile() = %q, want %q", c.Makefile(), DefaultMakefile)
	}
}

func TestTimeout_Invalid(t *testing.T) {
	c := &Config{RawTimeout: "not-a-duration"}
	if c.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %s, want default for invalid value", c.Timeout())
	}
}
