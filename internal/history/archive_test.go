package history

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskArchive_SaveLoad(t *testing.T) {
	a := NewDiskArchive(t.TempDir())
	e := &Execution{
		ID:       4,
		RunID:    "run-4",
		Target:   "build",
		Command:  "make -f Makefile build",
		Stdout:   "ok\n",
		ExitCode: 0,
	}
	if err := a.Save(e); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := a.Load(4)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != 4 || got.Target != "build" || got.RunID != "run-4" {
		t.Errorf("Load = %+v", got)
	}
	if got.Stdout != "ok\n" {
		t.Errorf("Stdout = %q, want %q", got.Stdout, "ok\n")
	}
}

func TestDiskArchive_LazyTempDir(t *testing.T) {
	a := NewDiskArchive("")
	if err := a.Save(&Execution{ID: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	dir, err := a.Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if !strings.Contains(filepath.Base(dir), "maestro-runs") {
		t.Errorf("Dir = %q, want a maestro-runs temp dir", dir)
	}
}

func TestDiskArchive_LoadMissing(t *testing.T) {
	a := NewDiskArchive(t.TempDir())
	if _, err := a.Load(99); err == nil {
		t.Fatal("expected error for missing execution")
	}
}
