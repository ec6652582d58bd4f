package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Archive receives every execution added to the cache. It is an audit
// trail, not a persistence layer: the cache never reads evicted records
// back from it.
type Archive interface {
	Save(e *Execution) error
}

// DiskArchive writes executions as JSON files to a lazily-created
// directory.
type DiskArchive struct {
	mu  sync.Mutex
	dir string
}

// NewDiskArchive creates a DiskArchive rooted at dir. When dir is
// empty, a temp directory is created lazily on the first Save.
func NewDiskArchive(dir string) *DiskArchive {
	return &DiskArchive{dir: dir}
}

// Save writes an execution as a JSON file named after its ID.
func (a *DiskArchive) Save(e *Execution) error {
	dir, err := a.ensureDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling execution %d: %w", e.ID, err)
	}
	path := filepath.Join(dir, strconv.Itoa(e.ID)+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing execution %d: %w", e.ID, err)
	}
	return nil
}

// Load reads an archived execution back from disk. Used by the CLI to
// show runs that may have been evicted from the in-process cache.
func (a *DiskArchive) Load(id int) (*Execution, error) {
	dir, err := a.ensureDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, strconv.Itoa(id)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading execution %d: %w", id, err)
	}
	var e Execution
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshalling execution %d: %w", id, err)
	}
	return &e, nil
}

// Dir returns the archive directory, creating it if necessary.
func (a *DiskArchive) Dir() (string, error) {
	return a.ensureDir()
}

func (a *DiskArchive) ensureDir() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dir != "" {
		if err := os.MkdirAll(a.dir, 0o755); err != nil {
			return "", fmt.Errorf("creating archive directory: %w", err)
		}
		return a.dir, nil
	}
	dir, err := os.MkdirTemp("", "maestro-runs-*")
	if err != nil {
		return "", fmt.Errorf("creating archive directory: %w", err)
	}
	a.dir = dir
	return dir, nil
}
