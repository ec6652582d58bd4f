package history

import "sync"

// Cache is a bounded FIFO store of executions keyed by their IDs.
// IDs are assigned inside the insert critical section, so concurrent
// adds never observe duplicate or out-of-order identifiers.
type Cache struct {
	mu      sync.Mutex
	cap     int
	nextID  int
	entries map[int]*Execution
	order   []int // insertion order; head is the eviction candidate
	archive Archive
}

// NewCache creates a cache holding at most maxEntries executions.
// Capacity must be >= 1. archive may be nil; when set, every added
// execution is also handed to it.
func NewCache(maxEntries int, archive Archive) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache{
		cap:     maxEntries,
		nextID:  1,
		entries: make(map[int]*Execution, maxEntries),
		archive: archive,
	}
}

// Add assigns the next identifier, stores a new execution, and evicts
// the oldest entry if the cache is over capacity. It returns the
// stored record.
func (c *Cache) Add(target, command, runID, stdout, stderr string, exitCode int) *Execution {
	e := &Execution{
		RunID:    runID,
		Target:   target,
		Command:  command,
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
	}

	c.mu.Lock()
	e.ID = c.nextID
	c.nextID++
	c.entries[e.ID] = e
	c.order = append(c.order, e.ID)
	if len(c.entries) > c.cap {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.mu.Unlock()

	if c.archive != nil {
		// Archive failures are not the caller's problem; the record is
		// already live in the cache.
		_ = c.archive.Save(e)
	}
	return e
}

// Get returns the execution with the given ID, or false when the ID
// was never assigned or its record has been evicted.
func (c *Cache) Get(id int) (*Execution, bool) {
	c.mu.Lock()
	e, ok := c.entries[id]
	c.mu.Unlock()
	return e, ok
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	return n
}
