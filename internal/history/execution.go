// Package history keeps a bounded in-process record of past make
// executions and provides windowed and searchable access to their
// captured output.
package history

import (
	"errors"
	"fmt"
	"strings"
)

// Execution is one completed (or failed, or timed-out) run of a target.
// Records are immutable once inserted into the cache.
type Execution struct {
	// ID is positive, strictly increasing across the process lifetime,
	// and never reused, even after eviction.
	ID       int    `json:"execution_id"`
	RunID    string `json:"run_id"` // correlation identifier from the runner
	Target   string `json:"target"`
	Command  string `json:"command"` // the exact command line executed
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"` // -1 signals timeout or launch failure
}

// Stream selects which captured stream to read.
type Stream string

const (
	Stdout Stream = "stdout"
	Stderr Stream = "stderr"
)

// ErrInvalidStream is returned for stream selectors other than
// "stdout" and "stderr".
var ErrInvalidStream = errors.New("invalid stream (must be 'stdout' or 'stderr')")

// ParseStream validates a stream selector. An empty selector defaults
// to stdout.
func ParseStream(s string) (Stream, error) {
	switch s {
	case "", string(Stdout):
		return Stdout, nil
	case string(Stderr):
		return Stderr, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStream, s)
	}
}

// Lines returns the selected stream split into lines. Empty output
// yields no lines; a single trailing newline does not produce an
// empty final line.
func (e *Execution) Lines(stream Stream) []string {
	var text string
	if stream == Stderr {
		text = e.Stderr
	} else {
		text = e.Stdout
	}
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
