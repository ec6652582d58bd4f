// Package runner executes make targets as bounded child processes with
// timeouts and output size limits.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Runner executes make targets from a fixed working directory.
type Runner struct {
	Make       string // make binary; resolved via PATH
	Makefile   string // path passed to make via -f
	WorkingDir string // child process working directory
	Timeout    time.Duration
	MaxOutput  int // bytes per captured stream
}

// Run invokes make for the given target and waits for it to finish, up to
// the configured timeout. extraArgs must be pre-split tokens; they are
// appended to the command line verbatim. When dryRun is set, make is told
// to print recipes without executing them (-n).
//
// Run only returns an error for structurally invalid input. Runtime
// outcomes, including timeouts and launch failures, are classified in
// Result.State so the caller can record every attempt.
func (r *Runner) Run(ctx context.Context, target string, extraArgs []string, dryRun bool) (*Result, error) {
	if target == "" {
		return nil, fmt.Errorf("empty target")
	}

	argv := []string{r.Make, "-f", r.Makefile}
	if dryRun {
		argv = append(argv, "-n")
	}
	argv = append(argv, target)
	argv = append(argv, extraArgs...)

	res := &Result{
		RunID:   uuid.New().String(),
		Command: strings.Join(argv, " "),
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.WorkingDir
	// A killed make can leave grandchildren holding the output pipes;
	// stop waiting for them shortly after the timeout fires.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: r.MaxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: r.MaxOutput}

	runErr := cmd.Run()

	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()
	res.Truncated = stdout.Len() >= r.MaxOutput || stderr.Len() >= r.MaxOutput

	switch {
	case runErr == nil:
		res.State = Completed
		res.ExitCode = 0
	case ctx.Err() == context.DeadlineExceeded:
		// CommandContext killed the child; whatever was captured before
		// the deadline is kept.
		res.State = TimedOut
		res.ExitCode = -1
		res.Err = fmt.Errorf("target %q timed out after %s", target, r.Timeout)
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.State = Completed
			res.ExitCode = exitErr.ExitCode()
		} else {
			// Binary not found or other exec-level failure.
			res.State = LaunchFailed
			res.ExitCode = -1
			res.Err = fmt.Errorf("executing %s: %w", argv[0], runErr)
		}
	}

	return res, nil
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
