package runner

// State classifies how a make invocation ended.
type State int

const (
	// Completed means the process ran to completion and reported an exit code.
	Completed State = iota
	// TimedOut means the process was killed after exceeding the timeout.
	TimedOut
	// LaunchFailed means the process could not be started at all.
	LaunchFailed
)

// Result holds the output of one make invocation.
type Result struct {
	RunID     string // unique correlation identifier for this run
	Command   string // the exact command line that was executed
	State     State  // how the run ended
	ExitCode  int    // process exit code; -1 for TimedOut or LaunchFailed
	Stdout    []byte // captured stdout (may be truncated)
	Stderr    []byte // captured stderr (may be truncated)
	Truncated bool   // true if either stream hit the size cap
	Err       error  // underlying error for TimedOut and LaunchFailed
}
