package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/maestro/internal/history"
	"github.com/deixis/maestro/internal/runner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type makeParams struct {
	AdditionalArgs string `json:"additional_args,omitempty" jsonschema:"extra arguments appended to the make command line, whitespace-separated (e.g. -j4 VERBOSE=1)"`
	DryRun         bool   `json:"dry_run,omitempty" jsonschema:"print the recipe commands without executing them"`
}

// executeResult is the response payload of every make_<target> tool.
type executeResult struct {
	Status           string `json:"status"`
	Target           string `json:"target"`
	ExitCode         int    `json:"exit_code"`
	ExecutionID      int    `json:"execution_id"`
	StdoutTail       string `json:"stdout_tail"`
	StdoutTotalLines int    `json:"stdout_total_lines"`
	StdoutTotalChars int    `json:"stdout_total_chars"`
	Message          string `json:"message"`
	TruncationNote   string `json:"truncation_note,omitempty"`
	Note             string `json:"note,omitempty"`
}

// makeToolHandler returns the handler for one target's tool. Every run,
// including timeouts and launch failures, is recorded in the cache so its
// output stays retrievable.
func (h *handler) makeToolHandler(target string) func(context.Context, *mcp.CallToolRequest, makeParams) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, params makeParams) (*mcp.CallToolResult, any, error) {
		// The pipeline takes pre-split tokens; free-form argument strings
		// are tokenized here, at the caller-facing boundary.
		args := strings.Fields(params.AdditionalArgs)

		res, err := h.runner.Run(ctx, target, args, params.DryRun)
		if err != nil {
			return errorResult(fmt.Sprintf("Failed to execute target '%s': %v", target, err))
		}

		e := h.cache.Add(target, res.Command, res.RunID, string(res.Stdout), string(res.Stderr), res.ExitCode)

		out := executeResult{
			Target:           target,
			ExitCode:         e.ExitCode,
			ExecutionID:      e.ID,
			StdoutTotalChars: len(e.Stdout),
		}

		switch res.State {
		case runner.TimedOut:
			out.Status = "error"
			out.Message = fmt.Sprintf("Target '%s' timed out after %s", target, h.runner.Timeout)
		case runner.LaunchFailed:
			out.Status = "error"
			out.Message = fmt.Sprintf("Failed to execute target '%s': execution could not be completed (%v)", target, res.Err)
		default:
			if e.ExitCode == 0 {
				out.Status = "success"
				out.Message = fmt.Sprintf("Successfully executed target '%s'", target)
			} else {
				out.Status = "error"
				out.Message = fmt.Sprintf("Target '%s' failed with exit code %d", target, e.ExitCode)
			}
		}

		lines := e.Lines(history.Stdout)
		out.StdoutTotalLines = len(lines)

		tail := h.cfg.TailLines()
		if len(lines) > tail {
			out.StdoutTail = strings.Join(lines[len(lines)-tail:], "\n") + "\n"
			out.TruncationNote = fmt.Sprintf(
				"Showing last %d of %d lines. Use get_output with execution_id %d to page through the full output.",
				tail, len(lines), e.ID)
		} else {
			out.StdoutTail = e.Stdout
		}

		if params.DryRun {
			out.Note = "This was a dry run - no commands were actually executed"
		}

		return jsonResult(out)
	}
}
