package mcp

import (
	"context"
	"fmt"

	"github.com/deixis/maestro/internal/history"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type getOutputParams struct {
	ExecutionID int    `json:"execution_id" jsonschema:"the execution_id from a make tool result"`
	Stream      string `json:"stream,omitempty" jsonschema:"which captured stream to read: stdout (default) or stderr"`
	StartLine   int    `json:"start_line,omitempty" jsonschema:"0-based first line of the window (inclusive)"`
	EndLine     *int   `json:"end_line,omitempty" jsonschema:"0-based end of the window (exclusive); defaults to the configured tail-line limit"`
}

type outputResult struct {
	Status string `json:"status"`
	*history.Window
}

func (h *handler) getOutputHandler(ctx context.Context, req *mcp.CallToolRequest, params getOutputParams) (*mcp.CallToolResult, any, error) {
	e, ok := h.cache.Get(params.ExecutionID)
	if !ok {
		return errorResult(fmt.Sprintf("Execution %d not found in cache", params.ExecutionID))
	}

	stream, err := history.ParseStream(params.Stream)
	if err != nil {
		return errorResult(fmt.Sprintf("Invalid stream %q: must be 'stdout' or 'stderr'", params.Stream))
	}

	endLine := h.cfg.TailLines()
	if params.EndLine != nil {
		endLine = *params.EndLine
	}

	w := history.GetOutput(e, stream, params.StartLine, endLine)
	return jsonResult(outputResult{Status: "success", Window: w})
}

type searchOutputParams struct {
	ExecutionID  int    `json:"execution_id" jsonschema:"the execution_id from a make tool result"`
	Query        string `json:"query" jsonschema:"case-insensitive substring to search for"`
	Stream       string `json:"stream,omitempty" jsonschema:"which captured stream to search: stdout (default) or stderr"`
	ContextLines int    `json:"context_lines,omitempty" jsonschema:"number of lines to include before and after each match"`
}

type searchResult struct {
	Status string `json:"status"`
	*history.SearchResult
}

func (h *handler) searchOutputHandler(ctx context.Context, req *mcp.CallToolRequest, params searchOutputParams) (*mcp.CallToolResult, any, error) {
	e, ok := h.cache.Get(params.ExecutionID)
	if !ok {
		return errorResult(fmt.Sprintf("Execution %d not found in cache", params.ExecutionID))
	}

	stream, err := history.ParseStream(params.Stream)
	if err != nil {
		return errorResult(fmt.Sprintf("Invalid stream %q: must be 'stdout' or 'stderr'", params.Stream))
	}

	contextLines := params.ContextLines
	if contextLines < 0 {
		contextLines = 0
	}

	res := history.Search(e, params.Query, stream, contextLines)
	return jsonResult(searchResult{Status: "success", SearchResult: res})
}
