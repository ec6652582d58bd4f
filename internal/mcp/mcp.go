// Package mcp provides the maestro MCP server, registering one tool per
// exposed Makefile target plus the output retrieval and search tools.
package mcp

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/deixis/maestro"
	"github.com/deixis/maestro/internal/config"
	"github.com/deixis/maestro/internal/history"
	"github.com/deixis/maestro/internal/makefile"
	"github.com/deixis/maestro/internal/runner"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	cfg          *config.Config
	runner       *runner.Runner
	cache        *history.Cache
	makefilePath string
	workingDir   string
	exposed      []makefile.Target
}

// NewServer creates an MCP server with one make_<target> tool per exposed
// target, plus get_output, search_output, list_available_targets, and
// get_makefile_info.
func NewServer(cfg *config.Config, makefilePath, workingDir string, exposed map[string]string, r *runner.Runner, cache *history.Cache) *mcp.Server {
	h := &handler{
		cfg:          cfg,
		runner:       r,
		cache:        cache,
		makefilePath: makefilePath,
		workingDir:   workingDir,
		exposed:      makefile.Sorted(exposed),
	}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "maestro", Version: maestro.Version}, mcpOpts)

	for _, t := range h.exposed {
		mcp.AddTool(s, &mcp.Tool{
			Name:        ToolName(t.Name),
			Description: t.Description,
		}, h.makeToolHandler(t.Name))
	}

	mcp.AddTool(s, &mcp.Tool{
		Name: "get_output",
		Description: `Page through the captured output of a past execution.

Use the execution_id from a make tool result. Returns the half-open line
range [start_line, end_line) of the selected stream; out-of-range indices
are clamped, never an error.`,
	}, h.getOutputHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "search_output",
		Description: `Search the captured output of a past execution.

Case-insensitive substring match, evaluated per line. Each match reports its
0-based line number and, when context_lines > 0, the surrounding lines.`,
	}, h.searchOutputHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_available_targets",
		Description: "List the Makefile targets exposed as tools, with their descriptions.",
	}, h.listTargetsHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_makefile_info",
		Description: "Report Makefile status: target counts before and after include/exclude filtering.",
	}, h.infoHandler)

	return s
}

// invalidToolChars matches characters that cannot appear in MCP tool names.
var invalidToolChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// ToolName maps a Makefile target name to its MCP tool name.
func ToolName(target string) string {
	return "make_" + invalidToolChars.ReplaceAllString(target, "_")
}

// jsonResult builds a tool result carrying v as pretty-printed JSON text.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("encoding result: %v", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(map[string]string{"status": "error", "message": text})
	if err != nil {
		data = []byte(text)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		IsError: true,
	}, nil, nil
}
