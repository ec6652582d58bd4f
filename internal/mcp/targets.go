package mcp

import (
	"context"
	"os"

	"github.com/deixis/maestro/internal/makefile"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type listTargetsParams struct{}

type listTargetsResult struct {
	MakefilePath     string            `json:"makefile_path"`
	WorkingDirectory string            `json:"working_directory"`
	AvailableTargets int               `json:"available_targets"`
	Targets          []makefile.Target `json:"targets"`
}

func (h *handler) listTargetsHandler(ctx context.Context, req *mcp.CallToolRequest, _ listTargetsParams) (*mcp.CallToolResult, any, error) {
	return jsonResult(listTargetsResult{
		MakefilePath:     h.makefilePath,
		WorkingDirectory: h.workingDir,
		AvailableTargets: len(h.exposed),
		Targets:          h.exposed,
	})
}

type infoParams struct{}

type targetCount struct {
	Count int `json:"count"`
}

type infoFilters struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

type infoResult struct {
	MakefileExists  bool        `json:"makefile_exists"`
	AllTargets      targetCount `json:"all_targets"`
	FilteredTargets targetCount `json:"filtered_targets"`
	Filters         infoFilters `json:"filters"`
}

// infoHandler re-reads the Makefile so the report reflects its current
// state, even if it changed after the tool set was registered.
func (h *handler) infoHandler(ctx context.Context, req *mcp.CallToolRequest, _ infoParams) (*mcp.CallToolResult, any, error) {
	out := infoResult{
		Filters: infoFilters{Include: h.cfg.Include, Exclude: h.cfg.Exclude},
	}

	if _, err := os.Stat(h.makefilePath); err == nil {
		out.MakefileExists = true
	}

	if all, err := makefile.Targets(h.makefilePath); err == nil {
		out.AllTargets.Count = len(all)
		out.FilteredTargets.Count = len(makefile.Filter(all, h.cfg.Include, h.cfg.Exclude))
	}

	return jsonResult(out)
}
