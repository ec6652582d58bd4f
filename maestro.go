// Package maestro exposes Makefile targets as MCP tools with cached,
// searchable execution output.
package maestro

// Version is the maestro release version.
const Version = "0.3.1"
