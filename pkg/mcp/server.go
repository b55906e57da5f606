// Package mcp exposes actkit plan operations as MCP tools so AI agents can
// validate, inspect and (dry-)run plans over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates a new MCP server with actkit tools registered.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"actkit",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("actkit/validate",
			mcp.WithDescription("Validate an actkit plan YAML file"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the plan YAML file")),
		),
		HandleValidate,
	)

	s.AddTool(
		mcp.NewTool("actkit/run",
			mcp.WithDescription("Run an actkit plan (defaults to dry-run mode for safety; prompts are answered from 'answers' or by their defaults)"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the plan YAML file")),
			mcp.WithString("mode", mcp.Description("Execution mode: 'real' or 'dry-run'")),
			mcp.WithArray("answers", mcp.Description("Scripted answers consumed by prompts in order")),
			mcp.WithObject("vars", mcp.Description("Seed variables merged over the plan's vars")),
		),
		HandleRun,
	)

	s.AddTool(
		mcp.NewTool("actkit/schema",
			mcp.WithDescription("Export the actkit plan JSON Schema"),
		),
		HandleSchema,
	)

	s.AddTool(
		mcp.NewTool("actkit/walkthrough",
			mcp.WithDescription("Describe a plan as markdown without executing it"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the plan YAML file")),
		),
		HandleWalkthrough,
	)

	return s
}
