package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/dotcheck/internal/application"
	"github.com/openkraft/dotcheck/internal/logger"
)

const instructions = `dotcheck validates an assistant configuration tree: agents, skills, hooks,
rules, commands, JSON files and markdown links. Call dotcheck_validate after
editing any of them and fix every finding with severity "error" before
finishing. Warnings are advisory. Use dotcheck_run_validator to re-check a
single area, and read dotcheck://summary for the last full picture.`

// NewDotcheckMCPServer creates an MCP server exposing validation tools and
// resources for the tree at projectPath. Handler panics become error
// responses and failed requests are logged.
func NewDotcheckMCPServer(svc *application.ValidateService, projectPath string, version string) *server.MCPServer {
	hooks := &server.Hooks{}
	hooks.AddOnError(func(ctx context.Context, id any, method mcplib.MCPMethod, _ any, err error) {
		logger.G(ctx).WithError(err).WithField("method", method).WithField("id", id).Warn("mcp request failed")
	})
	hooks.AddBeforeCallTool(func(ctx context.Context, _ any, req *mcplib.CallToolRequest) {
		logger.G(ctx).WithField("tool", req.Params.Name).Debug("mcp tool call")
	})

	s := server.NewMCPServer(
		"dotcheck",
		version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithResourceRecovery(),
		server.WithHooks(hooks),
	)

	registerTools(s, svc, projectPath)
	registerResources(s, svc, projectPath)

	return s
}
