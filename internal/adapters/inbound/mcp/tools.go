package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/dotcheck/internal/adapters/outbound/tui"
	"github.com/openkraft/dotcheck/internal/application"
)

func registerTools(s *server.MCPServer, svc *application.ValidateService, projectPath string) {
	s.AddTool(
		mcplib.NewTool("dotcheck_validate",
			mcplib.WithDescription("Run every applicable validator and return the aggregate result as JSON"),
			mcplib.WithString("path", mcplib.Description("File or directory to validate, relative to the project (default: the whole project)")),
			mcplib.WithString("only", mcplib.Description("Comma-separated validator names to run")),
		),
		handleValidate(svc, projectPath),
	)

	s.AddTool(
		mcplib.NewTool("dotcheck_run_validator",
			mcplib.WithDescription("Run a single validator and return its result as JSON"),
			mcplib.WithString("name",
				mcplib.Required(),
				mcplib.Description("Validator name, as listed by dotcheck_list_validators"),
			),
			mcplib.WithString("path", mcplib.Description("File or directory to validate, relative to the project")),
		),
		handleRunValidator(svc, projectPath),
	)

	s.AddTool(
		mcplib.NewTool("dotcheck_list_validators",
			mcplib.WithDescription("List registered validators with their kind and directory"),
		),
		handleListValidators(svc, projectPath),
	)
}

func handleValidate(svc *application.ValidateService, projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		pathArg, _ := args["path"].(string)
		only, _ := args["only"].(string)

		path := resolvePath(projectPath, pathArg)
		opts := application.RunOptions{Only: splitAndTrim(only)}

		agg, err := svc.ValidateAll(ctx, path, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed to run: %v", err)), nil
		}
		return jsonResult(agg)
	}
}

func handleRunValidator(svc *application.ValidateService, projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		pathArg, _ := request.GetArguments()["path"].(string)
		path := resolvePath(projectPath, pathArg)

		res, err := svc.RunOne(ctx, name, path, application.RunOptions{})
		if err != nil {
			return errorResult(fmt.Sprintf("run failed: %v", err)), nil
		}
		return jsonResult(res)
	}
}

func handleListValidators(svc *application.ValidateService, projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		validators, err := svc.Validators(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("listing validators: %v", err)), nil
		}
		infos := make([]tui.ValidatorInfo, 0, len(validators))
		for _, v := range validators {
			infos = append(infos, tui.ValidatorInfo{Name: v.Name(), Kind: v.Kind(), Dir: v.Dir()})
		}
		return jsonResult(infos)
	}
}

// resolvePath joins a tool argument onto the project path. Absolute
// arguments are used as given.
func resolvePath(projectPath, arg string) string {
	if arg == "" {
		return projectPath
	}
	if filepath.IsAbs(arg) {
		return arg
	}
	return filepath.Join(projectPath, arg)
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
