package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/dotcheck/internal/application"
)

const summaryURI = "dotcheck://summary"

func registerResources(s *server.MCPServer, svc *application.ValidateService, projectPath string) {
	s.AddResource(
		mcplib.NewResource(
			summaryURI,
			"Validation Summary",
			mcplib.WithResourceDescription("Aggregate result of validating the whole project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleSummaryResource(svc, projectPath),
	)

	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			"dotcheck://validators/{name}",
			"Validator Report",
			mcplib.WithTemplateDescription("Report of a single validator for the whole project"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleValidatorResource(svc, projectPath),
	)
}

func handleSummaryResource(svc *application.ValidateService, projectPath string) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		agg, err := svc.ValidateAll(ctx, projectPath, application.RunOptions{})
		if err != nil {
			return nil, fmt.Errorf("validation failed to run: %w", err)
		}
		return jsonContents(summaryURI, agg)
	}
}

func handleValidatorResource(svc *application.ValidateService, projectPath string) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		name := templateArg(request.Params.Arguments, "name")
		if name == "" {
			return nil, fmt.Errorf("validator name is required")
		}

		res, err := svc.RunOne(ctx, name, projectPath, application.RunOptions{})
		if err != nil {
			return nil, fmt.Errorf("run failed: %w", err)
		}
		return jsonContents(request.Params.URI, res)
	}
}

// templateArg reads a URI template variable, which the server may hand over
// as a string or as a single-element list.
func templateArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
