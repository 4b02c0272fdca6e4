package mcp_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpadapter "github.com/openkraft/dotcheck/internal/adapters/inbound/mcp"
	"github.com/openkraft/dotcheck/internal/adapters/outbound/config"
	"github.com/openkraft/dotcheck/internal/adapters/outbound/walker"
	"github.com/openkraft/dotcheck/internal/application"
	"github.com/openkraft/dotcheck/internal/domain"
)

func newServer(t *testing.T, files map[string]string) (*server.MCPServer, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	registry := func(_ string, cfg domain.ProjectConfig) (*application.Registry, error) {
		reg := application.NewRegistry()
		for _, v := range application.BuiltinValidators(walker.NewOS(), cfg) {
			if err := reg.Register(v); err != nil {
				return nil, err
			}
		}
		return reg, nil
	}
	svc := application.NewValidateService(walker.NewOS(), nil, config.New(), registry)
	return mcpadapter.NewDotcheckMCPServer(svc, dir, "test"), dir
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcplib.CallToolResult {
	t.Helper()
	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %q should be registered", name)

	req := mcplib.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPServerHasTools(t *testing.T) {
	s, _ := newServer(t, nil)

	tools := s.ListTools()
	expectedTools := []string{
		"dotcheck_validate",
		"dotcheck_run_validator",
		"dotcheck_list_validators",
	}
	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}
	assert.Len(t, tools, len(expectedTools))
}

func TestValidateTool_ReportsAgentErrors(t *testing.T) {
	s, _ := newServer(t, map[string]string{
		"agents/reviewer.md": "---\nname: reviewer\ndescription: Reviews code\n---\nBody\n",
	})

	res := callTool(t, s, "dotcheck_validate", map[string]any{"only": "agents"})
	assert.False(t, res.IsError)

	var agg domain.AggregateResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &agg))
	assert.Equal(t, domain.StatusFail, agg.Status)
	require.Len(t, agg.Validators, 1)
	assert.Equal(t, "agents", agg.Validators[0].Name)
	assert.Equal(t, 2, agg.Validators[0].Errors)
}

func TestRunValidatorTool(t *testing.T) {
	s, _ := newServer(t, map[string]string{
		"hooks/hooks.json": `{"hooks": {"UnknownTrigger": [{}]}}`,
	})

	res := callTool(t, s, "dotcheck_run_validator", map[string]any{"name": "hooks"})
	assert.False(t, res.IsError)

	var vr domain.ValidatorResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &vr))
	assert.Equal(t, domain.StatusPass, vr.Status)
	assert.Equal(t, 2, vr.Warnings)
}

func TestRunValidatorTool_Errors(t *testing.T) {
	s, _ := newServer(t, nil)

	assert.True(t, callTool(t, s, "dotcheck_run_validator", map[string]any{}).IsError)
	res := callTool(t, s, "dotcheck_run_validator", map[string]any{"name": "nope"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), `unknown validator "nope"`)
}

func TestListValidatorsTool(t *testing.T) {
	s, _ := newServer(t, nil)

	res := callTool(t, s, "dotcheck_list_validators", nil)
	var infos []struct {
		Name string `json:"name"`
		Dir  string `json:"dir"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &infos))
	require.Len(t, infos, 7)
	assert.Equal(t, "agents", infos[0].Name)
	assert.Equal(t, "agents", infos[0].Dir)
}

type readResponse struct {
	Result struct {
		Contents []struct {
			URI      string `json:"uri"`
			MIMEType string `json:"mimeType"`
			Text     string `json:"text"`
		} `json:"contents"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// readResource sends a resources/read request through the server's
// JSON-RPC entry point.
func readResource(t *testing.T, s *server.MCPServer, uri string) readResponse {
	t.Helper()
	msg := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":%q}}`, uri)
	data, err := json.Marshal(s.HandleMessage(context.Background(), []byte(msg)))
	require.NoError(t, err)

	var resp readResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestSummaryResource(t *testing.T) {
	s, dir := newServer(t, map[string]string{
		"agents/reviewer.md": "---\nname: reviewer\ndescription: Reviews code\n---\nBody\n",
	})

	resp := readResource(t, s, "dotcheck://summary")
	require.Nil(t, resp.Error)
	require.Len(t, resp.Result.Contents, 1)
	assert.Equal(t, "dotcheck://summary", resp.Result.Contents[0].URI)
	assert.Equal(t, "application/json", resp.Result.Contents[0].MIMEType)

	var agg domain.AggregateResult
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Contents[0].Text), &agg))
	realDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, realDir, agg.Root)
	assert.Equal(t, domain.StatusFail, agg.Status)
	assert.Len(t, agg.Validators, 7)
}

func TestValidatorResource(t *testing.T) {
	s, _ := newServer(t, map[string]string{
		"agents/reviewer.md": "---\nname: reviewer\ndescription: Reviews code\n---\nBody\n",
	})

	resp := readResource(t, s, "dotcheck://validators/agents")
	require.Nil(t, resp.Error)
	require.Len(t, resp.Result.Contents, 1)
	assert.Equal(t, "dotcheck://validators/agents", resp.Result.Contents[0].URI)

	var vr domain.ValidatorResult
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Contents[0].Text), &vr))
	assert.Equal(t, "agents", vr.Name)
	assert.Equal(t, domain.StatusFail, vr.Status)
	assert.Equal(t, 2, vr.Errors)
	require.NotNil(t, vr.Report)
	assert.Equal(t, []string{"agents/reviewer.md"}, vr.Report.Files)
}

func TestValidatorResource_UnknownValidator(t *testing.T) {
	s, _ := newServer(t, nil)

	resp := readResource(t, s, "dotcheck://validators/nope")
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, `unknown validator "nope"`)
}
