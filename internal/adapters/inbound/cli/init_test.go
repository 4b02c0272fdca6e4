package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openkraft/dotcheck/internal/adapters/inbound/cli"
	"github.com/openkraft/dotcheck/internal/adapters/outbound/config"
	"github.com/openkraft/dotcheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCmd_CreatesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, ".dotcheck.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 30s")
	assert.Contains(t, string(data), "- sonnet")
}

func TestInitCmd_GeneratedConfigLoadsAsDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir})
	require.NoError(t, root.Execute())

	cfg, err := config.New().Load(tmpDir)
	require.NoError(t, err)

	def := domain.DefaultConfig()
	assert.Equal(t, def.Timeout, cfg.Timeout)
	assert.Equal(t, def.Parallel, cfg.Parallel)
	assert.Equal(t, def.Agents.Models, cfg.Agents.Models)
	assert.Equal(t, def.AgentMinBody(), cfg.AgentMinBody())
	assert.Equal(t, def.SkillMinBody(), cfg.SkillMinBody())
	assert.Equal(t, def.Plugins.Dir, cfg.Plugins.Dir)
	assert.Empty(t, cfg.Disable)
}

func TestInitCmd_ExistingFileErrors(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".dotcheck.yaml"), []byte("parallel: 1\n"), 0644))

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".dotcheck.yaml"), []byte("parallel: 1\n"), 0644))

	root := cli.NewRootCmdForTest()
	root.SetArgs([]string{"init", tmpDir, "--force"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(filepath.Join(tmpDir, ".dotcheck.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "parallel: 4")
}
