package e2e_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/openkraft/dotcheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "dotcheck-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "dotcheck")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/dotcheck")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

// fixturePath copies a fixture out of the checkout so the git root does not
// become the scan root.
func fixturePath(t *testing.T, name string) string {
	t.Helper()
	dst := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.CopyFS(dst, os.DirFS(filepath.Join("../../testdata/dotfiles", name))))
	return dst
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func run(t *testing.T, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return string(out), exitCode
}

const agentBody = "\nReviews every change for correctness, missing tests and unclear names, and reports what it finds grouped by severity.\n"

// --- Scenarios ---

func TestE2E_CompleteAgentPasses(t *testing.T) {
	root := writeTree(t, map[string]string{
		"agents/reviewer.md": "---\nname: reviewer\ndescription: Reviews code\ntools: Read, Grep\nmodel: sonnet\n---\n" + agentBody,
	})

	out, code := run(t, "run", "agents", root)
	assert.Equal(t, 0, code, out)
	errs, warns := domain.CountMarkers(out)
	assert.Zero(t, errs)
	assert.Zero(t, warns)
	assert.Contains(t, out, "Agents validated: 1, Errors: 0")
}

func TestE2E_AgentMissingFieldsFails(t *testing.T) {
	root := writeTree(t, map[string]string{
		"agents/reviewer.md": "---\nname: reviewer\ndescription: Reviews code\n---\n" + agentBody,
	})

	out, code := run(t, "run", "agents", root)
	assert.Equal(t, 1, code)
	errs, _ := domain.CountMarkers(out)
	assert.Equal(t, 2, errs)
	assert.Contains(t, out, "Agents validated: 1, Errors: 2")
}

func TestE2E_HookBundleWithCommentKey(t *testing.T) {
	root := writeTree(t, map[string]string{
		"hooks/hooks.json": `{"// NOTE": "x", "hooks": {"PostToolUse": [{"type":"command","command":"echo hi"}]}}`,
	})

	out, code := run(t, "run", "hooks", root)
	assert.Equal(t, 0, code, out)
	errs, warns := domain.CountMarkers(out)
	assert.Zero(t, errs)
	assert.Zero(t, warns)
}

func TestE2E_UnknownHookTriggerWarns(t *testing.T) {
	root := writeTree(t, map[string]string{
		"hooks/hooks.json": `{"hooks": {"UnknownTrigger": [{}]}}`,
	})

	out, code := run(t, "run", "hooks", root)
	assert.Equal(t, 0, code, out)
	errs, warns := domain.CountMarkers(out)
	assert.Zero(t, errs)
	assert.Equal(t, 2, warns)
}

func TestE2E_MissingRootSkips(t *testing.T) {
	out, code := run(t, "validate", filepath.Join(t.TempDir(), "nowhere"))
	assert.Equal(t, 0, code, out)
	assert.Contains(t, out, "Validators run: 0")
	assert.Contains(t, out, "Total warnings: 1")
}

// --- Fixtures ---

func TestE2E_ValidFixture(t *testing.T) {
	out, code := run(t, "validate", fixturePath(t, "valid"))
	assert.Equal(t, 0, code, out)
	assert.Contains(t, out, "PASS")
}

func TestE2E_BrokenFixtureJSON(t *testing.T) {
	out, code := run(t, "validate", fixturePath(t, "broken"), "--json")
	assert.Equal(t, 1, code)

	var agg domain.AggregateResult
	require.NoError(t, json.Unmarshal([]byte(out), &agg))
	assert.Equal(t, domain.StatusFail, agg.Status)
	assert.Equal(t, 3, agg.TotalErrors)
}

func TestE2E_Version(t *testing.T) {
	out, code := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "dotcheck")
}

func TestE2E_UnknownCommand(t *testing.T) {
	out, code := run(t, "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Error:")
}
