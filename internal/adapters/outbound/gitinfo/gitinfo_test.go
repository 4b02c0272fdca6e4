package gitinfo_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/openkraft/dotcheck/internal/adapters/outbound/gitinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T, commit bool) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	if !commit {
		return dir
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# repo\n"), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestGitInfo_RepoRoot_FromSubdirectory(t *testing.T) {
	dir := initRepo(t, false)
	sub := filepath.Join(dir, "agents", "nested")
	require.NoError(t, os.MkdirAll(sub, 0755))

	root, err := gitinfo.New().RepoRoot(sub)
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestGitInfo_RepoRoot_FromFile(t *testing.T) {
	dir := initRepo(t, false)
	file := filepath.Join(dir, "hooks.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))

	root, err := gitinfo.New().RepoRoot(file)
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestGitInfo_RepoRoot_NotGitRepo(t *testing.T) {
	_, err := gitinfo.New().RepoRoot(t.TempDir())
	assert.Error(t, err)
}

func TestGitInfo_CommitHash_ReturnsHash(t *testing.T) {
	dir := initRepo(t, true)

	hash, err := gitinfo.New().CommitHash(dir)
	require.NoError(t, err)
	assert.Len(t, hash, 40, "should be a full SHA-1 hash")
}

func TestGitInfo_CommitHash_NoCommits(t *testing.T) {
	dir := initRepo(t, false)
	_, err := gitinfo.New().CommitHash(dir)
	assert.Error(t, err)
}

func TestGitInfo_CommitHash_NotGitRepo(t *testing.T) {
	_, err := gitinfo.New().CommitHash(t.TempDir())
	assert.Error(t, err)
}
