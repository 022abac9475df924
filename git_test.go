package main

import (
	"os/exec"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// initRepo creates a repository with one staged file, one untracked file and
// one ignored file.
func initRepo(t *testing.T) string {
	t.Helper()
	root := newRepoDir(t, "repo")
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	writeFiles(t, root, map[string]string{
		".gitignore":    "ignored.txt\n",
		"tracked.go":    "package main",
		"new file.txt":  "untracked",
		"ignored.txt":   "ignored",
		"dir/nested.md": "# nested",
	})
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add("tracked.go")
	require.NoError(t, err)
	_, err = worktree.Add("dir/nested.md")
	require.NoError(t, err)
	return root
}

func TestIsGitRepo(t *testing.T) {
	assert.True(t, isGitRepo(initRepo(t)))
	assert.False(t, isGitRepo(newRepoDir(t, "plain")))

	withFile := newRepoDir(t, "worktree")
	writeFiles(t, withFile, map[string]string{".git": "gitdir: ../elsewhere"})
	assert.False(t, isGitRepo(withFile))
}

func TestGoGitListerListsTrackedAndUntracked(t *testing.T) {
	root := initRepo(t)

	files, err := (&goGitLister{}).ListFiles(root)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{".gitignore", "tracked.go", "new file.txt", "dir/nested.md"}, files)
}

func TestGoGitListerFailsOutsideRepository(t *testing.T) {
	_, err := (&goGitLister{}).ListFiles(newRepoDir(t, "plain"))

	assert.Error(t, err)
}

func TestGitCLIListerListsTrackedAndUntracked(t *testing.T) {
	if !gitBinaryAvailable() {
		t.Skip("git not installed")
	}
	root := initRepo(t)

	files, err := (&gitCLILister{}).ListFiles(root)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{".gitignore", "tracked.go", "new file.txt", "dir/nested.md"}, files)
}

func TestGitCLIListerFailureFallsBackToWalk(t *testing.T) {
	falseBinary, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available")
	}
	root := newRepoDir(t, "repo")
	writeFiles(t, root, map[string]string{"a.txt": "a", "node_modules/b.js": "b"})
	logger := zaptest.NewLogger(t)
	lister := &fallbackLister{
		primary:  &gitCLILister{command: falseBinary},
		fallback: &walkLister{logger: logger},
		logger:   logger,
	}

	files, err := lister.ListFiles(root)

	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, files)
	assert.Equal(t, "walk", lister.Name())
}

func TestSplitNulPaths(t *testing.T) {
	out := []byte("a.txt\x00dir/b c.txt\x00new\nline.txt\x00bad\xff.txt\x00\x00")

	paths := splitNulPaths(out)

	assert.Equal(t, []string{"a.txt", "dir/b c.txt", "new\nline.txt", "bad\uFFFD.txt"}, paths)
	assert.Empty(t, splitNulPaths(nil))
}
