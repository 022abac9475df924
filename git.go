package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// gitDirName is the version-control metadata directory looked for under the root.
const gitDirName = ".git"

// isGitRepo reports whether root has a .git directory.
func isGitRepo(root string) bool {
	info, err := os.Stat(filepath.Join(root, gitDirName))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// gitBinaryAvailable reports whether the git client is on PATH.
func gitBinaryAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// gitCLILister lists tracked plus untracked-but-not-ignored files with the git client.
type gitCLILister struct {
	// command is the executable to run; empty means "git".
	command string
}

func (g *gitCLILister) Name() string { return "git" }

func (g *gitCLILister) ListFiles(root string) ([]string, error) {
	command := g.command
	if command == "" {
		command = "git"
	}
	cmd := exec.Command(command, "-C", root, "ls-files", "-z", "-co", "--exclude-standard")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files in %s: %w (%s)", root, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return splitNulPaths(out), nil
}

// splitNulPaths splits NUL-delimited git output, dropping empty entries and
// replacing invalid UTF-8.
func splitNulPaths(out []byte) []string {
	var paths []string
	for _, entry := range bytes.Split(out, []byte{0}) {
		if len(entry) == 0 {
			continue
		}
		paths = append(paths, string(bytes.ToValidUTF8(entry, []byte("\uFFFD"))))
	}
	return paths
}

// goGitLister lists files in-process with go-git when the git client is missing.
type goGitLister struct{}

func (g *goGitLister) Name() string { return "go-git" }

func (g *goGitLister) ListFiles(root string) ([]string, error) {
	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", root, err)
	}

	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("failed to read index of %s: %w", root, err)
	}
	paths := make([]string, 0, len(idx.Entries))
	for _, entry := range idx.Entries {
		paths = append(paths, entry.Name)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree of %s: %w", root, err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to compute status of %s: %w", root, err)
	}
	for path, fileStatus := range status {
		if fileStatus.Worktree == git.Untracked {
			paths = append(paths, path)
		}
	}
	return paths, nil
}
