package main

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fileHeaderPattern = regexp.MustCompile(`(?m)^FILE: (.+)$`)

func sectionPaths(text string) []string {
	var paths []string
	for _, match := range fileHeaderPattern.FindAllStringSubmatch(text, -1) {
		paths = append(paths, match[1])
	}
	return paths
}

func mustDecoder(t *testing.T) *textDecoder {
	t.Helper()
	decoder, err := newTextDecoder(DefaultEncoding)
	require.NoError(t, err)
	return decoder
}

func includedFiles(root string, relPaths ...string) []FileInfo {
	files := make([]FileInfo, 0, len(relPaths))
	for _, relPath := range relPaths {
		files = append(files, FileInfo{Path: filepath.Join(root, filepath.FromSlash(relPath)), RelPath: relPath})
	}
	return files
}

func TestOrderFilesPriorityFirst(t *testing.T) {
	ordered := orderFiles(filesAt("b.txt", "CHANGELOG.md", "a.txt", "docs/README.md", "README.md", "Zeta.md"))

	assert.Equal(t, []string{"README.md", "CHANGELOG.md", "a.txt", "b.txt", "docs/README.md", "Zeta.md"}, relPaths(ordered))
}

func TestOrderFilesPriorityIsCaseSensitive(t *testing.T) {
	ordered := orderFiles(filesAt("b.txt", "readme.md"))

	assert.Equal(t, []string{"b.txt", "readme.md"}, relPaths(ordered))
}

func TestAssembleDigestFormat(t *testing.T) {
	root := newRepoDir(t, "repo")
	writeFiles(t, root, map[string]string{
		"a/b.txt": "bee",
		"d.txt":   "dee\n",
	})

	digest := assembleDigest("repo", includedFiles(root, "a/b.txt", "d.txt"), mustDecoder(t), zaptest.NewLogger(t))

	expected := "Directory structure:\n" +
		"└── repo/\n" +
		"    ├── a/\n" +
		"    │   └── b.txt\n" +
		"    └── d.txt\n" +
		"\n" +
		"================================================\n" +
		"FILE: a/b.txt\n" +
		"================================================\n" +
		"bee\n" +
		"\n" +
		"================================================\n" +
		"FILE: d.txt\n" +
		"================================================\n" +
		"dee\n\n"
	assert.Equal(t, expected, digest.Text)
	assert.Equal(t, []string{"a/b.txt", "d.txt"}, relPaths(digest.Files))
	assert.Empty(t, digest.Dropped)
}

func TestAssembleDigestDropsUnreadableFiles(t *testing.T) {
	root := newRepoDir(t, "repo")
	writeFiles(t, root, map[string]string{"keep.txt": "kept"})
	files := includedFiles(root, "keep.txt", "vanished.txt")

	digest := assembleDigest("repo", files, mustDecoder(t), zaptest.NewLogger(t))

	assert.Equal(t, []string{"keep.txt"}, sectionPaths(digest.Text))
	assert.NotContains(t, digest.Text, "vanished.txt")
	assert.Equal(t, []SkippedFile{{RelPath: "vanished.txt", Reason: SkipReadFailed}}, digest.Dropped)
}

func TestAssembleDigestReplacesInvalidBytes(t *testing.T) {
	root := newRepoDir(t, "repo")
	require.NoError(t, os.WriteFile(filepath.Join(root, "latin.txt"), []byte("caf\xe9"), 0o644))

	digest := assembleDigest("repo", includedFiles(root, "latin.txt"), mustDecoder(t), zaptest.NewLogger(t))

	assert.Contains(t, digest.Text, "caf\uFFFD\n")
}

func TestAssembleDigestNormalizesCRLF(t *testing.T) {
	root := newRepoDir(t, "repo")
	require.NoError(t, os.WriteFile(filepath.Join(root, "win.txt"), []byte("a\r\nb\rc\n"), 0o644))

	digest := assembleDigest("repo", includedFiles(root, "win.txt"), mustDecoder(t), zaptest.NewLogger(t))

	assert.NotContains(t, digest.Text, "\r")
	assert.Equal(t, "a\nb\nc\n", digest.Contents["win.txt"])
	assert.Contains(t, digest.Text, "================================================\na\nb\nc\n\n")
}

func TestAssembleDigestEmpty(t *testing.T) {
	digest := assembleDigest("repo", nil, mustDecoder(t), zaptest.NewLogger(t))

	assert.Equal(t, "Directory structure:\n└── repo/\n", digest.Text)
	assert.Empty(t, digest.Files)
}
