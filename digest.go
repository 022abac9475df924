package main

import (
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// PriorityFiles are root-level files placed before all others, in this order.
var PriorityFiles = []string{"README.md", "CHANGELOG.md"}

const (
	treeHeader       = "Directory structure:\n"
	sectionSeparator = "================================================"
)

// priorityRank returns the position of a root-level priority file, or -1.
func priorityRank(relPath string) int {
	if strings.Contains(relPath, "/") {
		return -1
	}
	for i, name := range PriorityFiles {
		if relPath == name {
			return i
		}
	}
	return -1
}

// orderFiles returns files with priority files first, then by lowercase path.
func orderFiles(files []FileInfo) []FileInfo {
	ordered := make([]FileInfo, len(files))
	copy(ordered, files)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := priorityRank(ordered[i].RelPath), priorityRank(ordered[j].RelPath)
		switch {
		case ri >= 0 && rj >= 0:
			return ri < rj
		case ri >= 0:
			return true
		case rj >= 0:
			return false
		}
		return lessFold(ordered[i].RelPath, ordered[j].RelPath)
	})
	return ordered
}

// loadText reads and decodes a whole file. ok is false when it cannot be read.
func loadText(file FileInfo, decoder *textDecoder) (string, bool) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return "", false
	}
	return decoder.Decode(data), true
}

// assembleDigest reads the files and builds the digest document. Files that
// cannot be read are dropped and left out of the tree as well.
func assembleDigest(rootName string, files []FileInfo, decoder *textDecoder, logger *zap.Logger) Digest {
	digest := Digest{Contents: make(map[string]string, len(files))}
	for _, file := range orderFiles(files) {
		text, ok := loadText(file, decoder)
		if !ok {
			logger.Debug("skipping unreadable file", zap.String("path", file.RelPath))
			digest.Dropped = append(digest.Dropped, SkippedFile{RelPath: file.RelPath, Reason: SkipReadFailed})
			continue
		}
		digest.Contents[file.RelPath] = text
		digest.Files = append(digest.Files, file)
	}

	sections := make([]string, 0, len(digest.Files)+1)
	sections = append(sections, treeHeader+printTree(rootName, buildTree(digest.Files))+"\n")
	for _, file := range digest.Files {
		sections = append(sections, renderSection(file.RelPath, digest.Contents[file.RelPath]))
	}
	digest.Text = strings.Join(sections, "\n")
	return digest
}

// renderSection formats one file block of the digest.
func renderSection(relPath, text string) string {
	var builder strings.Builder
	builder.WriteString(sectionSeparator)
	builder.WriteString("\nFILE: ")
	builder.WriteString(relPath)
	builder.WriteString("\n")
	builder.WriteString(sectionSeparator)
	builder.WriteString("\n")
	builder.WriteString(text)
	builder.WriteString("\n")
	return builder.String()
}
