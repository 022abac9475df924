package main

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxBytes is the default size ceiling for included files.
const DefaultMaxBytes int64 = 1_000_000

// probeLength is how many leading bytes are checked for NUL.
const probeLength = 8192

// filterOptions controls filterFiles.
type filterOptions struct {
	MaxBytes     int64
	ExcludeNames []string // Base names never included, e.g. the digest itself
}

// filterFiles resolves candidates against root and keeps the existing,
// small enough, text-like regular files.
func filterFiles(root string, candidates []string, opts filterOptions, logger *zap.Logger) FilterResult {
	var result FilterResult
	seen := make(map[string]struct{}, len(candidates))
	excluded := make(map[string]struct{}, len(opts.ExcludeNames))
	for _, name := range opts.ExcludeNames {
		excluded[name] = struct{}{}
	}

	for _, candidate := range candidates {
		relPath := cleanRelPath(candidate)
		if _, dup := seen[relPath]; dup {
			result.Skipped = append(result.Skipped, SkippedFile{RelPath: relPath, Reason: SkipDuplicate})
			continue
		}
		seen[relPath] = struct{}{}

		if _, ok := excluded[path.Base(relPath)]; ok {
			result.Skipped = append(result.Skipped, SkippedFile{RelPath: relPath, Reason: SkipOutputFile})
			continue
		}

		file, reason := checkFile(root, relPath, opts.MaxBytes)
		if reason != SkipNone {
			logger.Debug("skipping file", zap.String("path", relPath), zap.String("reason", string(reason)))
			result.Skipped = append(result.Skipped, SkippedFile{RelPath: relPath, Reason: reason})
			continue
		}
		result.Included = append(result.Included, file)
	}

	sort.SliceStable(result.Included, func(i, j int) bool {
		return lessFold(result.Included[i].RelPath, result.Included[j].RelPath)
	})
	return result
}

// checkFile applies every filter predicate to one path. A non-empty reason
// means the file is excluded.
func checkFile(root, relPath string, maxBytes int64) (FileInfo, SkipReason) {
	absPath := filepath.Join(root, filepath.FromSlash(relPath))

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileInfo{}, SkipMissing
		}
		return FileInfo{}, SkipStatFailed
	}
	if !info.Mode().IsRegular() {
		return FileInfo{}, SkipNotRegular
	}
	if info.Size() > maxBytes {
		return FileInfo{}, SkipTooLarge
	}
	if isBinaryMime(guessMimeType(absPath)) {
		return FileInfo{}, SkipBinaryMime
	}
	if reason := probeContent(absPath); reason != SkipNone {
		return FileInfo{}, reason
	}

	return FileInfo{
		Path:    absPath,
		RelPath: relPath,
		Size:    info.Size(),
		Mode:    info.Mode(),
	}, SkipNone
}

// openProbeFile opens a file for the content probe. Tests replace it.
var openProbeFile = func(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// probeContent reads the first probeLength bytes and rejects content with a NUL byte.
func probeContent(absPath string) SkipReason {
	file, err := openProbeFile(absPath)
	if err != nil {
		return SkipProbeFailed
	}
	defer file.Close()

	buffer := make([]byte, probeLength)
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return SkipProbeFailed
	}
	if bytes.IndexByte(buffer[:n], 0) >= 0 {
		return SkipBinaryContent
	}
	return SkipNone
}

// cleanRelPath normalizes a listed path to clean slash form.
func cleanRelPath(relPath string) string {
	return path.Clean(filepath.ToSlash(relPath))
}

// lessFold orders paths case-insensitively, breaking ties on the raw path.
func lessFold(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
