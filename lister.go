package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// DefaultIgnoreDirs are directory names never descended into by the walk.
var DefaultIgnoreDirs = map[string]struct{}{
	".git":          {},
	".venv":         {},
	"venv":          {},
	"__pycache__":   {},
	"node_modules":  {},
	"dist":          {},
	"build":         {},
	"out":           {},
	"target":        {},
	"coverage":      {},
	".idea":         {},
	".vscode":       {},
	".pytest_cache": {},
	".mypy_cache":   {},
}

// DefaultIgnoreFiles are OS metadata files skipped by the walk.
var DefaultIgnoreFiles = map[string]struct{}{
	".DS_Store": {},
	"Thumbs.db": {},
}

// Lister enumerates candidate files under root as slash-separated relative paths.
type Lister interface {
	Name() string
	ListFiles(root string) ([]string, error)
}

// walkLister lists files by walking the directory tree.
type walkLister struct {
	respectGitignore bool
	logger           *zap.Logger
}

func (w *walkLister) Name() string { return "walk" }

// ListFiles walks root, pruning the built-in ignore directories. Entries that
// cannot be read are skipped rather than aborting the walk.
func (w *walkLister) ListFiles(root string) ([]string, error) {
	var files []string
	var ignoreMatcher gitignore.IgnoreMatcher

	if w.respectGitignore {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath, root)
			if err != nil {
				w.logger.Debug("could not parse .gitignore", zap.String("path", gitIgnorePath), zap.Error(err))
			} else {
				ignoreMatcher = matcher
			}
		}
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("walk error", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		name := d.Name()
		isDir := d.IsDir()
		if isDir {
			if _, ignored := DefaultIgnoreDirs[name]; ignored {
				return fs.SkipDir
			}
		} else if _, ignored := DefaultIgnoreFiles[name]; ignored {
			return nil
		}

		if ignoreMatcher != nil && ignoreMatcher.Match(path, isDir) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}

		if isDir {
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("error walking directory %s: %w", root, err)
	}
	return files, nil
}

// fallbackLister tries primary and switches to fallback when primary fails.
type fallbackLister struct {
	primary  Lister
	fallback Lister
	logger   *zap.Logger
	used     string
}

func (f *fallbackLister) Name() string {
	if f.used != "" {
		return f.used
	}
	return f.primary.Name()
}

func (f *fallbackLister) ListFiles(root string) ([]string, error) {
	files, err := f.primary.ListFiles(root)
	if err == nil {
		f.used = f.primary.Name()
		return files, nil
	}
	f.logger.Debug("listing failed, falling back",
		zap.String("lister", f.primary.Name()),
		zap.String("fallback", f.fallback.Name()),
		zap.Error(err))
	f.used = f.fallback.Name()
	return f.fallback.ListFiles(root)
}

// newLister picks the listing strategy for root.
func newLister(root string, opts Options, logger *zap.Logger) Lister {
	walk := &walkLister{respectGitignore: opts.RespectGitignore, logger: logger}
	if opts.NoGit || !isGitRepo(root) {
		return walk
	}
	if gitBinaryAvailable() {
		return &fallbackLister{primary: &gitCLILister{}, fallback: walk, logger: logger}
	}
	return &fallbackLister{primary: &goGitLister{}, fallback: walk, logger: logger}
}

// listCandidates runs the lister. A failed listing is not fatal: whatever
// was collected is returned.
func listCandidates(lister Lister, root string, logger *zap.Logger) []string {
	files, err := lister.ListFiles(root)
	if err != nil {
		logger.Debug("listing incomplete", zap.String("lister", lister.Name()), zap.Error(err))
	}
	return files
}
