package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// manifestFile describes one file written into the digest.
type manifestFile struct {
	Path string `yaml:"path"`
	Size int64  `yaml:"size"`
}

// Manifest is the YAML report of a run.
type Manifest struct {
	Root      string         `yaml:"root"`
	Output    string         `yaml:"output"`
	Lister    string         `yaml:"lister"`
	Encoding  string         `yaml:"encoding"`
	Tokenizer string         `yaml:"tokenizer"`
	Tokens    int            `yaml:"tokens"`
	TotalSize int64          `yaml:"total_size"`
	Included  []manifestFile `yaml:"included"`
	Skipped   []SkippedFile  `yaml:"skipped,omitempty"`
}

// newManifest collects the run results into a Manifest.
func newManifest(root, encoding string, summary Summary, digest Digest, filtered FilterResult) Manifest {
	manifest := Manifest{
		Root:      root,
		Output:    summary.OutputPath,
		Lister:    summary.Lister,
		Encoding:  encoding,
		Tokenizer: summary.Tokenizer,
		Tokens:    summary.TotalTokens,
		TotalSize: summary.TotalSize,
		Included:  make([]manifestFile, 0, len(digest.Files)),
	}
	for _, file := range digest.Files {
		manifest.Included = append(manifest.Included, manifestFile{Path: file.RelPath, Size: file.Size})
	}
	manifest.Skipped = append(manifest.Skipped, filtered.Skipped...)
	manifest.Skipped = append(manifest.Skipped, digest.Dropped...)
	return manifest
}

// writeManifest marshals the manifest as YAML to path.
func writeManifest(manifest Manifest, path string) error {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}
