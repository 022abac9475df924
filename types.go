package main

import "io/fs"

// FileInfo holds information about a file that passed the filter.
type FileInfo struct {
	Path    string // Absolute path on disk
	RelPath string // Slash-separated path relative to the root
	Size    int64
	Mode    fs.FileMode
}

// SkipReason says why a candidate path was left out of the digest.
type SkipReason string

const (
	SkipNone          SkipReason = ""
	SkipMissing       SkipReason = "missing"
	SkipNotRegular    SkipReason = "not_regular"
	SkipStatFailed    SkipReason = "stat_failed"
	SkipTooLarge      SkipReason = "too_large"
	SkipBinaryMime    SkipReason = "binary_mime"
	SkipBinaryContent SkipReason = "binary_content"
	SkipProbeFailed   SkipReason = "probe_failed"
	SkipOutputFile    SkipReason = "output_file"
	SkipDuplicate     SkipReason = "duplicate"
	SkipReadFailed    SkipReason = "read_failed"
)

// SkippedFile records a candidate that was excluded and why.
type SkippedFile struct {
	RelPath string     `yaml:"path"`
	Reason  SkipReason `yaml:"reason"`
}

// FilterResult is the outcome of filtering the listed candidates.
type FilterResult struct {
	Included []FileInfo // Sorted by lowercase relative path
	Skipped  []SkippedFile
}

// Digest is the assembled document plus what actually went into it.
type Digest struct {
	Text     string
	Files    []FileInfo        // In section order
	Contents map[string]string // Decoded text keyed by relative path
	Dropped  []SkippedFile
}

// Summary holds aggregated information about a run.
type Summary struct {
	OutputPath  string
	Lister      string
	TotalFiles  int
	TotalSize   int64
	TotalTokens int
	Tokenizer   string
}
