package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Options holds the effective settings of one run.
type Options struct {
	Path             string
	MaxBytes         int64
	NoGit            bool
	RespectGitignore bool
	Encoding         string
	Tokenizer        tokenizerConfig
	Clipboard        bool
	PDFPath          string
	Manifest         string
	Verbose          bool

	// lister overrides the listing strategy; used by tests.
	lister Lister
}

// NotDirectoryError is returned when the target path is not a directory.
type NotDirectoryError struct {
	Path string
}

func (e *NotDirectoryError) Error() string {
	return fmt.Sprintf("%s is not a directory", e.Path)
}

// outputFileName returns the digest file name for a repository directory name.
func outputFileName(repoName string) string {
	return fmt.Sprintf("gittxt-%s-repo.txt", repoName)
}

// resolveRoot makes path absolute and checks that it is a directory.
func resolveRoot(path string) (string, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("error resolving path %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", &NotDirectoryError{Path: root}
	}
	return root, nil
}

// run executes the whole pipeline and prints the summary lines to stdout.
func run(opts Options, stdout io.Writer, logger *zap.Logger) (Summary, error) {
	root, err := resolveRoot(opts.Path)
	if err != nil {
		return Summary{}, err
	}
	if opts.MaxBytes < 0 {
		return Summary{}, fmt.Errorf("invalid max bytes %d: must not be negative", opts.MaxBytes)
	}
	decoder, err := newTextDecoder(opts.Encoding)
	if err != nil {
		return Summary{}, err
	}

	repoName := filepath.Base(root)
	outputName := outputFileName(repoName)
	outputPath := filepath.Join(root, outputName)

	lister := opts.lister
	if lister == nil {
		lister = newLister(root, opts, logger)
	}
	candidates := listCandidates(lister, root, logger)
	logger.Debug("listed candidates", zap.String("lister", lister.Name()), zap.Int("count", len(candidates)))

	filtered := filterFiles(root, candidates, filterOptions{
		MaxBytes:     opts.MaxBytes,
		ExcludeNames: excludedNames(root, outputName, opts),
	}, logger)

	digest := assembleDigest(repoName, filtered.Included, decoder, logger)
	if err := os.WriteFile(outputPath, []byte(digest.Text), 0o644); err != nil {
		return Summary{}, fmt.Errorf("error writing digest %s: %w", outputPath, err)
	}

	tk, err := newTokenizer(opts.Tokenizer)
	if err != nil {
		logger.Debug("exact tokenizer unavailable, using approximation", zap.Error(err))
		tk = nil
	}
	if tk != nil {
		defer tk.Close()
	}
	tokens, method := estimateTokens(tk, digest.Text, logger)

	summary := Summary{
		OutputPath:  outputPath,
		Lister:      lister.Name(),
		TotalFiles:  len(digest.Files),
		TotalTokens: tokens,
		Tokenizer:   method,
	}
	for _, file := range digest.Files {
		summary.TotalSize += file.Size
	}

	writeExtras(opts, root, decoder.name, summary, digest, filtered, logger)

	printer := message.NewPrinter(language.English)
	fmt.Fprintf(stdout, "[gittxt] Export success -> %s\n", outputPath)
	fmt.Fprintf(stdout, "[gittxt] Files included: %d | Tokens ~%s\n", summary.TotalFiles, printer.Sprintf("%d", summary.TotalTokens))
	return summary, nil
}

// excludedNames lists the base names never ingested: the digest itself and any
// extra output written inside root.
func excludedNames(root, outputName string, opts Options) []string {
	names := []string{outputName}
	for _, extra := range []string{opts.PDFPath, opts.Manifest} {
		if extra == "" {
			continue
		}
		abs, err := filepath.Abs(extra)
		if err != nil {
			continue
		}
		if rel, err := filepath.Rel(root, abs); err == nil && filepath.IsLocal(rel) {
			names = append(names, filepath.Base(abs))
		}
	}
	return names
}

// writeExtras produces the optional outputs. Their failures are logged as
// warnings and never fail the run.
func writeExtras(opts Options, root, encodingName string, summary Summary, digest Digest, filtered FilterResult, logger *zap.Logger) {
	if opts.Clipboard {
		if err := clipboard.WriteAll(digest.Text); err != nil {
			logger.Warn("could not copy digest to clipboard", zap.Error(err))
		} else {
			logger.Info("digest copied to clipboard")
		}
	}
	if opts.PDFPath != "" {
		if err := generatePDF(filepath.Base(root), digest, summary, opts.PDFPath); err != nil {
			logger.Warn("could not generate PDF", zap.Error(err))
		} else {
			logger.Info("PDF saved", zap.String("path", opts.PDFPath))
		}
	}
	if opts.Manifest != "" {
		manifest := newManifest(root, encodingName, summary, digest, filtered)
		if err := writeManifest(manifest, opts.Manifest); err != nil {
			logger.Warn("could not write manifest", zap.Error(err))
		} else {
			logger.Info("manifest saved", zap.String("path", opts.Manifest))
		}
	}
}
