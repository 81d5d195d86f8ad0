package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"boxmend/detect"
	"boxmend/repair"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type batchOptions struct {
	Write    bool // rewrite changed files in place
	Backup   bool // keep <file>.bak before rewriting
	Detect   bool
	Markdown bool // repair only fenced blocks of .md files
	Jobs     int
}

type fileResult struct {
	Path    string
	Output  string // repaired text with \n line endings
	CRLF    bool   // the file used \r\n line endings
	Changed bool
	Skipped bool // rejected by the detector
	Err     error
}

// repairText applies the configured repair to one document.
func repairText(path, text string, opts batchOptions) (output string, skipped bool) {
	if opts.Markdown && isMarkdownPath(path) {
		return repairMarkdown(text, opts.Detect), false
	}
	if opts.Detect && !detect.LooksLikeASCIIArt(text) {
		return text, true
	}
	return repair.Repair(text), false
}

func isMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// repairFiles repairs every path with at most opts.Jobs files in flight.
// Per-file failures are reported in the results, which follow the order of
// paths; only cancellation fails the batch.
func repairFiles(ctx context.Context, paths []string, opts batchOptions, logger *zap.Logger) ([]fileResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]fileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = repairFile(path, opts)
			if results[i].Err != nil {
				logger.Warn("repair failed", zap.String("path", path), zap.Error(results[i].Err))
			} else {
				logger.Debug("repaired file",
					zap.String("path", path),
					zap.Bool("changed", results[i].Changed),
					zap.Bool("skipped", results[i].Skipped))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func repairFile(path string, opts batchOptions) fileResult {
	result := fileResult{Path: path}

	file, err := os.Open(path)
	if err != nil {
		result.Err = err
		return result
	}
	text, crlf, err := decodeInput(file)
	file.Close()
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", path, err)
		return result
	}
	result.CRLF = crlf

	result.Output, result.Skipped = repairText(path, text, opts)
	result.Changed = result.Output != text
	if !opts.Write || !result.Changed {
		return result
	}

	if err := writeRepaired(path, result.Output, result.CRLF, opts.Backup); err != nil {
		result.Err = err
	}
	return result
}

// writeRepaired replaces path with text, keeping its permissions and line
// endings.
func writeRepaired(path, text string, crlf, backup bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if backup {
		original, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path+".bak", original, info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(restoreLineEndings(text, crlf)), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
