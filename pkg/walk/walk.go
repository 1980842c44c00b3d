// Package walk enumerates filesystem entries beneath a root directory in
// a deterministic order, honoring nested gitignore files found along the
// way.
package walk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"promptpack/pkg/ignore"
)

// Entry is one filesystem entry produced by the walker.
type Entry struct {
	RelPath string // Slash-separated path relative to the walk root; "." for the root itself.
	AbsPath string // Absolute filesystem path.
	IsDir   bool
}

// Options control which entries a walk reports.
type Options struct {
	UseGitignore  bool // Honor .gitignore files discovered during the walk.
	IncludeHidden bool // Report dot-prefixed entries and descend into dot-prefixed directories.
}

// Walker walks a directory tree depth-first, parents before children and
// siblings in lexical order. The same tree yields the same sequence on
// every run.
type Walker struct {
	root   string
	opts   Options
	logger *zap.Logger
}

// New creates a Walker rooted at the given directory.
func New(root string, opts Options, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{root: root, opts: opts, logger: logger}
}

// Walk visits every entry under the root and calls fn for each. An error
// from fn aborts the walk and is returned unchanged. Unreadable
// subdirectories are logged and skipped; a root that cannot be read is
// an error. The .git directory is never descended into.
func (w *Walker) Walk(fn func(Entry) error) error {
	absRoot, err := filepath.Abs(w.root)
	if err != nil {
		return fmt.Errorf("failed to resolve root path %s: %w", w.root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return fmt.Errorf("failed to access root directory %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path %s is not a directory", absRoot)
	}

	w.logger.Debug("Starting directory walk",
		zap.String("root", absRoot),
		zap.Bool("useGitignore", w.opts.UseGitignore),
		zap.Bool("includeHidden", w.opts.IncludeHidden))

	if err := fn(Entry{RelPath: ".", AbsPath: absRoot, IsDir: true}); err != nil {
		return err
	}

	matcher := ignore.NewMatcher(w.logger)
	return w.walkDir(absRoot, "", matcher, fn)
}

// walkDir descends into one directory. base is the slash-separated path
// of dir relative to the walk root, empty for the root itself.
func (w *Walker) walkDir(dir, base string, matcher *ignore.Matcher, fn func(Entry) error) error {
	if w.opts.UseGitignore {
		if err := matcher.AddPatternFile(base, filepath.Join(dir, ".gitignore")); err != nil {
			w.logger.Warn("Failed to load ignore file", zap.String("directory", dir), zap.Error(err))
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Warn("Failed to read directory during walk", zap.String("directory", dir), zap.Error(err))
		return nil
	}

	// os.ReadDir returns entries sorted by name, which fixes the walk order.
	for _, entry := range entries {
		name := entry.Name()
		if name == ".git" {
			continue
		}
		if !w.opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		rel := name
		if base != "" {
			rel = base + "/" + name
		}
		isDir := entry.IsDir()

		if w.opts.UseGitignore {
			if matched, p := matcher.MatchPattern(rel, isDir); matched {
				if p != nil {
					w.logger.Debug("Skipping ignored entry",
						zap.String("path", rel),
						zap.String("pattern", p.Line))
				}
				continue
			}
		}

		abs := filepath.Join(dir, name)
		if err := fn(Entry{RelPath: rel, AbsPath: abs, IsDir: isDir}); err != nil {
			return err
		}
		if isDir {
			if err := w.walkDir(abs, rel, matcher, fn); err != nil {
				return err
			}
		}
	}

	return nil
}
