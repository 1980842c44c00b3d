package bundle

import (
	"fmt"
	"path"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"go.uber.org/zap"
)

// DiffScope resolves a commit range once and answers both membership and
// patch-text queries from the same resolved diff.
type DiffScope struct {
	rng     DiffRange
	patch   string
	changed map[string]bool
	order   []string
}

// NewDiffScope computes the unified diff for the range and indexes the
// changed paths from its per-file deltas. A delta's new-side path is
// collected; deletions, which have no new path, are skipped.
func NewDiffScope(repo Repository, rng DiffRange, logger *zap.Logger) (*DiffScope, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	patch, err := repo.Diff(rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiff, err)
	}

	files, _, err := gitdiff.Parse(strings.NewReader(patch))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing diff: %v", ErrDiff, err)
	}

	scope := &DiffScope{
		rng:     rng,
		patch:   patch,
		changed: make(map[string]bool, len(files)),
	}
	for _, f := range files {
		if f.IsDelete || f.NewName == "" {
			continue
		}
		if !scope.changed[f.NewName] {
			scope.changed[f.NewName] = true
			scope.order = append(scope.order, f.NewName)
		}
	}

	logger.Debug("Resolved diff scope",
		zap.String("startCommit", rng.Start),
		zap.String("endCommit", rng.End),
		zap.Int("changedPaths", len(scope.order)))
	return scope, nil
}

// Contains reports whether the relative path changed within the range.
func (s *DiffScope) Contains(relPath string) bool {
	return s.changed[relPath]
}

// ChangedPaths returns the changed paths in the diff's own order.
func (s *DiffScope) ChangedPaths() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Patch returns the unified diff text for the whole range.
func (s *DiffScope) Patch() string {
	return s.patch
}

// FragmentFor extracts the lines of a multi-file unified diff that
// belong to one file. Sections start at "diff --git" header lines; a
// section is kept when the target's base filename appears in its header.
// Matching by base name means files sharing a name in different
// directories can pull in each other's hunks; that is a documented
// limitation. The result is empty when the file never appears, which is
// not an error.
func FragmentFor(patch, relPath string) string {
	name := path.Base(relPath)

	lines := strings.Split(patch, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var kept []string
	keep := false
	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git") {
			keep = strings.Contains(line, name)
			if !keep {
				continue
			}
		}
		if keep {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
