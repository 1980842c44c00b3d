package bundle

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"promptpack/pkg/walk"
)

// Walker enumerates filesystem entries under a root. pkg/walk provides
// the production implementation.
type Walker interface {
	Walk(fn func(walk.Entry) error) error
}

// Pipeline applies the admission rules to walker entries, in walker
// order. Entries pass through, in this order: diff membership (when
// scoped), suffix matching, exclude prefixes, include prefixes, keyword
// checks. The first failing rule rejects; survivors keep the walker's
// order with no re-sorting and no deduplication.
type Pipeline struct {
	walker   Walker
	criteria Criteria
	scope    *DiffScope // nil when selection is not diff-scoped
	logger   *zap.Logger
}

// NewPipeline wires a pipeline. scope may be nil for unscoped selection.
func NewPipeline(walker Walker, criteria Criteria, scope *DiffScope, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{walker: walker, criteria: criteria, scope: scope, logger: logger}
}

// Select runs the admission pipeline over the walk and returns the
// admitted files. A keyword check that cannot read its file aborts the
// run; files are never skipped silently.
func (p *Pipeline) Select() ([]AdmittedFile, error) {
	var admitted []AdmittedFile

	err := p.walker.Walk(func(e walk.Entry) error {
		if p.scope != nil && !p.scope.Contains(e.RelPath) {
			return nil
		}
		if !Matches(e, p.criteria) {
			return nil
		}
		if excludedByPrefix(e.RelPath, p.criteria.ExcludePaths) {
			p.logger.Debug("Excluded by path prefix", zap.String("path", e.RelPath))
			return nil
		}
		if !includedByPrefix(e.RelPath, p.criteria.IncludePaths) {
			return nil
		}

		if p.criteria.hasKeywords() {
			text, err := ReadFileText(e.AbsPath)
			if err != nil {
				p.logger.Error("Failed to read file for keyword check", zap.String("filePath", e.AbsPath), zap.Error(err))
				return err
			}
			if !AdmitsContent(StripMarkerBlock(text), p.criteria) {
				return nil
			}
		}

		admitted = append(admitted, AdmittedFile{RelPath: e.RelPath, AbsPath: e.AbsPath})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRead) || errors.Is(err, ErrEncoding) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrWalk, err)
	}

	p.logger.Debug("Selection finished", zap.Int("admittedFiles", len(admitted)))
	return admitted, nil
}

func (c Criteria) hasKeywords() bool {
	return len(c.OrKeywords) > 0 || len(c.AndKeywords) > 0 || len(c.ExcludeKeywords) > 0
}

func excludedByPrefix(relPath string, excludes []string) bool {
	for _, prefix := range excludes {
		if strings.HasPrefix(relPath, prefix) {
			return true
		}
	}
	return false
}

func includedByPrefix(relPath string, includes []string) bool {
	if len(includes) == 0 {
		return true
	}
	for _, prefix := range includes {
		if strings.HasPrefix(relPath, prefix) {
			return true
		}
	}
	return false
}
