package bundle

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxSuffixLen  = 10
	maxKeywordLen = 100
)

// Validate checks the criteria and commit range before any traversal
// begins. repo may be nil when diffOnly is false; with diffOnly set it
// must name an open repository so the revisions can be resolved.
func Validate(c Criteria, rng DiffRange, diffOnly bool, repo Repository) error {
	if err := validateSuffixes(c.Suffixes); err != nil {
		return err
	}
	for _, group := range [][]string{c.OrKeywords, c.AndKeywords, c.ExcludeKeywords} {
		if err := validateKeywords(group); err != nil {
			return err
		}
	}
	if err := validateRange(rng, diffOnly, repo); err != nil {
		return err
	}
	return validatePathFilters(c.ExcludePaths, c.IncludePaths)
}

func validateSuffixes(suffixes []string) error {
	if len(suffixes) == 0 {
		return fmt.Errorf("%w: no file suffixes given", ErrConfig)
	}
	if len(suffixes) == 1 && suffixes[0] == "*" {
		return nil
	}
	for _, s := range suffixes {
		if s == "" {
			return fmt.Errorf("%w: empty file suffix", ErrConfig)
		}
		if s == "*" {
			return fmt.Errorf("%w: wildcard suffix cannot be combined with other suffixes", ErrConfig)
		}
		if utf8.RuneCountInString(s) > maxSuffixLen {
			return fmt.Errorf("%w: file suffix %q exceeds %d characters", ErrConfig, s, maxSuffixLen)
		}
		for _, r := range s {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return fmt.Errorf("%w: file suffix %q contains non-alphanumeric characters", ErrConfig, s)
			}
		}
	}
	return nil
}

func validateKeywords(keywords []string) error {
	for _, kw := range keywords {
		if kw == "" {
			return fmt.Errorf("%w: empty keyword", ErrConfig)
		}
		if len(kw) > maxKeywordLen {
			return fmt.Errorf("%w: keyword %q exceeds %d characters", ErrConfig, kw, maxKeywordLen)
		}
		for i := 0; i < len(kw); i++ {
			if kw[i] >= utf8.RuneSelf {
				return fmt.Errorf("%w: keyword %q contains non-ASCII characters", ErrConfig, kw)
			}
		}
	}
	return nil
}

// validateRange enforces the legal start/end combinations and, when a
// range is in play, resolves both bounds and checks their ancestry.
func validateRange(rng DiffRange, diffOnly bool, repo Repository) error {
	if diffOnly && rng.Start == "" {
		return fmt.Errorf("%w: diff-scoped selection requires a start commit", ErrConfig)
	}
	if rng.Start != "" && !diffOnly {
		return fmt.Errorf("%w: a start commit requires diff-scoped selection", ErrConfig)
	}
	if rng.End != "" && rng.Start == "" {
		return fmt.Errorf("%w: an end commit requires a start commit", ErrConfig)
	}
	if !diffOnly {
		return nil
	}
	if repo == nil {
		return fmt.Errorf("%w: diff-scoped selection requires a git repository", ErrConfig)
	}

	start, err := repo.ResolveCommit(rng.Start)
	if err != nil {
		return fmt.Errorf("%w: start commit: %v", ErrRevision, err)
	}
	if rng.End == "" {
		return nil
	}
	end, err := repo.ResolveCommit(rng.End)
	if err != nil {
		return fmt.Errorf("%w: end commit: %v", ErrRevision, err)
	}
	ok, err := repo.IsAncestor(start, end)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRevision, err)
	}
	if !ok {
		return fmt.Errorf("%w: start commit %s is not an ancestor of end commit %s", ErrConfig, rng.Start, rng.End)
	}
	return nil
}

func validatePathFilters(excludes, includes []string) error {
	for _, group := range [][]string{excludes, includes} {
		for _, p := range group {
			if p == "" {
				return fmt.Errorf("%w: empty path filter", ErrConfig)
			}
		}
	}
	for _, inc := range includes {
		for _, exc := range excludes {
			if strings.HasPrefix(inc, exc) {
				return fmt.Errorf("%w: include path %q lies under exclude path %q", ErrConfig, inc, exc)
			}
		}
	}
	return nil
}
