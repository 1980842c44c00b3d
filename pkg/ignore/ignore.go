// Package ignore matches paths against gitignore-style pattern files,
// including nested ignore files scoped to the directory they live in.
package ignore

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Pattern encapsulates a compiled regular expression pattern,
// a negation flag, and metadata about the pattern's origin.
type Pattern struct {
	Pattern *regexp.Regexp // Compiled regular expression for the pattern.
	Negate  bool           // Indicates if the pattern is a negation (starts with '!').
	DirOnly bool           // Pattern applies to directories only (ends with '/').
	Line    string         // Original pattern line.
	LineNo  int            // Line number in the source (1-based).
}

// Ruleset groups the patterns of one ignore file. Base is the
// slash-separated directory the file was found in, relative to the walk
// root; an empty base scopes the rules to the whole tree.
type Ruleset struct {
	Base     string
	Patterns []*Pattern
}

// Matcher holds rulesets in the order they were added. Deeper rulesets
// are added later, so their patterns are consulted last and the last
// matching pattern decides.
type Matcher struct {
	rulesets []*Ruleset
	logger   *zap.Logger
}

// NewMatcher initializes a Matcher with an optional logger.
func NewMatcher(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// AddPatternFile reads an ignore file and compiles its lines into a
// ruleset under the given base. A missing file is not an error.
func (m *Matcher) AddPatternFile(base, fpath string) error {
	content, err := os.ReadFile(fpath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		m.logger.Error("Failed to read ignore file", zap.String("filePath", fpath), zap.Error(err))
		return err
	}

	m.AddPatterns(base, strings.Split(string(content), "\n")...)
	m.logger.Debug("Compiled ignore file",
		zap.String("filePath", fpath),
		zap.String("base", base),
		zap.Int("totalPatterns", m.PatternCount()))
	return nil
}

// AddPatterns compiles a set of ignore pattern lines into a ruleset
// under the given base.
func (m *Matcher) AddPatterns(base string, lines ...string) {
	rs := &Ruleset{Base: strings.Trim(filepath.ToSlash(base), "/")}
	for i, line := range lines {
		if p := parsePatternLine(line, i+1); p != nil {
			rs.Patterns = append(rs.Patterns, p)
		}
	}
	if len(rs.Patterns) > 0 {
		m.rulesets = append(m.rulesets, rs)
	}
}

// PatternCount returns the number of compiled patterns across all rulesets.
func (m *Matcher) PatternCount() int {
	n := 0
	for _, rs := range m.rulesets {
		n += len(rs.Patterns)
	}
	return n
}

// Match reports whether the path is ignored. The path must be relative
// to the walk root; isDir tells the matcher whether it names a directory.
func (m *Matcher) Match(path string, isDir bool) bool {
	matched, _ := m.MatchPattern(path, isDir)
	return matched
}

// MatchPattern is Match plus the pattern that decided the outcome, for
// callers that want to report why an entry was skipped.
func (m *Matcher) MatchPattern(path string, isDir bool) (bool, *Pattern) {
	path = strings.Trim(normalizePath(path), "/")

	matched := false
	var decided *Pattern

	for _, rs := range m.rulesets {
		rel := path
		if rs.Base != "" {
			if !strings.HasPrefix(path, rs.Base+"/") {
				continue
			}
			rel = path[len(rs.Base)+1:]
		}
		// Directories are matched with a trailing slash so that
		// directory-only patterns apply to them and to nothing else.
		candidate := rel
		if isDir {
			candidate = rel + "/"
		}
		for _, p := range rs.Patterns {
			if p.Pattern.MatchString(candidate) {
				matched = !p.Negate
				decided = p
			}
		}
	}

	return matched, decided
}

// normalizePath converts OS-specific path separators to forward slashes.
func normalizePath(path string) string {
	return filepath.ToSlash(path)
}

// parsePatternLine processes a line from an ignore file into a compiled
// Pattern. Returns nil for empty lines, comments, and invalid patterns.
func parsePatternLine(line string, lineNo int) *Pattern {
	trimmedLine := strings.TrimSpace(line)

	// Ignore empty lines and comments.
	if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
		return nil
	}

	// Check for negation.
	negate := false
	if strings.HasPrefix(trimmedLine, "!") {
		negate = true
		trimmedLine = strings.TrimPrefix(trimmedLine, "!")
	}

	// Handle escaped characters for `#` and `!`.
	if strings.HasPrefix(trimmedLine, "\\#") || strings.HasPrefix(trimmedLine, "\\!") {
		trimmedLine = trimmedLine[1:]
	}

	// Escape special characters and convert wildcards.
	escapedLine := escapeSpecialChars(trimmedLine)
	escapedLine = handleDoubleStarPatterns(escapedLine)
	escapedLine = wildcardToRegex(escapedLine)
	escapedLine = anchorPattern(escapedLine, trimmedLine)

	compiledRegex, err := regexp.Compile(escapedLine)
	if err != nil {
		return nil
	}

	return &Pattern{
		Pattern: compiledRegex,
		Negate:  negate,
		DirOnly: strings.HasSuffix(trimmedLine, "/"),
		Line:    line,
		LineNo:  lineNo,
	}
}
