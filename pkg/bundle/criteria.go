// Package bundle selects files from a directory tree and assembles
// their content into a single prompt-ready text. Selection combines
// suffix rules, path prefixes, keyword checks, and an optional
// commit-range scope; assembly renders a stable, deterministic layout.
package bundle

// Criteria is the resolved selection rule set for one run. The values
// are immutable once validated.
type Criteria struct {
	// Suffixes holds file suffix or name tokens, or the single wildcard
	// token "*" that switches selection to text-likeness detection.
	Suffixes []string

	UseGitignore  bool
	IncludeHidden bool

	// ExcludePaths and IncludePaths are relative path prefixes. A path
	// matching any exclude prefix is rejected; when include prefixes are
	// present, a path must match one of them.
	ExcludePaths []string
	IncludePaths []string

	// OrKeywords admit a file when any of them occurs in its content,
	// AndKeywords when all of them do, and ExcludeKeywords reject a file
	// when any of them occurs. Matching is case-sensitive and literal.
	OrKeywords      []string
	AndKeywords     []string
	ExcludeKeywords []string
}

// Wildcard reports whether the suffix rules are the single wildcard token.
func (c Criteria) Wildcard() bool {
	return len(c.Suffixes) == 1 && c.Suffixes[0] == "*"
}

// DiffRange bounds a diff computation between two revisions. Empty
// fields fall back to the working tree or HEAD; see Repository.Diff for
// the resolution table.
type DiffRange struct {
	Start string
	End   string
}

// IsZero reports whether neither bound is set.
func (r DiffRange) IsZero() bool {
	return r.Start == "" && r.End == ""
}

// AdmittedFile is a file that passed every selection stage.
type AdmittedFile struct {
	RelPath string // Slash-separated path relative to the walk root.
	AbsPath string // Absolute filesystem path.
}

// Repository is the version-control surface the bundler consumes:
// revision resolution, range diffing, and reads of historical file
// content. pkg/vcs provides the production implementation.
type Repository interface {
	ResolveCommit(ref string) (string, error)
	IsAncestor(ancestor, descendant string) (bool, error)
	Diff(start, end string) (string, error)
	ShowFile(ref, path string) ([]byte, error)
}
