package bundle

import "errors"

// Error kinds distinguish how a run failed. Callers match them with
// errors.Is; the wrapped message carries the detail. All of them abort
// the run: a file that was selected is never silently dropped.
var (
	// ErrConfig marks rejected selection criteria, commit-range
	// combinations, or output settings.
	ErrConfig = errors.New("invalid configuration")

	// ErrRevision marks a revision expression that could not be resolved.
	ErrRevision = errors.New("revision resolution failed")

	// ErrWalk marks a traversal failure of the walk root itself.
	ErrWalk = errors.New("directory walk failed")

	// ErrDiff marks a failure to compute or parse the commit-range diff.
	ErrDiff = errors.New("diff computation failed")

	// ErrRead marks an unreadable file in the working tree.
	ErrRead = errors.New("file read failed")

	// ErrHistoricalRead marks an unreadable file at the end revision.
	ErrHistoricalRead = errors.New("historical file read failed")

	// ErrEncoding marks file content that is not valid UTF-8.
	ErrEncoding = errors.New("file content is not valid UTF-8")
)
