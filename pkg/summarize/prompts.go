package summarize

import "promptpack/pkg/sink"

// Prompt templates carry the same content marker as prompt template
// files, substituted with the file text before the request is sent.
const (
	summaryPrompt = `Summarize the following source file. Describe in a few sentences what the code does, then add a line starting with "Defined:" listing the comma-separated names of the types, functions and constants it defines, and a line starting with "Used:" listing the comma-separated names of its imports and dependencies. Return only the summary.

` + sink.ContentMarker

	diffSummaryPrompt = `The following is a unified diff of one source file. Summarize in a few sentences what changed and why it matters to a reviewer. Return only the summary.

` + sink.ContentMarker
)

// blockStructureHint asks for a summary wrapped in a multi line comment,
// for example /* ... */ in C.
const blockStructureHint = "\n\nPlease use the following structure: line 1: '%s', line 2: '%s', lines 3 to N-2: the summary, line N-1: '%s', line N: '%s'"

// lineStructureHint asks for a summary where every line carries the
// line comment prefix, for example // in Go.
const lineStructureHint = "\n\nPlease make sure to start every line of the summary with '%s'. Please use the following structure: line 1: '%s', line 2: '%s %s', lines 3 to N-2: the summary, line N-1: '%s %s', line N: '%s'"

// genericStructureHint is used when the file's comment syntax is unknown.
const genericStructureHint = "\n\nPlease return the summary as a comment block appropriately formatted for the language, with this structure: line 2: '%s', line N-1: '%s'. Lines 1 and N should hold the comment delimiters, or be empty if the language has none."
