package bundle

import "strings"

// Marker lines delimit a generated summary block prepended to a source
// file. The block sits inside a comment: one comment-opening line, the
// start marker, the summary, the end marker, one comment-closing line.
const (
	MarkerStart = "[PROMPTPACK]"
	MarkerEnd   = "[/PROMPTPACK]"
)

// StripMarkerBlock removes a leading marker-delimited summary block from
// file content, including the comment lines enclosing the markers. Only
// a block whose start marker sits within the first three lines is
// removed; content without one is returned unchanged.
func StripMarkerBlock(content string) string {
	lines := strings.Split(content, "\n")

	start := -1
	for i := 0; i < len(lines) && i < 3; i++ {
		if strings.Contains(lines[i], MarkerStart) {
			start = i
			break
		}
	}
	if start < 0 {
		return content
	}

	end := -1
	for j := start + 1; j < len(lines); j++ {
		if strings.Contains(lines[j], MarkerEnd) {
			end = j
			break
		}
	}
	if end < 0 {
		return content
	}

	from := start
	if start > 0 {
		from = start - 1 // the comment-opening line
	}
	to := end
	if end+1 < len(lines) {
		to = end + 1 // the comment-closing line
	}

	kept := make([]string, 0, len(lines))
	kept = append(kept, lines[:from]...)
	kept = append(kept, lines[to+1:]...)
	return strings.Join(kept, "\n")
}
