package ignore

import (
	"regexp"
	"strings"
)

// Double-star forms are rewritten to placeholder tokens first so that the
// single-star conversion cannot rewrite the regex fragments they expand to.
const (
	doubleStarMiddle   = "\x00"
	doubleStarTrailing = "\x01"
	doubleStarLeading  = "\x02"
)

var (
	doubleStarMiddleRE   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailingRE = regexp.MustCompile(`/\*\*$`)
	doubleStarLeadingRE  = regexp.MustCompile(`^\*\*/`)
	singleStarRE         = regexp.MustCompile(`\*`)
)

// escapeSpecialChars escapes regex special characters except for `*`, `?`, and `/`.
func escapeSpecialChars(pattern string) string {
	specialChars := `.+()|^$[]{}`
	for _, char := range specialChars {
		pattern = strings.ReplaceAll(pattern, string(char), `\`+string(char))
	}
	return pattern
}

// handleDoubleStarPatterns replaces '**' forms with placeholder tokens.
func handleDoubleStarPatterns(pattern string) string {
	pattern = doubleStarMiddleRE.ReplaceAllString(pattern, doubleStarMiddle)
	pattern = doubleStarTrailingRE.ReplaceAllString(pattern, doubleStarTrailing)
	pattern = doubleStarLeadingRE.ReplaceAllString(pattern, doubleStarLeading)
	return pattern
}

// wildcardToRegex converts `*` and `?` wildcards to regex equivalents and
// expands the double-star placeholders.
func wildcardToRegex(pattern string) string {
	pattern = singleStarRE.ReplaceAllString(pattern, `[^/]*`)
	pattern = strings.ReplaceAll(pattern, "?", `[^/]`)

	pattern = strings.ReplaceAll(pattern, doubleStarMiddle, `(/|/.+/)`)
	pattern = strings.ReplaceAll(pattern, doubleStarTrailing, `/.*`)
	pattern = strings.ReplaceAll(pattern, doubleStarLeading, `(.*/)?`)
	return pattern
}

// anchorPattern anchors the regex pattern to match the full path. A
// pattern containing a slash (other than a trailing one) is anchored to
// the ruleset base; anything else floats to any depth. A matched
// directory pattern also covers everything below the directory.
func anchorPattern(pattern string, originalPattern string) string {
	if strings.HasSuffix(originalPattern, "/") {
		pattern += "(|.*)$"
	} else {
		pattern += "(|/.*)$"
	}

	base := strings.TrimSuffix(originalPattern, "/")
	if strings.HasPrefix(base, "/") {
		return "^" + strings.TrimPrefix(pattern, "/")
	}
	if strings.Contains(base, "/") {
		return "^" + pattern
	}
	return "^(|.*/)" + pattern
}
