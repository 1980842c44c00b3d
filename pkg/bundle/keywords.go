package bundle

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// ReadFileText reads a file as UTF-8 text. An unreadable file or one
// with invalid encoding fails the whole run; selection never skips a
// file it could not check.
func ReadFileText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrEncoding, path)
	}
	return string(data), nil
}

// AdmitsContent applies the keyword admission rules to file content.
// Exclude keywords reject on any hit, the OR set requires at least one
// hit, and the AND set requires all. Matching is literal, case-sensitive
// substring containment.
func AdmitsContent(content string, c Criteria) bool {
	for _, kw := range c.ExcludeKeywords {
		if strings.Contains(content, kw) {
			return false
		}
	}

	if len(c.OrKeywords) > 0 {
		found := false
		for _, kw := range c.OrKeywords {
			if strings.Contains(content, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, kw := range c.AndKeywords {
		if !strings.Contains(content, kw) {
			return false
		}
	}

	return true
}
