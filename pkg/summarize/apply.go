package summarize

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"promptpack/pkg/bundle"
)

// CommentStyle describes how a language encloses the summary block. An
// empty End means every line carries the Start prefix instead.
type CommentStyle struct {
	Start string
	End   string
}

var commentStyles = map[string]CommentStyle{
	"c":     {"/*", "*/"},
	"cpp":   {"/*", "*/"},
	"h":     {"/*", "*/"},
	"hpp":   {"/*", "*/"},
	"java":  {"/*", "*/"},
	"js":    {"/*", "*/"},
	"ts":    {"/*", "*/"},
	"cs":    {"/*", "*/"},
	"css":   {"/*", "*/"},
	"scss":  {"/*", "*/"},
	"less":  {"/*", "*/"},
	"swift": {"/*", "*/"},
	"kt":    {"/*", "*/"},
	"scala": {"/*", "*/"},
	"rs":    {"/*", "*/"},
	"php":   {"/*", "*/"},
	"sql":   {"/*", "*/"},

	"html": {"<!--", "-->"},
	"htm":  {"<!--", "-->"},
	"xml":  {"<!--", "-->"},
	"svg":  {"<!--", "-->"},
	"md":   {"<!--", "-->"},

	"go":   {"//", ""},
	"sass": {"//", ""},

	"py":   {"#", ""},
	"rb":   {"#", ""},
	"sh":   {"#", ""},
	"bash": {"#", ""},
	"pl":   {"#", ""},
	"r":    {"#", ""},
	"yaml": {"#", ""},
	"yml":  {"#", ""},
	"toml": {"#", ""},
	"ini":  {"#", ""},
	"conf": {"#", ""},
}

// StyleFor returns the comment style for a file path, keyed by extension.
func StyleFor(relPath string) (CommentStyle, bool) {
	ext := strings.ToLower(fileExt(relPath))
	style, ok := commentStyles[ext]
	return style, ok
}

func fileExt(relPath string) string {
	name := path.Base(relPath)
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

// ValidSummaryBlock reports whether a model response is a correctly
// delimited marker comment block for the file's language: the comment
// delimiters on the outer lines and the marker lines just inside them.
func ValidSummaryBlock(relPath, summary string) bool {
	style, ok := StyleFor(relPath)
	if !ok {
		return false
	}

	lines := strings.Split(strings.TrimSpace(summary), "\n")
	if len(lines) < 4 {
		return false
	}

	if style.End != "" {
		return strings.TrimSpace(lines[0]) == style.Start &&
			strings.TrimSpace(lines[1]) == bundle.MarkerStart &&
			strings.TrimSpace(lines[len(lines)-2]) == bundle.MarkerEnd &&
			strings.TrimSpace(lines[len(lines)-1]) == style.End
	}

	for _, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), style.Start) {
			return false
		}
	}
	trimmed := func(i int) string {
		return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[i]), style.Start))
	}
	return trimmed(0) == "" &&
		trimmed(1) == bundle.MarkerStart &&
		trimmed(len(lines)-2) == bundle.MarkerEnd &&
		trimmed(len(lines)-1) == ""
}

// Apply prepends each summary to the top of its source file, replacing
// any marker block from a previous run. Malformed summaries and files
// that cannot be rewritten are skipped with a warning. Returns how many
// files were rewritten.
func Apply(files []bundle.AdmittedFile, summaries []string, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(files) != len(summaries) {
		return 0, fmt.Errorf("%d summaries for %d files", len(summaries), len(files))
	}

	applied := 0
	for i, f := range files {
		summary := strings.TrimSpace(summaries[i])
		if !ValidSummaryBlock(f.RelPath, summary) {
			logger.Warn("Skipping malformed summary",
				zap.String("filePath", f.RelPath))
			continue
		}

		raw, err := os.ReadFile(f.AbsPath)
		if err != nil {
			logger.Warn("Failed to read file for summary",
				zap.String("filePath", f.RelPath),
				zap.Error(err))
			continue
		}

		content := summary + "\n" + bundle.StripMarkerBlock(string(raw))
		if err := os.WriteFile(f.AbsPath, []byte(content), 0o644); err != nil {
			logger.Warn("Failed to write summary",
				zap.String("filePath", f.RelPath),
				zap.Error(err))
			continue
		}
		applied++
	}
	return applied, nil
}
