package bundle

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"promptpack/pkg/walk"
)

// textExtensions are the lowercased extensions the wildcard rule accepts
// without looking at content.
var textExtensions = map[string]bool{
	// Programming languages
	"rs": true, "py": true, "js": true, "ts": true, "java": true,
	"c": true, "cpp": true, "h": true, "hpp": true, "cs": true,
	"go": true, "rb": true, "php": true, "swift": true, "kt": true,
	"scala": true, "sh": true, "bash": true, "pl": true, "r": true,
	"sql": true, "m": true, "mm": true,
	// Web
	"html": true, "htm": true, "css": true, "scss": true, "sass": true,
	"less": true, "xml": true, "svg": true,
	// Data formats
	"json": true, "yaml": true, "yml": true, "toml": true, "ini": true,
	"conf": true, "config": true,
	// Documentation
	"md": true, "markdown": true, "txt": true, "rtf": true, "rst": true,
	"asciidoc": true, "adoc": true,
	// Config files
	"gitignore": true, "env": true, "dockerignore": true, "editorconfig": true,
	// Build files
	"cmake": true, "make": true, "mak": true, "gradle": true,
}

// textFilenames are well-known text files matched by their full name,
// checked before the extension list.
var textFilenames = map[string]bool{
	"Dockerfile": true, "Makefile": true, "README": true, "LICENSE": true,
	"Cargo.lock": true, "package.json": true,
	".gitignore": true, ".env": true, ".dockerignore": true, ".editorconfig": true,
}

// textSniffLen is how many leading bytes the wildcard rule samples when
// neither list recognizes a file.
const textSniffLen = 1024

// Matches reports whether the entry qualifies under the criteria's
// suffix rules. Directories never qualify. The wildcard rule set admits
// only text-like files; otherwise the extension (case-sensitive, without
// the dot) or, for extension-less names, the whole filename must equal
// one of the rule tokens.
func Matches(e walk.Entry, c Criteria) bool {
	if e.IsDir {
		return false
	}
	if c.Wildcard() {
		return isLikelyTextFile(e.AbsPath)
	}

	name := filepath.Base(e.AbsPath)
	if ext := fileExt(name); ext != "" {
		return containsToken(c.Suffixes, ext)
	}
	return containsToken(c.Suffixes, name)
}

// fileExt returns the filename's extension without the leading dot.
// Dotfiles like .gitignore count as extension-less.
func fileExt(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

func containsToken(tokens []string, s string) bool {
	for _, t := range tokens {
		if t == s {
			return true
		}
	}
	return false
}

// isLikelyTextFile decides text-likeness for the wildcard rule: known
// filenames first, then the extension allow-list, then a sample of the
// leading bytes checked for valid UTF-8. A file with a recognized
// extension is accepted without sniffing.
func isLikelyTextFile(absPath string) bool {
	name := filepath.Base(absPath)
	if textFilenames[name] {
		return true
	}
	if ext := fileExt(name); ext != "" && textExtensions[strings.ToLower(ext)] {
		return true
	}

	f, err := os.Open(absPath)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, textSniffLen)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	return utf8.Valid(buf[:n])
}
