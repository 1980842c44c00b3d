package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptpack/pkg/walk"
)

func fileEntry(t *testing.T, dir, rel string, content []byte) walk.Entry {
	t.Helper()
	abs := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, content, 0o644))
	return walk.Entry{RelPath: rel, AbsPath: abs}
}

func TestMatchesBySuffix(t *testing.T) {
	t.Parallel()

	criteria := Criteria{Suffixes: []string{"md", "rs"}}

	assert.True(t, Matches(walk.Entry{RelPath: "notes.md", AbsPath: "/x/notes.md"}, criteria))
	assert.True(t, Matches(walk.Entry{RelPath: "src/lib.rs", AbsPath: "/x/src/lib.rs"}, criteria))
	assert.False(t, Matches(walk.Entry{RelPath: "notes.md", AbsPath: "/x/notes.md"}, Criteria{Suffixes: []string{"rs"}}))
	assert.False(t, Matches(walk.Entry{RelPath: "main.go", AbsPath: "/x/main.go"}, criteria))
}

func TestMatchesSuffixIsCaseSensitive(t *testing.T) {
	t.Parallel()

	criteria := Criteria{Suffixes: []string{"md"}}
	assert.False(t, Matches(walk.Entry{RelPath: "NOTES.MD", AbsPath: "/x/NOTES.MD"}, criteria))
}

func TestMatchesExtensionLessByFilename(t *testing.T) {
	t.Parallel()

	criteria := Criteria{Suffixes: []string{"Dockerfile"}}

	assert.True(t, Matches(walk.Entry{RelPath: "Dockerfile", AbsPath: "/x/Dockerfile"}, criteria))
	assert.True(t, Matches(walk.Entry{RelPath: "deploy/Dockerfile", AbsPath: "/x/deploy/Dockerfile"}, criteria))
	// A dotfile counts as extension-less, so the whole name must match.
	assert.False(t, Matches(walk.Entry{RelPath: ".gitignore", AbsPath: "/x/.gitignore"}, criteria))
	assert.True(t, Matches(walk.Entry{RelPath: ".gitignore", AbsPath: "/x/.gitignore"}, Criteria{Suffixes: []string{".gitignore"}}))
}

func TestMatchesNeverAdmitsDirectories(t *testing.T) {
	t.Parallel()

	criteria := Criteria{Suffixes: []string{"*"}}
	assert.False(t, Matches(walk.Entry{RelPath: "src", AbsPath: "/x/src", IsDir: true}, criteria))
}

func TestWildcardAdmitsKnownTextExtensionWithoutSniffing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Binary content behind a recognized extension is still admitted.
	e := fileEntry(t, dir, "data.md", []byte{0xff, 0xfe, 0x00, 0x01})

	assert.True(t, Matches(e, Criteria{Suffixes: []string{"*"}}))
}

func TestWildcardAdmitsWellKnownFilenames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e := fileEntry(t, dir, "Makefile", []byte("all:\n\ttrue\n"))

	assert.True(t, Matches(e, Criteria{Suffixes: []string{"*"}}))
}

func TestWildcardSniffsUnknownFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	text := fileEntry(t, dir, "notes", []byte("plain text, no extension\n"))
	binary := fileEntry(t, dir, "blob.bin", []byte{0xff, 0xfe, 0xfd, 0x00, 0x80})

	wildcard := Criteria{Suffixes: []string{"*"}}
	assert.True(t, Matches(text, wildcard))
	assert.False(t, Matches(binary, wildcard))
}

func TestWildcardRejectsUnreadableFile(t *testing.T) {
	t.Parallel()

	e := walk.Entry{RelPath: "ghost", AbsPath: filepath.Join(t.TempDir(), "ghost")}
	assert.False(t, Matches(e, Criteria{Suffixes: []string{"*"}}))
}

func TestFileExt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "go", fileExt("main.go"))
	assert.Equal(t, "gz", fileExt("archive.tar.gz"))
	assert.Equal(t, "", fileExt("Dockerfile"))
	assert.Equal(t, "", fileExt(".gitignore"))
}
