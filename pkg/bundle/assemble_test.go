package bundle

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func admitted(t *testing.T, dir string, rels ...string) []AdmittedFile {
	t.Helper()
	files := make([]AdmittedFile, len(rels))
	for i, rel := range rels {
		files[i] = AdmittedFile{RelPath: rel, AbsPath: filepath.Join(dir, filepath.FromSlash(rel))}
	}
	return files
}

func TestAssembleExactFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.txt":    "alpha\n",
		"sub/b.go": "package sub\n",
	})

	a := NewAssembler(nil, nil, DiffRange{}, nil)
	out, err := a.Assemble(admitted(t, dir, "a.txt", "sub/b.go"))
	require.NoError(t, err)

	want := "File Paths:\n" +
		"a.txt\n" +
		"sub/b.go\n" +
		"\n" +
		"File Contents:\n" +
		"\n" +
		"File: a.txt\n" +
		"alpha\n" +
		"\n" +
		"File: sub/b.go\n" +
		"package sub\n" +
		"\n"
	assert.Equal(t, want, out)
}

func TestAssembleZeroFiles(t *testing.T) {
	t.Parallel()

	a := NewAssembler(nil, nil, DiffRange{}, nil)
	out, err := a.Assemble(nil)
	require.NoError(t, err)
	assert.Equal(t, "File Paths:\n\nFile Contents:\n\n", out)
}

func TestAssembleAddsNewlineTermination(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"raw.txt": "no trailing newline"})

	a := NewAssembler(nil, nil, DiffRange{}, nil)
	out, err := a.Assemble(admitted(t, dir, "raw.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, "File: raw.txt\nno trailing newline\n\n")
}

func TestAssembleWithDiffSections(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.txt": "old line\nnew line\n",
		"c.md":  "unrelated but admitted\n",
	})

	repo := &fakeRepo{patch: samplePatch}
	scope, err := NewDiffScope(repo, DiffRange{Start: "c1"}, nil)
	require.NoError(t, err)

	a := NewAssembler(repo, scope, DiffRange{Start: "c1"}, nil)
	out, err := a.Assemble(admitted(t, dir, "a.txt", "c.md"))
	require.NoError(t, err)

	// The changed file carries its fragment.
	assert.Contains(t, out, "File: a.txt\nold line\nnew line\n\nDiff:\ndiff --git a/a.txt b/a.txt\n")
	assert.Contains(t, out, "+new line\n")
	// The unchanged file carries an empty diff section.
	assert.Contains(t, out, "File: c.md\nunrelated but admitted\n\nDiff:\n\n")
}

func TestAssembleReadsHistoricalContentWithEndRevision(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "live content\n"})

	repo := &fakeRepo{
		patch: samplePatch,
		trees: map[string]map[string]string{
			"c2": {"a.txt": "content as of c2\n"},
		},
	}
	rng := DiffRange{Start: "c1", End: "c2"}
	scope, err := NewDiffScope(repo, rng, nil)
	require.NoError(t, err)

	a := NewAssembler(repo, scope, rng, nil)
	out, err := a.Assemble(admitted(t, dir, "a.txt"))
	require.NoError(t, err)

	assert.Contains(t, out, "File: a.txt\ncontent as of c2\n")
	assert.NotContains(t, out, "live content")
}

func TestAssembleHistoricalReadFailureIsFatal(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{
		patch: samplePatch,
		trees: map[string]map[string]string{"c2": {}},
	}
	rng := DiffRange{Start: "c1", End: "c2"}
	a := NewAssembler(repo, nil, rng, nil)

	_, err := a.Assemble([]AdmittedFile{{RelPath: "a.txt", AbsPath: "/nowhere/a.txt"}})
	require.ErrorIs(t, err, ErrHistoricalRead)
}

func TestAssembleStripsMarkerBlocks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"doc.py": "#\n# [PROMPTPACK]\n# old summary\n# [/PROMPTPACK]\n#\nbody line\n",
	})

	a := NewAssembler(nil, nil, DiffRange{}, nil)
	out, err := a.Assemble(admitted(t, dir, "doc.py"))
	require.NoError(t, err)

	assert.Contains(t, out, "File: doc.py\nbody line\n")
	assert.NotContains(t, out, "old summary")
}

func TestAssembleIsDeterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.txt": "alpha\n",
		"b.txt": "beta\n",
	})

	a := NewAssembler(nil, nil, DiffRange{}, nil)
	files := admitted(t, dir, "a.txt", "b.txt")

	first, err := a.Assemble(files)
	require.NoError(t, err)
	second, err := a.Assemble(files)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssembleReadFailureEmitsNoPartialBundle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"ok.txt": "fine\n"})

	a := NewAssembler(nil, nil, DiffRange{}, nil)
	files := append(admitted(t, dir, "ok.txt"), AdmittedFile{RelPath: "gone.txt", AbsPath: filepath.Join(dir, "gone.txt")})

	out, err := a.Assemble(files)
	require.ErrorIs(t, err, ErrRead)
	assert.Empty(t, out)
}

func TestAssembleSummaries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := admitted(t, dir, "a.go", "b.go")

	a := NewAssembler(nil, nil, DiffRange{}, nil)
	out, err := a.AssembleSummaries(files, []string{"summary of a\n", "summary of b"})
	require.NoError(t, err)

	want := "File Paths:\n" +
		"a.go\n" +
		"b.go\n" +
		"\n" +
		"File Summaries:\n" +
		"\n" +
		"File: a.go\n" +
		"summary of a\n" +
		"\n" +
		"File: b.go\n" +
		"summary of b\n" +
		"\n"
	assert.Equal(t, want, out)
}

func TestAssembleSummariesCountMismatch(t *testing.T) {
	t.Parallel()

	a := NewAssembler(nil, nil, DiffRange{}, nil)
	_, err := a.AssembleSummaries(admitted(t, t.TempDir(), "a.go"), nil)
	require.Error(t, err)
}
