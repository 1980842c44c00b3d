package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"promptpack/pkg/bundle"
	"promptpack/pkg/sink"
)

func TestSplitList(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "md", []string{"md"}},
		{"multiple", "md,rs,go", []string{"md", "rs", "go"}},
		{"spaces trimmed", " md , rs ", []string{"md", "rs"}},
		{"empty tokens dropped", "md,,rs,", []string{"md", "rs"}},
		{"only separators", ",,", nil},
		{"wildcard", "*", []string{"*"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, splitList(tc.in))
		})
	}
}

func TestRunApplyRequiresSummarize(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), Arguments{
		Directory: t.TempDir(),
		Suffixes:  []string{"md"},
		Apply:     true,
	}, zap.NewNop())
	require.ErrorIs(t, err, bundle.ErrConfig)
	assert.Contains(t, err.Error(), "--apply requires --summarize")
}

func TestRunApplyRejectedInDiffMode(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), Arguments{
		Directory:   t.TempDir(),
		Suffixes:    []string{"md"},
		Summarize:   true,
		Apply:       true,
		DiffOnly:    true,
		StartCommit: "HEAD~1",
	}, zap.NewNop())
	require.ErrorIs(t, err, bundle.ErrConfig)
	assert.Contains(t, err.Error(), "--apply cannot be combined with --diff-only")
}

func TestRunInvalidSuffix(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), Arguments{
		Directory: t.TempDir(),
		Suffixes:  []string{"no-dashes!"},
	}, zap.NewNop())
	require.ErrorIs(t, err, bundle.ErrConfig)
}

func TestRunMissingDirectory(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), Arguments{
		Directory: filepath.Join(t.TempDir(), "does-not-exist"),
		Suffixes:  []string{"md"},
	}, zap.NewNop())
	require.ErrorIs(t, err, bundle.ErrWalk)
}

func TestRunBundlesToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("hello\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("not selected\n"), 0o644))

	outPath := filepath.Join(t.TempDir(), "bundle.txt")
	err := run(context.Background(), Arguments{
		Directory:  dir,
		Suffixes:   []string{"md"},
		OutputPath: outPath,
	}, zap.NewNop())
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "File Paths:\na.md\n\nFile Contents:\n\nFile: a.md\nhello\n\n", string(got))
}

func TestRunExpandsTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("hello\n"), 0o644))

	tmplPath := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(tmplPath, []byte("Review:\n"+sink.ContentMarker+"\nThanks.\n"), 0o644))

	outPath := filepath.Join(t.TempDir(), "bundle.txt")
	err := run(context.Background(), Arguments{
		Directory:    dir,
		Suffixes:     []string{"md"},
		TemplatePath: tmplPath,
		OutputPath:   outPath,
	}, zap.NewNop())
	require.NoError(t, err)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	want := "Review:\nFile Paths:\na.md\n\nFile Contents:\n\nFile: a.md\nhello\n\n\nThanks.\n"
	assert.Equal(t, want, string(got))
}

func TestRunTemplateWithoutMarkerFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("hello\n"), 0o644))

	tmplPath := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(tmplPath, []byte("no marker"), 0o644))

	err := run(context.Background(), Arguments{
		Directory:    dir,
		Suffixes:     []string{"md"},
		TemplatePath: tmplPath,
		OutputPath:   filepath.Join(t.TempDir(), "bundle.txt"),
	}, zap.NewNop())
	require.ErrorIs(t, err, bundle.ErrConfig)
}

func TestRunUnknownProvider(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("hello\n"), 0o644))

	err := run(context.Background(), Arguments{
		Directory:  dir,
		Suffixes:   []string{"md"},
		Summarize:  true,
		Provider:   "unknown",
		OutputPath: filepath.Join(t.TempDir(), "bundle.txt"),
	}, zap.NewNop())
	require.ErrorIs(t, err, bundle.ErrConfig)
	assert.Contains(t, err.Error(), "unknown provider")
}
