package bundle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory Repository for tests.
type fakeRepo struct {
	patch     string
	diffErr   error
	resolved  map[string]string            // ref -> commit hash
	ancestors map[string]bool              // "hash1..hash2" -> reachable
	trees     map[string]map[string]string // ref -> relative path -> content
}

func (r *fakeRepo) ResolveCommit(ref string) (string, error) {
	if h, ok := r.resolved[ref]; ok {
		return h, nil
	}
	return "", fmt.Errorf("unknown revision %q", ref)
}

func (r *fakeRepo) IsAncestor(ancestor, descendant string) (bool, error) {
	return r.ancestors[ancestor+".."+descendant], nil
}

func (r *fakeRepo) Diff(start, end string) (string, error) {
	if r.diffErr != nil {
		return "", r.diffErr
	}
	return r.patch, nil
}

func (r *fakeRepo) ShowFile(ref, path string) ([]byte, error) {
	tree, ok := r.trees[ref]
	if !ok {
		return nil, fmt.Errorf("unknown revision %q", ref)
	}
	content, ok := tree[path]
	if !ok {
		return nil, fmt.Errorf("path %q does not exist at %s", path, ref)
	}
	return []byte(content), nil
}

const samplePatch = `diff --git a/a.txt b/a.txt
index 83db48f..bf26935 100644
--- a/a.txt
+++ b/a.txt
@@ -1 +1,2 @@
 old line
+new line
diff --git a/sub/b.go b/sub/b.go
index 9daeafb..4c5fd91 100644
--- a/sub/b.go
+++ b/sub/b.go
@@ -1 +1 @@
-package old
+package sub
diff --git a/gone.txt b/gone.txt
deleted file mode 100644
index e69de29..0000000
--- a/gone.txt
+++ /dev/null
@@ -1 +0,0 @@
-goodbye
`

func TestNewDiffScopeIndexesChangedPaths(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{patch: samplePatch}
	scope, err := NewDiffScope(repo, DiffRange{Start: "c1", End: "c2"}, nil)
	require.NoError(t, err)

	// Deletions have no new-side path and are skipped.
	assert.Equal(t, []string{"a.txt", "sub/b.go"}, scope.ChangedPaths())
	assert.True(t, scope.Contains("a.txt"))
	assert.True(t, scope.Contains("sub/b.go"))
	assert.False(t, scope.Contains("gone.txt"))
	assert.False(t, scope.Contains("untouched.txt"))
	assert.Equal(t, samplePatch, scope.Patch())
}

func TestNewDiffScopeEmptyPatch(t *testing.T) {
	t.Parallel()

	scope, err := NewDiffScope(&fakeRepo{patch: ""}, DiffRange{}, nil)
	require.NoError(t, err)
	assert.Empty(t, scope.ChangedPaths())
}

func TestNewDiffScopeDiffFailure(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{diffErr: fmt.Errorf("boom")}
	_, err := NewDiffScope(repo, DiffRange{Start: "c1"}, nil)
	require.ErrorIs(t, err, ErrDiff)
}

func TestFragmentForSingleFile(t *testing.T) {
	t.Parallel()

	frag := FragmentFor(samplePatch, "sub/b.go")
	assert.Contains(t, frag, "diff --git a/sub/b.go b/sub/b.go")
	assert.Contains(t, frag, "+package sub")
	assert.NotContains(t, frag, "a.txt")
	assert.NotContains(t, frag, "goodbye")
}

func TestFragmentForAbsentFileIsEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FragmentFor(samplePatch, "never/changed.md"))
}

func TestFragmentForMatchesByBaseName(t *testing.T) {
	t.Parallel()

	// Base-name containment pulls in every section whose header mentions
	// the name, even from another directory.
	patch := `diff --git a/x/util.go b/x/util.go
@@ -1 +1 @@
-a
+b
diff --git a/y/util.go b/y/util.go
@@ -1 +1 @@
-c
+d
`
	frag := FragmentFor(patch, "x/util.go")
	assert.Contains(t, frag, "a/x/util.go")
	assert.Contains(t, frag, "a/y/util.go")
}

func TestFragmentForKeepsAllMatchingSections(t *testing.T) {
	t.Parallel()

	frag := FragmentFor(samplePatch, "a.txt")
	assert.Contains(t, frag, "+new line")
	assert.NotContains(t, frag, "package")
}
