// Package vcs provides revision resolution, diff computation, and
// historical file access for a git working tree by shelling out to the
// git binary.
package vcs

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Git runs git commands against one repository working directory.
type Git struct {
	dir string
}

// Open returns a Git handle for the repository containing dir. It fails
// when dir is not inside a git working tree.
func Open(dir string) (*Git, error) {
	g := &Git{dir: dir}
	if _, err := g.output("rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("not a git repository: %s", dir)
	}
	return g, nil
}

// Root returns the absolute path of the repository's top-level directory.
func (g *Git) Root() (string, error) {
	return g.output("rev-parse", "--show-toplevel")
}

// ResolveCommit resolves a revision expression to a full commit hash.
func (g *Git) ResolveCommit(ref string) (string, error) {
	out, err := g.output("rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("cannot resolve revision %q: %w", ref, err)
	}
	return out, nil
}

// IsAncestor reports whether ancestor is reachable from descendant.
func (g *Git) IsAncestor(ancestor, descendant string) (bool, error) {
	cmd := exec.Command("git", "-C", g.dir, "merge-base", "--is-ancestor", ancestor, descendant)
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, fmt.Errorf("git merge-base --is-ancestor: %w", err)
}

// Diff computes the unified diff for a commit range. An empty start
// diffs the working tree against HEAD; a start alone diffs the working
// tree against that revision; start and end together diff the two
// revisions; an end alone diffs it against HEAD.
func (g *Git) Diff(start, end string) (string, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	switch {
	case start == "" && end == "":
		args = append(args, "HEAD")
	case start != "" && end == "":
		args = append(args, start)
	case start != "" && end != "":
		args = append(args, start, end)
	default:
		args = append(args, "HEAD", end)
	}
	return g.raw(args...)
}

// ShowFile returns the content of path as of the given revision. The
// path must be relative to the repository root.
func (g *Git) ShowFile(ref, path string) ([]byte, error) {
	out, err := g.raw("show", ref+":"+path)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// output runs git with the repository directory pinned and returns
// stdout with surrounding whitespace trimmed.
func (g *Git) output(args ...string) (string, error) {
	out, err := g.raw(args...)
	return strings.TrimSpace(out), err
}

// raw is output without the trimming, for commands whose stdout is file
// or patch content.
func (g *Git) raw(args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", g.dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}
