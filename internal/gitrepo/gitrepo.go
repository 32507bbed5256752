package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Sentinel errors for the failure classes callers distinguish.
var (
	// ErrInvalidRef indicates a user-supplied reference does not exist.
	ErrInvalidRef = errors.New("invalid reference")
	// ErrUnresolvable indicates no base reference could be determined.
	ErrUnresolvable = errors.New("unresolvable reference")
	// ErrDiffUnavailable indicates a change list could not be computed.
	ErrDiffUnavailable = errors.New("diff unavailable")
)

// Runner executes a git command and returns its stdout.
type Runner func(ctx context.Context, args ...string) (string, error)

// Git issues read-only queries against a repository.
type Git struct {
	run Runner
}

// New returns a Git that shells out to the git binary in the current
// working directory.
func New() *Git {
	return &Git{run: execGit}
}

// NewWithRunner returns a Git backed by a custom runner. Used in tests.
func NewWithRunner(run Runner) *Git {
	return &Git{run: run}
}

func execGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// IsRepo reports whether the working directory is inside a git repository.
func (g *Git) IsRepo(ctx context.Context) bool {
	_, err := g.run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// ResolveCommit resolves a reference to a full commit hash.
func (g *Git) ResolveCommit(ctx context.Context, ref string) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidRef, ref, err)
	}
	return strings.TrimSpace(out), nil
}

// ShortHash returns the abbreviated hash for a reference.
func (g *Git) ShortHash(ctx context.Context, ref string) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--short", ref)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidRef, ref, err)
	}
	return strings.TrimSpace(out), nil
}

// CurrentBranch returns the checked-out branch name. On a detached HEAD it
// falls back to "tag:<name>" for an exactly-matching tag, then to
// "commit:<short>".
func (g *Git) CurrentBranch(ctx context.Context) string {
	out, err := g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if name := strings.TrimSpace(out); err == nil && name != "" && name != "HEAD" {
		return name
	}
	out, err = g.run(ctx, "describe", "--tags", "--exact-match")
	if err == nil {
		return "tag:" + strings.TrimSpace(out)
	}
	out, err = g.run(ctx, "rev-parse", "--short", "HEAD")
	if err == nil {
		return "commit:" + strings.TrimSpace(out)
	}
	return "unknown"
}

// MergeBase returns the common ancestor of two references.
func (g *Git) MergeBase(ctx context.Context, a, b string) (string, error) {
	out, err := g.run(ctx, "merge-base", a, b)
	if err != nil {
		return "", fmt.Errorf("merge-base %s %s: %w", a, b, err)
	}
	base := strings.TrimSpace(out)
	if base == "" {
		return "", fmt.Errorf("merge-base %s %s: no common ancestor", a, b)
	}
	return base, nil
}

// Show returns the content of a path at a revision.
func (g *Git) Show(ctx context.Context, rev, path string) (string, error) {
	out, err := g.run(ctx, "show", rev+":"+path)
	if err != nil {
		return "", fmt.Errorf("git show %s:%s: %w", rev, path, err)
	}
	return out, nil
}

// DiffFile returns the unified diff for one path between two revisions.
// For renames oldPath names the source side; pass "" otherwise.
func (g *Git) DiffFile(ctx context.Context, base, current, path, oldPath string, contextLines int) (string, error) {
	args := []string{"diff", fmt.Sprintf("--unified=%d", contextLines), base, current, "--"}
	if oldPath != "" {
		args = append(args, oldPath)
	}
	args = append(args, path)
	out, err := g.run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("git diff %s %s -- %s: %w", base, current, path, err)
	}
	return out, nil
}
