package gitrepo

import (
	"context"
	"fmt"
	"strings"
)

// ChangeKind classifies a path-level change between two revisions.
type ChangeKind string

const (
	Added    ChangeKind = "added"
	Modified ChangeKind = "modified"
	Deleted  ChangeKind = "deleted"
	Renamed  ChangeKind = "renamed"
	Copied   ChangeKind = "copied"
)

// FileChange is one path-level change reported by git. Path is relative to
// the repository root with forward slashes. OldPath is set only for renames
// and copies.
type FileChange struct {
	Kind    ChangeKind
	Path    string
	OldPath string
}

// Changes enumerates the file-level changes between two resolved revisions,
// in the order git reports them.
func (g *Git) Changes(ctx context.Context, base, current string) ([]FileChange, error) {
	out, err := g.run(ctx, "diff", "--name-status", base, current)
	if err != nil {
		return nil, fmt.Errorf("%w: git diff --name-status %s %s: %v", ErrDiffUnavailable, base, current, err)
	}
	return parseNameStatus(out), nil
}

// parseNameStatus parses `git diff --name-status` output. Each line is a
// status letter (with an optional similarity score for R/C), then
// tab-separated paths. Unrecognized status letters are dropped.
func parseNameStatus(out string) []FileChange {
	var changes []FileChange
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		status := parts[0]
		switch {
		case strings.HasPrefix(status, "A") && len(parts) >= 2:
			changes = append(changes, FileChange{Kind: Added, Path: parts[1]})
		case strings.HasPrefix(status, "M") && len(parts) >= 2:
			changes = append(changes, FileChange{Kind: Modified, Path: parts[1]})
		case strings.HasPrefix(status, "D") && len(parts) >= 2:
			changes = append(changes, FileChange{Kind: Deleted, Path: parts[1]})
		case strings.HasPrefix(status, "R") && len(parts) >= 3:
			changes = append(changes, FileChange{Kind: Renamed, Path: parts[2], OldPath: parts[1]})
		case strings.HasPrefix(status, "C") && len(parts) >= 3:
			changes = append(changes, FileChange{Kind: Copied, Path: parts[2], OldPath: parts[1]})
		}
	}
	return changes
}
