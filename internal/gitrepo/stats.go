package gitrepo

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DiffStats holds the aggregate line statistics for a change-set.
type DiffStats struct {
	FilesChanged int
	Insertions   int
	Deletions    int
}

// NumStat is the per-path numstat result. Binary is set when git reports
// the "-" sentinel instead of line counts.
type NumStat struct {
	Insertions int
	Deletions  int
	Binary     bool
}

var (
	filesRE      = regexp.MustCompile(`(\d+) files? changed`)
	insertionsRE = regexp.MustCompile(`(\d+) insertions?\(\+\)`)
	deletionsRE  = regexp.MustCompile(`(\d+) deletions?\(-\)`)
)

// ShortStat returns the aggregate statistics between two revisions, parsed
// from git's shortstat summary line. A summary that does not match the
// expected pattern degrades to zeroed statistics rather than failing.
func (g *Git) ShortStat(ctx context.Context, base, current string) (DiffStats, error) {
	out, err := g.run(ctx, "diff", "--shortstat", base, current)
	if err != nil {
		return DiffStats{}, fmt.Errorf("git diff --shortstat %s %s: %w", base, current, err)
	}
	return parseShortStat(out), nil
}

func parseShortStat(out string) DiffStats {
	var stats DiffStats
	line := strings.TrimSpace(out)
	if m := filesRE.FindStringSubmatch(line); m != nil {
		stats.FilesChanged, _ = strconv.Atoi(m[1])
	}
	if m := insertionsRE.FindStringSubmatch(line); m != nil {
		stats.Insertions, _ = strconv.Atoi(m[1])
	}
	if m := deletionsRE.FindStringSubmatch(line); m != nil {
		stats.Deletions, _ = strconv.Atoi(m[1])
	}
	return stats
}

// NumStatFile returns the numstat for a single path between two revisions.
func (g *Git) NumStatFile(ctx context.Context, base, current, path string) (NumStat, error) {
	out, err := g.run(ctx, "diff", "--numstat", base, current, "--", path)
	if err != nil {
		return NumStat{}, fmt.Errorf("git diff --numstat %s %s -- %s: %w", base, current, path, err)
	}
	return parseNumStat(out), nil
}

// parseNumStat parses the first line of `git diff --numstat` output:
// "<added>\t<deleted>\t<path>". Binary blobs report "-\t-\t<path>".
func parseNumStat(out string) NumStat {
	line := strings.TrimSpace(out)
	if line == "" {
		return NumStat{}
	}
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	parts := strings.Split(line, "\t")
	if len(parts) < 2 {
		return NumStat{}
	}
	if parts[0] == "-" && parts[1] == "-" {
		return NumStat{Binary: true}
	}
	var ns NumStat
	ns.Insertions, _ = strconv.Atoi(parts[0])
	ns.Deletions, _ = strconv.Atoi(parts[1])
	return ns
}
