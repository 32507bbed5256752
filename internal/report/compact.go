package report

import (
	"fmt"
	"strings"
)

// CompactDiff collapses long runs of unchanged context lines in a unified
// diff into a single elision marker. The first maxUnchanged context lines
// of a run pass through verbatim; once a run exceeds the threshold the rest
// is suppressed and a marker naming the whole run's length is emitted when
// the run ends. Runs end on a hunk header, a changed line, or end of input.
// Hunk headers and changed lines always pass through unmodified, as do the
// file header lines before the first hunk.
//
// The markers are plain text, not diff syntax; compacted output must not be
// fed back through expecting further compaction.
func CompactDiff(diff string, maxUnchanged int) string {
	if diff == "" {
		return ""
	}
	lines := strings.Split(diff, "\n")
	out := make([]string, 0, len(lines))
	run := 0

	flush := func() {
		if run > maxUnchanged {
			out = append(out, fmt.Sprintf("... (%d lines unchanged) ...", run))
		}
		run = 0
	}

	inBody := false
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "@@"):
			flush()
			inBody = true
			out = append(out, line)
		case !inBody:
			out = append(out, line)
		case strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t"):
			run++
			if run <= maxUnchanged {
				out = append(out, line)
			}
		default:
			flush()
			out = append(out, line)
		}
	}
	flush()

	return strings.Join(out, "\n")
}
