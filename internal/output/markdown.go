package output

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/prdoc/prdoc/internal/gitrepo"
	"github.com/prdoc/prdoc/internal/report"
)

// MarkdownWriter renders the report as a markdown document.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, r *report.Report) error {
	fmt.Fprintf(w, "# Branch Changes: %s\n\n", r.Branch)
	fmt.Fprintf(w, "**Base**: %s (commit %s)\n", r.BaseRef, r.BaseShort)
	fmt.Fprintf(w, "**Current**: %s (commit %s)\n", r.Branch, r.CurrentShort)
	fmt.Fprintf(w, "**Generated**: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	if len(r.Files) == 0 {
		fmt.Fprintln(w, "No changes found between the specified references.")
		return nil
	}

	m.writeSummary(w, r)
	m.writeDirectoryIndex(w, r)
	m.writeNewFiles(w, r)
	m.writeModifiedFiles(w, r)
	m.writeOtherChanges(w, r)
	m.writeBinaryTrailer(w, r)

	return nil
}

func (m *MarkdownWriter) writeSummary(w io.Writer, r *report.Report) {
	fmt.Fprintf(w, "## Summary\n\n")

	var parts []string
	if r.Counts.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", r.Counts.Added))
	}
	if r.Counts.Modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", r.Counts.Modified))
	}
	if r.Counts.Deleted > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", r.Counts.Deleted))
	}
	if r.Counts.Renamed > 0 {
		parts = append(parts, fmt.Sprintf("%d renamed", r.Counts.Renamed))
	}
	if r.Counts.Copied > 0 {
		parts = append(parts, fmt.Sprintf("%d copied", r.Counts.Copied))
	}
	fmt.Fprintf(w, "- Files changed: %d (%s)\n", r.Counts.Total(), strings.Join(parts, ", "))

	if r.Stats.Insertions > 0 {
		fmt.Fprintf(w, "- Lines added: +%d\n", r.Stats.Insertions)
	}
	if r.Stats.Deletions > 0 {
		fmt.Fprintf(w, "- Lines removed: -%d\n", r.Stats.Deletions)
	}
	fmt.Fprintf(w, "- Commit range: %s...%s\n\n", r.BaseShort, r.CurrentShort)
}

// writeDirectoryIndex groups files by the parent directory of their new
// path. The index is emitted only when the change-set spans more than one
// directory.
func (m *MarkdownWriter) writeDirectoryIndex(w io.Writer, r *report.Report) {
	groups := make(map[string]int)
	for _, d := range r.Files {
		groups[directoryKey(d.Change.Path)]++
	}
	if len(groups) < 2 {
		return
	}

	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	fmt.Fprintf(w, "## Changes by Directory\n\n")
	for _, dir := range dirs {
		label := dir + "/"
		if dir == "root" {
			label = "root"
		}
		fmt.Fprintf(w, "### `%s` (%d files)\n", label, groups[dir])
	}
	fmt.Fprintln(w)
}

// directoryKey derives the group key from a path. Renames group by their
// destination; top-level files use the "root" sentinel.
func directoryKey(p string) string {
	dir := path.Dir(p)
	if dir == "." {
		return "root"
	}
	return dir
}

func (m *MarkdownWriter) writeNewFiles(w io.Writer, r *report.Report) {
	files := r.ByKind(gitrepo.Added, gitrepo.Copied)
	if len(files) == 0 {
		return
	}

	fmt.Fprintf(w, "## New Files\n\n")
	for _, d := range files {
		if d.Change.Kind == gitrepo.Copied {
			fmt.Fprintf(w, "### %s (copied from %s)\n\n", d.Change.Path, d.Change.OldPath)
		} else {
			fmt.Fprintf(w, "### %s\n\n", d.Change.Path)
		}
		writeBlocks(w, d.Blocks)
	}
}

func (m *MarkdownWriter) writeModifiedFiles(w io.Writer, r *report.Report) {
	files := r.ByKind(gitrepo.Modified)
	if len(files) == 0 {
		return
	}

	fmt.Fprintf(w, "## Modified Files\n\n")
	for _, d := range files {
		fmt.Fprintf(w, "### %s\n\n", d.Change.Path)
		writeBlocks(w, d.Blocks)
	}
}

func (m *MarkdownWriter) writeOtherChanges(w io.Writer, r *report.Report) {
	deleted := r.ByKind(gitrepo.Deleted)
	renamed := r.ByKind(gitrepo.Renamed)
	if len(deleted) == 0 && len(renamed) == 0 {
		return
	}

	fmt.Fprintf(w, "## Other Changes\n\n")

	if len(deleted) > 0 {
		fmt.Fprintf(w, "### Deleted Files\n\n")
		for _, d := range deleted {
			fmt.Fprintf(w, "- **%s** - File removed\n", d.Change.Path)
		}
		fmt.Fprintln(w)
	}

	if len(renamed) > 0 {
		fmt.Fprintf(w, "### Renamed Files\n\n")
		for _, d := range renamed {
			if d.RenamedOnly {
				fmt.Fprintf(w, "- **%s** → **%s** (renamed only)\n", d.Change.OldPath, d.Change.Path)
			} else {
				fmt.Fprintf(w, "- **%s** → **%s** (with modifications)\n", d.Change.OldPath, d.Change.Path)
			}
		}
		fmt.Fprintln(w)
		for _, d := range renamed {
			if len(d.Blocks) == 0 {
				continue
			}
			fmt.Fprintf(w, "### %s → %s\n\n", d.Change.OldPath, d.Change.Path)
			writeBlocks(w, d.Blocks)
		}
	}
}

func (m *MarkdownWriter) writeBinaryTrailer(w io.Writer, r *report.Report) {
	if len(r.BinarySkipped) == 0 {
		return
	}
	fmt.Fprintf(w, "## Binary Files (Skipped)\n\n")
	for _, p := range r.BinarySkipped {
		fmt.Fprintf(w, "- `%s`\n", p)
	}
}

func writeBlocks(w io.Writer, blocks []report.Block) {
	for _, b := range blocks {
		switch b.Kind {
		case report.BlockCode:
			fmt.Fprintf(w, "```%s\n%s\n```\n\n", b.Lang, strings.TrimSuffix(b.Text, "\n"))
		case report.BlockPlaceholder:
			fmt.Fprintf(w, "*%s*\n\n", b.Text)
		default:
			fmt.Fprintf(w, "%s\n\n", b.Text)
		}
	}
}
