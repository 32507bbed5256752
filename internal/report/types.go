package report

import (
	"time"

	"github.com/prdoc/prdoc/internal/gitrepo"
)

// Reason is the classification decision for one changed path. It determines
// which representation the document shows: full content, a compacted diff,
// or a placeholder.
type Reason string

const (
	// ReasonRenderable means full content or a diff is shown.
	ReasonRenderable Reason = "renderable"
	// ReasonExcluded means the path matched a deny-list pattern or fell
	// outside the extension allow-list; it is omitted from the document.
	ReasonExcluded Reason = "excluded"
	// ReasonGenerated means the path is a lockfile or generated artifact;
	// it appears with an auto-generated placeholder.
	ReasonGenerated Reason = "generated"
	// ReasonBinary means the blob is binary; it appears with a placeholder
	// and in the binary-files trailer.
	ReasonBinary Reason = "binary"
	// ReasonOversized means the content exceeds the configured maximum.
	ReasonOversized Reason = "oversized"
)

// BlockKind distinguishes the content block forms a file detail can carry.
type BlockKind int

const (
	// BlockText is a plain paragraph.
	BlockText BlockKind = iota
	// BlockCode is a fenced code block with a language tag.
	BlockCode
	// BlockPlaceholder is an emphasized one-line message shown instead of
	// content.
	BlockPlaceholder
)

// Block is one content block in a file's rendered detail.
type Block struct {
	Kind BlockKind
	Lang string
	Text string
}

// FileDetail is the fully classified and rendered form of one FileChange.
type FileDetail struct {
	Change      gitrepo.FileChange
	Reason      Reason
	RenamedOnly bool // rename with no content change
	Blocks      []Block
}

// Counts holds the per-kind change counts for the summary section.
type Counts struct {
	Added    int
	Modified int
	Deleted  int
	Renamed  int
	Copied   int
}

// Total returns the number of changes across all kinds.
func (c Counts) Total() int {
	return c.Added + c.Modified + c.Deleted + c.Renamed + c.Copied
}

// Report is the assembled document model handed to the output writer.
// Files is sorted by path; BinarySkipped is sorted.
type Report struct {
	BaseRef      string
	BaseShort    string
	CurrentRef   string
	CurrentShort string
	Branch       string
	GeneratedAt  time.Time

	Counts        Counts
	Stats         gitrepo.DiffStats
	Files         []FileDetail
	BinarySkipped []string
}

// ByKind returns the file details of one change kind, preserving the
// report's path order.
func (r *Report) ByKind(kinds ...gitrepo.ChangeKind) []FileDetail {
	var out []FileDetail
	for _, d := range r.Files {
		for _, k := range kinds {
			if d.Change.Kind == k {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
