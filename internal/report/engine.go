package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/prdoc/prdoc/internal/config"
	"github.com/prdoc/prdoc/internal/gitrepo"
)

// Engine runs the full pipeline: resolve, enumerate, classify, fetch,
// compact, assemble.
type Engine struct {
	git *gitrepo.Git
	cfg config.Config
	log *log.Logger
}

// New returns an Engine over the given repository and configuration.
func New(git *gitrepo.Git, cfg config.Config, logger *log.Logger) *Engine {
	return &Engine{git: git, cfg: cfg, log: logger}
}

// Run produces the report for the revisions named in opts. Resolution and
// enumeration failures abort the run; everything after that degrades per
// file.
func (e *Engine) Run(ctx context.Context, opts gitrepo.ResolveOptions) (*Report, error) {
	resolved, err := gitrepo.Resolve(ctx, e.git, opts)
	if err != nil {
		return nil, err
	}
	if resolved.AutoDetected {
		e.log.Info("auto-detected base branch", "base", resolved.BaseRef)
	}
	e.log.Debug("resolved revisions", "base", resolved.BaseID, "current", resolved.CurrentID)

	changes, err := e.git.Changes(ctx, resolved.BaseID, resolved.CurrentID)
	if err != nil {
		return nil, err
	}
	e.log.Info("enumerated changes", "files", len(changes))

	classifier := NewClassifier(e.cfg, e.git)

	// Deny-list and allow-list filtering needs no content inspection, so
	// excluded paths drop out before any per-file git traffic.
	kept := make([]gitrepo.FileChange, 0, len(changes))
	for _, ch := range changes {
		if classifier.Excluded(ch.Path) {
			e.log.Debug("excluded by filter", "path", ch.Path)
			continue
		}
		kept = append(kept, ch)
	}

	details := make([]FileDetail, len(kept))
	g, gctx := errgroup.WithContext(ctx)
	workers := e.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)
	for i, ch := range kept {
		i, ch := i, ch
		g.Go(func() error {
			details[i] = e.renderFile(gctx, classifier, resolved, ch)
			// Per-file failures become placeholder blocks; never cancel
			// sibling work.
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(details, func(i, j int) bool {
		return details[i].Change.Path < details[j].Change.Path
	})

	stats, err := e.git.ShortStat(ctx, resolved.BaseID, resolved.CurrentID)
	if err != nil {
		e.log.Warn("could not read diff statistics", "err", err)
		stats = gitrepo.DiffStats{}
	}

	return assemble(resolved, details, stats), nil
}

// renderFile classifies one change and produces its content blocks.
func (e *Engine) renderFile(ctx context.Context, c *Classifier, res gitrepo.Resolved, ch gitrepo.FileChange) FileDetail {
	d := FileDetail{Change: ch, Reason: c.Classify(ctx, res.BaseID, res.CurrentID, ch)}

	switch d.Reason {
	case ReasonExcluded:
		return d
	case ReasonGenerated:
		d.Blocks = placeholder("Auto-generated file (skipped for brevity)")
		return d
	case ReasonBinary:
		d.Blocks = placeholder("Binary file (contents not shown)")
		return d
	case ReasonOversized:
		d.Blocks = placeholder(fmt.Sprintf("File exceeds maximum size limit of %d bytes", e.cfg.MaxFileSize))
		return d
	}

	switch ch.Kind {
	case gitrepo.Added, gitrepo.Copied:
		content, err := e.git.Show(ctx, res.CurrentID, ch.Path)
		if err != nil {
			e.log.Warn("could not read file content", "path", ch.Path, "err", err)
			d.Blocks = placeholder("Could not read file content")
			return d
		}
		d.Blocks = []Block{{Kind: BlockCode, Lang: LanguageFor(ch.Path), Text: content}}
	case gitrepo.Deleted:
		d.Blocks = placeholder("File was deleted")
	case gitrepo.Modified, gitrepo.Renamed:
		diff, err := e.git.DiffFile(ctx, res.BaseID, res.CurrentID, ch.Path, ch.OldPath, e.cfg.ContextLines)
		if err != nil {
			e.log.Warn("could not generate diff", "path", ch.Path, "err", err)
			d.Blocks = placeholder("Could not generate diff")
			return d
		}
		if !strings.Contains(diff, "@@") {
			if ch.Kind == gitrepo.Renamed {
				d.RenamedOnly = true
				return d
			}
			d.Blocks = placeholder("No diff available")
			return d
		}
		d.Blocks = []Block{{Kind: BlockCode, Lang: "diff", Text: CompactDiff(diff, e.cfg.MaxUnchanged)}}
	}
	return d
}

func placeholder(text string) []Block {
	return []Block{{Kind: BlockPlaceholder, Text: text}}
}

// assemble computes counts and the binary trailer and fills in the report
// metadata. details must already be sorted by path.
func assemble(res gitrepo.Resolved, details []FileDetail, stats gitrepo.DiffStats) *Report {
	r := &Report{
		BaseRef:      res.BaseRef,
		BaseShort:    res.BaseShort,
		CurrentRef:   res.CurrentRef,
		CurrentShort: res.CurrentShort,
		Branch:       res.Branch,
		GeneratedAt:  time.Now(),
		Stats:        stats,
		Files:        details,
	}
	for _, d := range details {
		switch d.Change.Kind {
		case gitrepo.Added:
			r.Counts.Added++
		case gitrepo.Modified:
			r.Counts.Modified++
		case gitrepo.Deleted:
			r.Counts.Deleted++
		case gitrepo.Renamed:
			r.Counts.Renamed++
		case gitrepo.Copied:
			r.Counts.Copied++
		}
		if d.Reason == ReasonBinary {
			r.BinarySkipped = append(r.BinarySkipped, d.Change.Path)
		}
	}
	sort.Strings(r.BinarySkipped)
	return r
}
