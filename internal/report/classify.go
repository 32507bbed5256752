package report

import (
	"context"
	"path"
	"strings"

	"github.com/prdoc/prdoc/internal/config"
	"github.com/prdoc/prdoc/internal/gitrepo"
)

// sniffBytes is how much of a blob the null-byte check inspects.
const sniffBytes = 1000

// Classifier decides the representation for each changed path. The checks
// run in a fixed precedence order: deny-list, extension allow-list,
// known-generated names, binary detection, size. A deny-list match wins
// over everything else.
type Classifier struct {
	git               *gitrepo.Git
	excludePatterns   []string
	includeExt        map[string]bool
	lockfiles         map[string]bool
	generatedSuffixes []string
	maxFileSize       int
	detectors         []binaryDetector
}

// binaryDetector is one signal in the binary-detection chain. The chain
// short-circuits on the first positive.
type binaryDetector func(ctx context.Context, base, current string, ch gitrepo.FileChange) bool

// NewClassifier builds a Classifier from the filter configuration.
func NewClassifier(cfg config.Config, git *gitrepo.Git) *Classifier {
	c := &Classifier{
		git:               git,
		excludePatterns:   cfg.ExcludePatterns,
		includeExt:        toSet(cfg.IncludeExtensions),
		lockfiles:         toSet(cfg.LockfileNames),
		generatedSuffixes: cfg.GeneratedSuffixes,
		maxFileSize:       cfg.MaxFileSize,
	}
	binaryExt := toSet(cfg.BinaryExtensions)
	c.detectors = []binaryDetector{
		func(_ context.Context, _, _ string, ch gitrepo.FileChange) bool {
			return binaryExt[strings.ToLower(path.Ext(ch.Path))]
		},
		c.numstatDetector,
		c.nullByteDetector,
	}
	return c
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}

// Excluded applies the I/O-free filters: deny-list patterns and the
// extension allow-list. A pattern with a leading "*" matches as a suffix;
// anything else matches as a substring.
func (c *Classifier) Excluded(p string) bool {
	for _, pattern := range c.excludePatterns {
		if strings.HasPrefix(pattern, "*") {
			if strings.HasSuffix(p, pattern[1:]) {
				return true
			}
		} else if strings.Contains(p, pattern) {
			return true
		}
	}
	if len(c.includeExt) > 0 && !c.includeExt[strings.ToLower(path.Ext(p))] {
		return true
	}
	return false
}

// generated reports whether the path names a lockfile or a well-known
// generated artifact.
func (c *Classifier) generated(p string) bool {
	name := strings.ToLower(path.Base(p))
	if c.lockfiles[name] {
		return true
	}
	for _, suffix := range c.generatedSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Classify determines the representation for one change. Deleted files skip
// the content checks: there is nothing to render for them.
func (c *Classifier) Classify(ctx context.Context, base, current string, ch gitrepo.FileChange) Reason {
	if c.Excluded(ch.Path) {
		return ReasonExcluded
	}
	if c.generated(ch.Path) {
		return ReasonGenerated
	}
	if ch.Kind == gitrepo.Deleted {
		return ReasonRenderable
	}
	for _, detect := range c.detectors {
		if detect(ctx, base, current, ch) {
			return ReasonBinary
		}
	}
	if c.oversized(ctx, current, ch) {
		return ReasonOversized
	}
	return ReasonRenderable
}

// numstatDetector treats git's "-" numstat sentinel as binary.
func (c *Classifier) numstatDetector(ctx context.Context, base, current string, ch gitrepo.FileChange) bool {
	ns, err := c.git.NumStatFile(ctx, base, current, ch.Path)
	if err != nil {
		return false
	}
	return ns.Binary
}

// nullByteDetector sniffs a content prefix for a null byte, the last resort
// when extension and numstat say nothing.
func (c *Classifier) nullByteDetector(ctx context.Context, _, current string, ch gitrepo.FileChange) bool {
	content, err := c.git.Show(ctx, current, ch.Path)
	if err != nil {
		return false
	}
	if len(content) > sniffBytes {
		content = content[:sniffBytes]
	}
	return strings.ContainsRune(content, '\x00')
}

// oversized applies the size limit to kinds rendered as full content.
// Modified and renamed files render as diffs, which the compactor already
// bounds.
func (c *Classifier) oversized(ctx context.Context, current string, ch gitrepo.FileChange) bool {
	if ch.Kind != gitrepo.Added && ch.Kind != gitrepo.Copied {
		return false
	}
	content, err := c.git.Show(ctx, current, ch.Path)
	if err != nil {
		return false
	}
	return len(content) > c.maxFileSize
}
