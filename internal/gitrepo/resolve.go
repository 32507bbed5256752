package gitrepo

import (
	"context"
	"fmt"
)

// DefaultBaseCandidates is the ordered list of branches tried when no base
// reference is supplied.
var DefaultBaseCandidates = []string{"main", "master", "develop"}

// ResolveOptions names the references to compare. Exactly one of Base /
// BaseCommit may be set; with neither, the base branch is auto-detected
// from Candidates.
type ResolveOptions struct {
	Base       string // base branch; comparison base is merge-base(Base, Current)
	BaseCommit string // explicit base commit, used as-is
	Current    string // defaults to HEAD
	Candidates []string
}

// Resolved carries the concrete revisions a comparison runs against. All
// downstream queries use BaseID and CurrentID, never the symbolic refs.
type Resolved struct {
	BaseRef      string
	BaseID       string
	BaseShort    string
	CurrentRef   string
	CurrentID    string
	CurrentShort string
	Branch       string
	AutoDetected bool
}

// Resolve turns the supplied references into commit hashes. An explicit base
// branch is resolved through its merge base with the current revision; an
// explicit base commit is verified and used directly; with neither, each
// candidate branch is tried in order and the first with a common ancestor
// wins.
func Resolve(ctx context.Context, g *Git, opts ResolveOptions) (Resolved, error) {
	currentRef := opts.Current
	if currentRef == "" {
		currentRef = "HEAD"
	}
	currentID, err := g.ResolveCommit(ctx, currentRef)
	if err != nil {
		return Resolved{}, err
	}

	r := Resolved{
		CurrentRef: currentRef,
		CurrentID:  currentID,
		Branch:     g.CurrentBranch(ctx),
	}

	switch {
	case opts.BaseCommit != "":
		id, err := g.ResolveCommit(ctx, opts.BaseCommit)
		if err != nil {
			return Resolved{}, err
		}
		r.BaseRef, r.BaseID = opts.BaseCommit, id
	case opts.Base != "":
		if _, err := g.ResolveCommit(ctx, opts.Base); err != nil {
			return Resolved{}, err
		}
		id, err := g.MergeBase(ctx, opts.Base, currentID)
		if err != nil {
			return Resolved{}, fmt.Errorf("%w: no common ancestor with %q: %v", ErrUnresolvable, opts.Base, err)
		}
		r.BaseRef, r.BaseID = opts.Base, id
	default:
		candidates := opts.Candidates
		if len(candidates) == 0 {
			candidates = DefaultBaseCandidates
		}
		for _, branch := range candidates {
			id, err := g.MergeBase(ctx, branch, currentID)
			if err == nil {
				r.BaseRef, r.BaseID = branch, id
				r.AutoDetected = true
				break
			}
		}
		if r.BaseID == "" {
			return Resolved{}, fmt.Errorf("%w: no base branch found among %v; specify --base or --base-commit",
				ErrUnresolvable, candidates)
		}
	}

	if short, err := g.ShortHash(ctx, r.BaseID); err == nil {
		r.BaseShort = short
	}
	if short, err := g.ShortHash(ctx, r.CurrentID); err == nil {
		r.CurrentShort = short
	}
	return r, nil
}
