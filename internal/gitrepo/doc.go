// Package gitrepo queries a local git repository by shelling out to the git
// binary. It is the only component that talks to git.
//
// All queries are read-only: reference resolution, merge-base discovery,
// name-status change enumeration between two revisions, blob retrieval,
// per-path unified diffs, and diff statistics. Callers resolve symbolic
// references to commit hashes up front ([Git.ResolveCommit], [Git.MergeBase])
// and pass only resolved hashes to the comparison queries.
//
// Errors from user-supplied references wrap [ErrInvalidRef]; failed base
// auto-detection wraps [ErrUnresolvable]; enumeration failures wrap
// [ErrDiffUnavailable].
package gitrepo
