// Prdoc renders the changes between two git revisions as a markdown report.
//
// It enumerates changed files, shows full content for new files and
// compacted unified diffs for modified files, skips binary and
// auto-generated files with placeholders, and writes summary statistics.
//
// Usage:
//
//	prdoc                           # auto-detect base branch, write changes.md
//	prdoc --base main               # compare against merge base with main
//	prdoc --base-commit abc123      # compare against a specific commit
//	prdoc --base develop -o pr.md   # custom output file
//	prdoc --include-extensions .py,.ts --exclude-patterns "dist/,*.lock"
package main
