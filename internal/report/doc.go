// Package report implements the change-report pipeline: classifying each
// changed path, fetching its content or unified diff, compacting long
// unchanged runs, and assembling the results into a [Report].
//
// [Engine.Run] drives the full pipeline against a resolved revision pair.
// Per-file work is independent and runs on a bounded worker group; a single
// file's fetch failure degrades to a placeholder block and never aborts the
// run. Only revision resolution and change enumeration failures are fatal.
package report
