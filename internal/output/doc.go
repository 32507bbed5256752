// Package output serializes an assembled change report into the final
// markdown document.
//
// [MarkdownWriter.Write] emits the sections in a fixed order: header
// metadata, summary, an optional changes-by-directory index, per-file
// detail grouped by change kind, and a trailing binary-files-skipped list.
// [WriteReport] handles destination selection ("-" means stdout).
package output
