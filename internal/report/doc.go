// Package report renders run results in multiple formats.
//
// Three writers share the Writer interface: SimpleWriter produces the
// plain-text summary shown in the terminal and written as
// summary_report.txt, JSONWriter emits machine-readable output, and
// MarkdownWriter renders a shareable document. MultiWriter fans one
// report out to several destinations.
package report
