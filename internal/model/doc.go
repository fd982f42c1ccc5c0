// Package model defines the data structures shared across precheck.
//
// The central type is SiteReport, which accumulates everything collected
// for a single URL: per-viewport capture artifacts (video, screenshot,
// console log), PageSpeed analysis results per strategy, and a computed
// Summary. A RunReport groups the SiteReports of one timestamped run and
// provides aggregate totals for the final console table and summary files.
//
// Design decision: report data structures live here, separate from the
// packages that produce them (pipeline) and consume them (report, database),
// so that output formats and storage can evolve without touching capture
// logic.
package model
