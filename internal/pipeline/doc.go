// Package pipeline orchestrates the analysis of URLs.
//
// Each enabled module (score, screenshot, record) is a Step; a Pipeline
// runs the steps of one URL in sequence, accumulating results on a
// shared SiteReport. The BatchProcessor fans a fresh pipeline out per
// URL with a configurable concurrency limit.
package pipeline
