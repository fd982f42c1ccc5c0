// Package main provides the entry point for the precheck CLI.
//
// precheck drives headless Chrome to collect website performance data
// before a release: PageSpeed Insights scores, full-page screenshots
// with console-error capture, and scrolling videos.
//
// Usage:
//
//	precheck run https://example.com
//	precheck run --urls example.com,example.org --score --screenshot
//
// See --help for all available options.
package main

// main is the entry point for precheck.
func main() {
	Execute()
}
