package model

import (
	"time"
)

// PageInfo holds basic facts about a rendered page, collected after
// navigation and scrolling completed.
type PageInfo struct {
	// Title is the document title.
	Title string `json:"title"`

	// FinalURL is the location after redirects.
	FinalURL string `json:"final_url"`

	// ViewportWidth and ViewportHeight are the emulated viewport size.
	ViewportWidth  int64 `json:"viewport_width"`
	ViewportHeight int64 `json:"viewport_height"`

	// PageWidth and PageHeight are the full document dimensions, measured
	// after lazy-loaded content settled.
	PageWidth  int64 `json:"page_width"`
	PageHeight int64 `json:"page_height"`
}

// ConsoleEntry is one captured browser console message or uncaught
// exception, recorded while scrolling through the page.
type ConsoleEntry struct {
	// Level is the console severity (error, warning, ...) in upper case.
	Level string `json:"level"`

	// Message is the formatted console output or exception text.
	Message string `json:"message"`

	// Source distinguishes console API calls from thrown exceptions.
	Source string `json:"source"`

	// Timestamp is when the entry was captured.
	Timestamp time.Time `json:"timestamp"`
}

// Console entry sources.
const (
	ConsoleSourceAPI       = "console"
	ConsoleSourceException = "exception"
)

// MetricValue is a single performance metric from a PageSpeed analysis.
type MetricValue struct {
	// NumericValue is the raw metric value (milliseconds for timings).
	NumericValue float64 `json:"numeric_value,omitempty"`

	// DisplayValue is the human-readable form, e.g. "1.2 s".
	DisplayValue string `json:"display_value,omitempty"`

	// Score is the 0-1 Lighthouse audit score, when available.
	Score float64 `json:"score,omitempty"`
}

// StrategyResult is the outcome of one PageSpeed analysis strategy
// (mobile or desktop) for a URL. A result either carries a score or an
// error message, never both.
type StrategyResult struct {
	// URL is the analyzed page.
	URL string `json:"url"`

	// Strategy is "mobile" or "desktop".
	Strategy string `json:"strategy"`

	// Score is the performance score on a 0-100 scale.
	// Only meaningful when Error is empty.
	Score int `json:"score"`

	// Metrics maps metric names (first_contentful_paint, ...) to values.
	Metrics map[string]MetricValue `json:"metrics,omitempty"`

	// Fallback is true when the score came from the local analyzer
	// instead of the PageSpeed Insights API.
	Fallback bool `json:"fallback,omitempty"`

	// Note explains why the fallback analyzer was used.
	Note string `json:"note,omitempty"`

	// Error is set when the analysis failed entirely.
	Error string `json:"error,omitempty"`

	// Timestamp is when the analysis finished.
	Timestamp time.Time `json:"timestamp"`
}

// OK reports whether the analysis produced a usable score.
func (r *StrategyResult) OK() bool {
	return r != nil && r.Error == ""
}

// ViewportResult groups the artifacts captured for one URL under one
// viewport. Paths are absolute or relative to the working directory,
// exactly as written to disk. Empty paths mean the artifact was not
// produced (module disabled or failed).
type ViewportResult struct {
	// VideoPath is the recorded scrolling video, if the record module ran.
	VideoPath string `json:"video_path,omitempty"`

	// ScreenshotPath is the full-page screenshot, if the screenshot
	// module ran.
	ScreenshotPath string `json:"screenshot_path,omitempty"`

	// ConsoleLogPath is the JSON file with console entries captured
	// while scrolling before the screenshot.
	ConsoleLogPath string `json:"console_log_path,omitempty"`

	// ConsoleErrorCount is the number of captured console errors and
	// exceptions.
	ConsoleErrorCount int `json:"console_error_count"`

	// PageInfo describes the rendered page.
	PageInfo *PageInfo `json:"page_info,omitempty"`

	// Errors lists failures that occurred for this viewport. Failures
	// are recorded rather than aborting the run.
	Errors []string `json:"errors,omitempty"`
}

// AddError records a viewport-level failure.
func (vr *ViewportResult) AddError(msg string) {
	vr.Errors = append(vr.Errors, msg)
}

// SiteReport is the complete analysis result for a single URL.
type SiteReport struct {
	// URL is the analyzed page as given on the command line, after
	// normalization.
	URL string `json:"url"`

	// DateAnalyzed is when the analysis of this URL started.
	DateAnalyzed time.Time `json:"date_analyzed"`

	// Viewports holds the per-viewport capture artifacts.
	Viewports map[Viewport]*ViewportResult `json:"viewports"`

	// PageSpeed maps strategy names ("mobile", "desktop") to results.
	// PageSpeed analysis runs once per URL, not per viewport: the API
	// simulates devices itself, so repeating it per viewport would only
	// burn quota.
	PageSpeed map[string]*StrategyResult `json:"pagespeed,omitempty"`

	// PageSpeedFiles lists the report files written for this URL under
	// the pagespeed output directory.
	PageSpeedFiles []string `json:"pagespeed_files,omitempty"`

	// PerformedModules lists the pipeline steps that ran for this URL.
	PerformedModules []string `json:"performed_modules,omitempty"`

	// TimedOut is true if the analysis was cut short by cancellation.
	TimedOut bool `json:"timed_out"`

	// Error holds the first fatal error for this URL, if any.
	Error error `json:"-"`

	// ErrorMessage mirrors Error for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// Summary contains the computed per-URL summary metrics.
	Summary *Summary `json:"summary,omitempty"`
}

// NewSiteReport creates an empty report for the given URL with one
// ViewportResult per known viewport.
func NewSiteReport(url string) *SiteReport {
	viewports := make(map[Viewport]*ViewportResult, len(Viewports()))
	for _, v := range Viewports() {
		viewports[v] = &ViewportResult{}
	}
	return &SiteReport{
		URL:          url,
		DateAnalyzed: time.Now(),
		Viewports:    viewports,
		PageSpeed:    make(map[string]*StrategyResult),
	}
}

// Result returns the ViewportResult for v, creating it if missing.
func (r *SiteReport) Result(v Viewport) *ViewportResult {
	if r.Viewports == nil {
		r.Viewports = make(map[Viewport]*ViewportResult)
	}
	vr, ok := r.Viewports[v]
	if !ok {
		vr = &ViewportResult{}
		r.Viewports[v] = vr
	}
	return vr
}

// Score returns the PageSpeed score for the given strategy.
// The second return value is false when no usable score exists.
func (r *SiteReport) Score(strategy string) (int, bool) {
	res, ok := r.PageSpeed[strategy]
	if !ok || !res.OK() {
		return 0, false
	}
	return res.Score, true
}
