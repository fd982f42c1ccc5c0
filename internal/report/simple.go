package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/precheck/internal/model"
)

// SimpleWriter outputs human-readable text reports, suitable both for
// the terminal and the summary_report.txt file in the run directory.
//
// Design decision: plain ASCII without ANSI colors so the same output
// can be piped to a file unchanged.
type SimpleWriter struct {
	baseWriter

	// verbose adds per-viewport artifact paths and page details.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables per-viewport detail in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given
// writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the run report in human-readable format.
func (w *SimpleWriter) Write(run *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, run)
	for _, site := range run.Sites {
		w.writeSite(&sb, site)
	}
	w.writeTotals(&sb, run)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, run *model.RunReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                WEBSITE PERFORMANCE REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Run started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(sb, "Run finished: %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
	if run.OutputDir != "" {
		fmt.Fprintf(sb, "Output dir:   %s\n", run.OutputDir)
	}
	fmt.Fprintf(sb, "URLs:         %d\n\n", len(run.Sites))
}

func (w *SimpleWriter) writeSite(sb *strings.Builder, site *model.SiteReport) {
	summary := site.Summary
	if summary == nil {
		summary = model.NewSummary(site)
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "URL: %s\n", site.URL)
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if site.TimedOut {
		sb.WriteString("  Status:          TIMED OUT (partial results)\n")
	} else if site.ErrorMessage != "" {
		fmt.Fprintf(sb, "  Status:          ERROR - %s\n", site.ErrorMessage)
	}

	fmt.Fprintf(sb, "  Desktop score:   %s%s\n",
		formatScore(summary.DesktopScore), fallbackMark(site, model.ViewportDesktop))
	fmt.Fprintf(sb, "  Mobile score:    %s%s\n",
		formatScore(summary.MobileScore), fallbackMark(site, model.ViewportMobile))
	fmt.Fprintf(sb, "  Average score:   %s\n", formatAverage(summary.AverageScore))
	fmt.Fprintf(sb, "  Files generated: %d\n", summary.FilesGenerated)
	fmt.Fprintf(sb, "  Errors:          %d\n", summary.ErrorCount)
	fmt.Fprintf(sb, "  Console errors:  %d\n", summary.ConsoleErrorCount)

	if w.verbose {
		w.writeSiteDetail(sb, site)
	}
	sb.WriteString("\n")
}

// writeSiteDetail lists per-viewport artifacts and recorded errors.
func (w *SimpleWriter) writeSiteDetail(sb *strings.Builder, site *model.SiteReport) {
	for _, v := range model.Viewports() {
		vr, ok := site.Viewports[v]
		if !ok {
			continue
		}
		fmt.Fprintf(sb, "\n  [%s]\n", v.String())
		if vr.PageInfo != nil {
			fmt.Fprintf(sb, "    Title:      %s\n", vr.PageInfo.Title)
			fmt.Fprintf(sb, "    Page size:  %dx%d\n", vr.PageInfo.PageWidth, vr.PageInfo.PageHeight)
		}
		if vr.ScreenshotPath != "" {
			fmt.Fprintf(sb, "    Screenshot: %s\n", vr.ScreenshotPath)
		}
		if vr.VideoPath != "" {
			fmt.Fprintf(sb, "    Video:      %s\n", vr.VideoPath)
		}
		if vr.ConsoleLogPath != "" {
			fmt.Fprintf(sb, "    Console:    %s\n", vr.ConsoleLogPath)
		}
		for _, e := range vr.Errors {
			fmt.Fprintf(sb, "    Error:      %s\n", e)
		}
	}
}

func (w *SimpleWriter) writeTotals(sb *strings.Builder, run *model.RunReport) {
	totals := run.Totals()

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("OVERALL SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  Average desktop score: %s\n", formatAverage(totals.AverageDesktop))
	fmt.Fprintf(sb, "  Average mobile score:  %s\n", formatAverage(totals.AverageMobile))
	fmt.Fprintf(sb, "  Overall average:       %s\n", formatAverage(totals.OverallAverage))
	fmt.Fprintf(sb, "  Best score:            %s\n", formatScore(totals.BestScore))
	fmt.Fprintf(sb, "  Worst score:           %s\n", formatScore(totals.WorstScore))
	fmt.Fprintf(sb, "  Files generated:       %d\n", totals.FilesGenerated)
	fmt.Fprintf(sb, "  Errors:                %d\n", totals.ErrorCount)
	fmt.Fprintf(sb, "  Console errors:        %d\n", totals.ConsoleErrorCount)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// fallbackMark flags scores that were estimated locally instead of
// coming from the PageSpeed API.
func fallbackMark(site *model.SiteReport, v model.Viewport) string {
	if r, ok := site.PageSpeed[v.String()]; ok && r != nil && r.Fallback {
		return " [estimated]"
	}
	return ""
}
