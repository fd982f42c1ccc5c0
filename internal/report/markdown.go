package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/precheck/internal/model"
)

// MarkdownWriter outputs run reports in Markdown, for sharing results
// in pull requests or documentation.
//
// Design decision: the nao1215/markdown library gives type-safe tables
// and GitHub-flavored alerts without hand-assembled pipes.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the run report in Markdown format.
func (w *MarkdownWriter) Write(run *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	for _, site := range run.Sites {
		w.writeSite(md, site)
	}
	w.writeTotals(md, run)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.RunReport) {
	md.H1("Website Performance Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run started", run.StartedAt.Format("2006-01-02 15:04:05")},
			{"Run finished", run.FinishedAt.Format("2006-01-02 15:04:05")},
			{"Output directory", "`" + run.OutputDir + "`"},
			{"URLs analyzed", strconv.Itoa(len(run.Sites))},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSite(md *markdown.Markdown, site *model.SiteReport) {
	summary := site.Summary
	if summary == nil {
		summary = model.NewSummary(site)
	}

	md.H2(site.URL)
	md.PlainText("")

	if site.TimedOut {
		md.Warning("Analysis timed out; results are partial.")
		md.PlainText("")
	} else if site.ErrorMessage != "" {
		md.Cautionf("Analysis failed: %s", site.ErrorMessage)
		md.PlainText("")
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Desktop score", formatScore(summary.DesktopScore) + fallbackMark(site, model.ViewportDesktop)},
			{"Mobile score", formatScore(summary.MobileScore) + fallbackMark(site, model.ViewportMobile)},
			{"Average score", formatAverage(summary.AverageScore)},
			{"Files generated", strconv.Itoa(summary.FilesGenerated)},
			{"Errors", strconv.Itoa(summary.ErrorCount)},
			{"Console errors", strconv.Itoa(summary.ConsoleErrorCount)},
		},
	})
	md.PlainText("")

	w.writeArtifacts(md, site)
}

// writeArtifacts lists generated files per viewport.
func (w *MarkdownWriter) writeArtifacts(md *markdown.Markdown, site *model.SiteReport) {
	var items []string
	for _, v := range model.Viewports() {
		vr, ok := site.Viewports[v]
		if !ok {
			continue
		}
		if vr.ScreenshotPath != "" {
			items = append(items, v.String()+" screenshot: `"+vr.ScreenshotPath+"`")
		}
		if vr.VideoPath != "" {
			items = append(items, v.String()+" video: `"+vr.VideoPath+"`")
		}
		if vr.ConsoleLogPath != "" {
			items = append(items, v.String()+" console errors: `"+vr.ConsoleLogPath+"`")
		}
	}
	for _, p := range site.PageSpeedFiles {
		items = append(items, "pagespeed: `"+p+"`")
	}
	if len(items) == 0 {
		return
	}

	md.H3("Artifacts")
	md.PlainText("")
	md.BulletList(items...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeTotals(md *markdown.Markdown, run *model.RunReport) {
	totals := run.Totals()

	md.H2("Overall Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Average desktop score", formatAverage(totals.AverageDesktop)},
			{"Average mobile score", formatAverage(totals.AverageMobile)},
			{"Overall average", formatAverage(totals.OverallAverage)},
			{"Best score", formatScore(totals.BestScore)},
			{"Worst score", formatScore(totals.WorstScore)},
			{"Files generated", strconv.Itoa(totals.FilesGenerated)},
			{"Errors", strconv.Itoa(totals.ErrorCount)},
			{"Console errors", strconv.Itoa(totals.ConsoleErrorCount)},
		},
	})
	md.PlainText("")
}
