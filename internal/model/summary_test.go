package model

import (
	"math"
	"testing"
)

func TestNewSummary(t *testing.T) {
	t.Parallel()

	t.Run("counts files and errors across viewports", func(t *testing.T) {
		t.Parallel()
		r := NewSiteReport("https://example.com")
		desktop := r.Result(ViewportDesktop)
		desktop.VideoPath = "v.mp4"
		desktop.ScreenshotPath = "s.png"
		desktop.ConsoleLogPath = "c.json"
		desktop.ConsoleErrorCount = 3
		mobile := r.Result(ViewportMobile)
		mobile.ScreenshotPath = "m.png"
		mobile.AddError("navigation failed")
		r.PageSpeedFiles = []string{"p.json", "p.txt"}

		s := NewSummary(r)

		if s.FilesGenerated != 6 {
			t.Errorf("expected 6 files, got %d", s.FilesGenerated)
		}
		if s.ErrorCount != 1 {
			t.Errorf("expected 1 error, got %d", s.ErrorCount)
		}
		if s.ConsoleErrorCount != 3 {
			t.Errorf("expected 3 console errors, got %d", s.ConsoleErrorCount)
		}
	})

	t.Run("extracts scores and average", func(t *testing.T) {
		t.Parallel()
		r := NewSiteReport("https://example.com")
		r.PageSpeed["desktop"] = &StrategyResult{Strategy: "desktop", Score: 90}
		r.PageSpeed["mobile"] = &StrategyResult{Strategy: "mobile", Score: 70}

		s := NewSummary(r)

		if s.DesktopScore == nil || *s.DesktopScore != 90 {
			t.Errorf("expected desktop score 90, got %v", s.DesktopScore)
		}
		if s.MobileScore == nil || *s.MobileScore != 70 {
			t.Errorf("expected mobile score 70, got %v", s.MobileScore)
		}
		if s.AverageScore == nil || *s.AverageScore != 80 {
			t.Errorf("expected average 80, got %v", s.AverageScore)
		}
	})

	t.Run("single score averages to itself", func(t *testing.T) {
		t.Parallel()
		r := NewSiteReport("https://example.com")
		r.PageSpeed["mobile"] = &StrategyResult{Strategy: "mobile", Score: 55}

		s := NewSummary(r)

		if s.DesktopScore != nil {
			t.Error("expected no desktop score")
		}
		if s.AverageScore == nil || *s.AverageScore != 55 {
			t.Errorf("expected average 55, got %v", s.AverageScore)
		}
	})

	t.Run("no scores means nil average", func(t *testing.T) {
		t.Parallel()
		r := NewSiteReport("https://example.com")

		s := NewSummary(r)

		if s.AverageScore != nil {
			t.Errorf("expected nil average, got %v", *s.AverageScore)
		}
	})

	t.Run("site level error is counted", func(t *testing.T) {
		t.Parallel()
		r := NewSiteReport("https://example.com")
		r.ErrorMessage = "browser not found"

		if s := NewSummary(r); s.ErrorCount != 1 {
			t.Errorf("expected 1 error, got %d", s.ErrorCount)
		}
	})
}

func TestRunReportTotals(t *testing.T) {
	t.Parallel()

	site1 := NewSiteReport("https://a.example")
	site1.PageSpeed["desktop"] = &StrategyResult{Strategy: "desktop", Score: 90}
	site1.PageSpeed["mobile"] = &StrategyResult{Strategy: "mobile", Score: 60}
	site1.Result(ViewportDesktop).ScreenshotPath = "a.png"
	site1.Summary = NewSummary(site1)

	site2 := NewSiteReport("https://b.example")
	site2.PageSpeed["desktop"] = &StrategyResult{Strategy: "desktop", Score: 40}
	site2.Result(ViewportMobile).AddError("timeout")
	site2.Summary = NewSummary(site2)

	run := &RunReport{Sites: []*SiteReport{site1, site2}}
	totals := run.Totals()

	if totals.URLCount != 2 {
		t.Errorf("expected 2 URLs, got %d", totals.URLCount)
	}
	if totals.FilesGenerated != 1 {
		t.Errorf("expected 1 file, got %d", totals.FilesGenerated)
	}
	if totals.ErrorCount != 1 {
		t.Errorf("expected 1 error, got %d", totals.ErrorCount)
	}
	if totals.BestScore == nil || *totals.BestScore != 90 {
		t.Errorf("expected best score 90, got %v", totals.BestScore)
	}
	if totals.WorstScore == nil || *totals.WorstScore != 40 {
		t.Errorf("expected worst score 40, got %v", totals.WorstScore)
	}
	if totals.AverageDesktop == nil || *totals.AverageDesktop != 65 {
		t.Errorf("expected desktop average 65, got %v", totals.AverageDesktop)
	}
	if totals.AverageMobile == nil || *totals.AverageMobile != 60 {
		t.Errorf("expected mobile average 60, got %v", totals.AverageMobile)
	}
	// overall average over [90 60 40]
	want := (90.0 + 60.0 + 40.0) / 3.0
	if totals.OverallAverage == nil || math.Abs(*totals.OverallAverage-want) > 1e-9 {
		t.Errorf("expected overall average %.2f, got %v", want, totals.OverallAverage)
	}
}

func TestRunReportTotalsEmpty(t *testing.T) {
	t.Parallel()

	run := &RunReport{}
	totals := run.Totals()

	if totals.URLCount != 0 || totals.FilesGenerated != 0 {
		t.Error("expected zero totals for empty run")
	}
	if totals.OverallAverage != nil || totals.BestScore != nil || totals.WorstScore != nil {
		t.Error("expected nil aggregates for empty run")
	}
}

// Totals must work even when a site report has no precomputed Summary.
func TestRunReportTotalsComputesMissingSummary(t *testing.T) {
	t.Parallel()

	site := NewSiteReport("https://a.example")
	site.PageSpeed["mobile"] = &StrategyResult{Strategy: "mobile", Score: 50}

	run := &RunReport{Sites: []*SiteReport{site}}
	totals := run.Totals()

	if totals.AverageMobile == nil || *totals.AverageMobile != 50 {
		t.Errorf("expected mobile average 50, got %v", totals.AverageMobile)
	}
}
