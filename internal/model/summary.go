package model

import "time"

// Summary holds the per-URL numbers shown in the results table.
// Score pointers are nil when the corresponding analysis produced no
// usable score; the table renders those as "N/A".
type Summary struct {
	// DesktopScore is the PageSpeed score for the desktop strategy.
	DesktopScore *int `json:"desktop_score,omitempty"`

	// MobileScore is the PageSpeed score for the mobile strategy.
	MobileScore *int `json:"mobile_score,omitempty"`

	// AverageScore is the mean of the available scores.
	AverageScore *float64 `json:"average_score,omitempty"`

	// FilesGenerated counts artifacts written to disk for this URL.
	FilesGenerated int `json:"files_generated"`

	// ErrorCount counts failures recorded during this URL's analysis.
	ErrorCount int `json:"errors_count"`

	// ConsoleErrorCount counts browser console errors captured across
	// all viewports.
	ConsoleErrorCount int `json:"console_errors_count"`
}

// NewSummary computes the summary metrics for a site report.
// It counts generated files, accumulated errors, and extracts the
// PageSpeed scores per strategy.
func NewSummary(r *SiteReport) *Summary {
	s := &Summary{}

	for _, v := range Viewports() {
		vr, ok := r.Viewports[v]
		if !ok {
			continue
		}
		if vr.VideoPath != "" {
			s.FilesGenerated++
		}
		if vr.ScreenshotPath != "" {
			s.FilesGenerated++
		}
		if vr.ConsoleLogPath != "" {
			s.FilesGenerated++
		}
		s.ErrorCount += len(vr.Errors)
		s.ConsoleErrorCount += vr.ConsoleErrorCount
	}
	s.FilesGenerated += len(r.PageSpeedFiles)

	if r.ErrorMessage != "" {
		s.ErrorCount++
	}

	if score, ok := r.Score(ViewportDesktop.String()); ok {
		s.DesktopScore = &score
	}
	if score, ok := r.Score(ViewportMobile.String()); ok {
		s.MobileScore = &score
	}

	var sum, n int
	for _, score := range []*int{s.DesktopScore, s.MobileScore} {
		if score != nil {
			sum += *score
			n++
		}
	}
	if n > 0 {
		avg := float64(sum) / float64(n)
		s.AverageScore = &avg
	}

	return s
}

// RunReport groups the results of one timestamped run.
type RunReport struct {
	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// OutputDir is the timestamped directory all artifacts were
	// written to.
	OutputDir string `json:"output_dir"`

	// Sites holds one report per analyzed URL, in input order.
	Sites []*SiteReport `json:"sites"`
}

// RunTotals aggregates numbers across all URLs of a run for the overall
// summary section.
type RunTotals struct {
	URLCount          int `json:"url_count"`
	FilesGenerated    int `json:"files_generated"`
	ErrorCount        int `json:"errors_count"`
	ConsoleErrorCount int `json:"console_errors_count"`

	// AverageDesktop, AverageMobile and OverallAverage are nil when no
	// score of the corresponding kind exists.
	AverageDesktop *float64 `json:"average_desktop,omitempty"`
	AverageMobile  *float64 `json:"average_mobile,omitempty"`
	OverallAverage *float64 `json:"overall_average,omitempty"`

	// BestScore and WorstScore are taken across every individual
	// desktop and mobile score of the run.
	BestScore  *int `json:"best_score,omitempty"`
	WorstScore *int `json:"worst_score,omitempty"`
}

// Totals computes the run-level aggregates.
func (r *RunReport) Totals() RunTotals {
	t := RunTotals{URLCount: len(r.Sites)}

	var desktop, mobile, all []int
	for _, site := range r.Sites {
		summary := site.Summary
		if summary == nil {
			summary = NewSummary(site)
		}
		t.FilesGenerated += summary.FilesGenerated
		t.ErrorCount += summary.ErrorCount
		t.ConsoleErrorCount += summary.ConsoleErrorCount

		if summary.DesktopScore != nil {
			desktop = append(desktop, *summary.DesktopScore)
			all = append(all, *summary.DesktopScore)
		}
		if summary.MobileScore != nil {
			mobile = append(mobile, *summary.MobileScore)
			all = append(all, *summary.MobileScore)
		}
	}

	t.AverageDesktop = mean(desktop)
	t.AverageMobile = mean(mobile)
	t.OverallAverage = mean(all)

	if len(all) > 0 {
		best, worst := all[0], all[0]
		for _, score := range all[1:] {
			if score > best {
				best = score
			}
			if score < worst {
				worst = score
			}
		}
		t.BestScore = &best
		t.WorstScore = &worst
	}

	return t
}

// mean returns the average of values, or nil for an empty slice.
func mean(values []int) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum int
	for _, v := range values {
		sum += v
	}
	avg := float64(sum) / float64(len(values))
	return &avg
}
