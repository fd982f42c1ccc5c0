package pagespeed

import (
	"fmt"
	"time"

	"github.com/nao1215/precheck/internal/model"
)

// FallbackNote marks results produced by local analysis instead of the
// PageSpeed API.
const FallbackNote = "estimated locally from navigation timings (PageSpeed API unavailable)"

// EstimateScore derives a rough 0-100 performance score from navigation
// timings. It penalizes slow load times and oversized pages:
//
//	load > 5s: -30    load > 3s: -20    load > 2s: -10
//	page area > 2M px: -20    > 1M px: -10
//
// The estimate is intentionally coarse; it only has to rank pages
// sensibly when the real Lighthouse score is unavailable.
func EstimateScore(t model.PageTimings) int {
	score := 100

	load := t.LoadComplete
	switch {
	case load > 5000:
		score -= 30
	case load > 3000:
		score -= 20
	case load > 2000:
		score -= 10
	}

	area := t.PageWidth * t.PageHeight
	switch {
	case area > 2_000_000:
		score -= 20
	case area > 1_000_000:
		score -= 10
	}

	if score < 0 {
		score = 0
	}
	return score
}

// FallbackResult builds a StrategyResult from locally measured timings.
// The result is marked as a fallback and carries the raw timing values
// as metrics so reports can show what the estimate is based on.
func FallbackResult(pageURL, strategy string, t model.PageTimings) *model.StrategyResult {
	return &model.StrategyResult{
		URL:      pageURL,
		Strategy: strategy,
		Score:    EstimateScore(t),
		Metrics: map[string]model.MetricValue{
			"dom-content-loaded": {
				NumericValue: t.DOMContentLoaded,
				DisplayValue: formatMillis(t.DOMContentLoaded),
			},
			"load-complete": {
				NumericValue: t.LoadComplete,
				DisplayValue: formatMillis(t.LoadComplete),
			},
			"first-paint": {
				NumericValue: t.FirstPaint,
				DisplayValue: formatMillis(t.FirstPaint),
			},
			"page-area": {
				NumericValue: float64(t.PageWidth * t.PageHeight),
				DisplayValue: fmt.Sprintf("%d x %d px", t.PageWidth, t.PageHeight),
			},
		},
		Fallback:  true,
		Note:      FallbackNote,
		Timestamp: time.Now(),
	}
}

// formatMillis renders a millisecond value the way Lighthouse display
// values look.
func formatMillis(ms float64) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.1f s", ms/1000)
	}
	return fmt.Sprintf("%.0f ms", ms)
}

// fallbackMetricOrder fixes the rendering order of fallback metrics.
var fallbackMetricOrder = []string{
	"first-paint",
	"dom-content-loaded",
	"load-complete",
	"page-area",
}
