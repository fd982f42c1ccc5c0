package pagespeed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/precheck/internal/model"
)

// ScoreBand names the Lighthouse score band a score falls into.
func ScoreBand(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= 50:
		return "Needs Improvement"
	default:
		return "Poor"
	}
}

// chartWidth is the bar length of the ASCII chart: one block per two
// score points.
const chartWidth = 50

// TextChart renders the score as an ASCII bar chart with the band
// thresholds marked below.
func TextChart(result *model.StrategyResult) string {
	score := result.Score
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := score / 2

	var b strings.Builder
	fmt.Fprintf(&b, "Performance score: %d/100 (%s)\n\n", result.Score, ScoreBand(result.Score))
	fmt.Fprintf(&b, "  [%s%s] %d\n\n",
		strings.Repeat("█", filled),
		strings.Repeat("░", chartWidth-filled),
		result.Score)
	b.WriteString("  0        25        50        75       100\n")
	b.WriteString("  Poor < 50 <= Needs Improvement < 70 <= Good < 90 <= Excellent\n")
	return b.String()
}

// SummaryText renders the human-readable per-strategy summary.
func SummaryText(result *model.StrategyResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PageSpeed summary for %s (%s)\n", result.URL, result.Strategy)
	fmt.Fprintf(&b, "Analyzed at: %s\n", result.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Score: %d/100 (%s)\n", result.Score, ScoreBand(result.Score))
	if result.Fallback {
		fmt.Fprintf(&b, "Note: %s\n", result.Note)
	}
	b.WriteString("\nMetrics:\n")
	for _, key := range metricOrder(result) {
		mv, ok := result.Metrics[key]
		if !ok {
			continue
		}
		display := mv.DisplayValue
		if display == "" {
			display = fmt.Sprintf("%.0f", mv.NumericValue)
		}
		fmt.Fprintf(&b, "  %-28s %s\n", key, display)
	}
	return b.String()
}

// metricOrder returns the metric keys in rendering order for the result
// kind.
func metricOrder(result *model.StrategyResult) []string {
	if result.Fallback {
		return fallbackMetricOrder
	}
	return metricAudits
}

// MetricKeys returns the metric keys of result in rendering order, for
// callers that draw their own views of the metrics.
func MetricKeys(result *model.StrategyResult) []string {
	keys := metricOrder(result)
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// WriteArtifacts writes the per-strategy files into dir:
//
//	<stem>_pagespeed_results.json
//	<stem>_pagespeed_summary.txt
//	<stem>_pagespeed_chart.txt
//
// rawBody is the API response to archive; for fallback results pass nil
// and the result itself is marshaled instead. Returns the written paths.
func WriteArtifacts(dir, stem string, result *model.StrategyResult, rawBody []byte) ([]string, error) {
	if rawBody == nil {
		var err error
		rawBody, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("pagespeed: marshal result: %w", err)
		}
	}

	files := []struct {
		name string
		data []byte
	}{
		{stem + "_pagespeed_results.json", rawBody},
		{stem + "_pagespeed_summary.txt", []byte(SummaryText(result))},
		{stem + "_pagespeed_chart.txt", []byte(TextChart(result))},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.data, 0o600); err != nil {
			return nil, fmt.Errorf("pagespeed: write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
