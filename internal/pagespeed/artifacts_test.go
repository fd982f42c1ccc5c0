package pagespeed

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/precheck/internal/model"
)

func TestScoreBand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  string
	}{
		{score: 100, want: "Excellent"},
		{score: 90, want: "Excellent"},
		{score: 89, want: "Good"},
		{score: 70, want: "Good"},
		{score: 69, want: "Needs Improvement"},
		{score: 50, want: "Needs Improvement"},
		{score: 49, want: "Poor"},
		{score: 0, want: "Poor"},
	}

	for _, tt := range tests {
		if got := ScoreBand(tt.score); got != tt.want {
			t.Errorf("ScoreBand(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestTextChart(t *testing.T) {
	t.Parallel()

	t.Run("bar length matches score", func(t *testing.T) {
		t.Parallel()
		chart := TextChart(&model.StrategyResult{Score: 80})
		if got := strings.Count(chart, "█"); got != 40 {
			t.Errorf("expected 40 filled blocks for score 80, got %d", got)
		}
		if got := strings.Count(chart, "░"); got != 10 {
			t.Errorf("expected 10 empty blocks for score 80, got %d", got)
		}
	})

	t.Run("zero score is all empty", func(t *testing.T) {
		t.Parallel()
		chart := TextChart(&model.StrategyResult{Score: 0})
		if strings.Count(chart, "█") != 0 {
			t.Error("expected no filled blocks for score 0")
		}
		if strings.Count(chart, "░") != chartWidth {
			t.Errorf("expected full empty bar for score 0")
		}
	})

	t.Run("includes band name", func(t *testing.T) {
		t.Parallel()
		if !strings.Contains(TextChart(&model.StrategyResult{Score: 95}), "Excellent") {
			t.Error("expected band name in chart")
		}
	})
}

func TestSummaryText(t *testing.T) {
	t.Parallel()

	result := &model.StrategyResult{
		URL:      "https://example.com",
		Strategy: StrategyDesktop,
		Score:    93,
		Metrics: map[string]model.MetricValue{
			"first-contentful-paint": {NumericValue: 1234.5, DisplayValue: "1.2 s", Score: 0.95},
		},
		Timestamp: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
	}

	out := SummaryText(result)

	for _, want := range []string{
		"https://example.com",
		"desktop",
		"93/100",
		"Excellent",
		"first-contentful-paint",
		"1.2 s",
		"2025-06-15 10:30:00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in summary:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Note:") {
		t.Error("API results must not carry a fallback note")
	}
}

func TestSummaryTextFallback(t *testing.T) {
	t.Parallel()

	result := FallbackResult("https://example.com", StrategyMobile, model.PageTimings{
		LoadComplete: 2500, PageWidth: 375, PageHeight: 2000,
	})

	out := SummaryText(result)
	if !strings.Contains(out, FallbackNote) {
		t.Errorf("expected fallback note in summary:\n%s", out)
	}
	if !strings.Contains(out, "load-complete") {
		t.Errorf("expected timing metrics in summary:\n%s", out)
	}
}

func TestWriteArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result := &model.StrategyResult{
		URL:       "https://example.com",
		Strategy:  StrategyDesktop,
		Score:     85,
		Timestamp: time.Now(),
	}
	raw := []byte(`{"lighthouseResult": {}}`)

	paths, err := WriteArtifacts(dir, "example_desktop", result, raw)
	if err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 files, got %d", len(paths))
	}

	wantNames := []string{
		"example_desktop_pagespeed_results.json",
		"example_desktop_pagespeed_summary.txt",
		"example_desktop_pagespeed_chart.txt",
	}
	for i, want := range wantNames {
		if filepath.Base(paths[i]) != want {
			t.Errorf("file[%d] = %q, want %q", i, filepath.Base(paths[i]), want)
		}
		if _, err := os.Stat(paths[i]); err != nil {
			t.Errorf("missing artifact %s: %v", paths[i], err)
		}
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(raw) {
		t.Error("results file must contain the raw API body")
	}
}

func TestWriteArtifactsFallbackMarshalsResult(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result := FallbackResult("https://example.com", StrategyMobile, model.PageTimings{LoadComplete: 1000})

	paths, err := WriteArtifacts(dir, "example_mobile", result, nil)
	if err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	var decoded model.StrategyResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("results file is not valid JSON: %v", err)
	}
	if !decoded.Fallback {
		t.Error("marshaled result must keep the fallback flag")
	}
}
