package pagespeed

import (
	"testing"

	"github.com/nao1215/precheck/internal/model"
)

func TestEstimateScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timings model.PageTimings
		want    int
	}{
		{
			name:    "fast small page is perfect",
			timings: model.PageTimings{LoadComplete: 800, PageWidth: 400, PageHeight: 1000},
			want:    100,
		},
		{
			name:    "load over 2s",
			timings: model.PageTimings{LoadComplete: 2500, PageWidth: 400, PageHeight: 1000},
			want:    90,
		},
		{
			name:    "load over 3s",
			timings: model.PageTimings{LoadComplete: 3500, PageWidth: 400, PageHeight: 1000},
			want:    80,
		},
		{
			name:    "load over 5s",
			timings: model.PageTimings{LoadComplete: 9000, PageWidth: 400, PageHeight: 1000},
			want:    70,
		},
		{
			name:    "large page",
			timings: model.PageTimings{LoadComplete: 800, PageWidth: 1920, PageHeight: 800},
			want:    90,
		},
		{
			name:    "huge page",
			timings: model.PageTimings{LoadComplete: 800, PageWidth: 1920, PageHeight: 2000},
			want:    80,
		},
		{
			name:    "slow and huge stacks penalties",
			timings: model.PageTimings{LoadComplete: 9000, PageWidth: 1920, PageHeight: 5000},
			want:    50,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := EstimateScore(tt.timings); got != tt.want {
				t.Errorf("EstimateScore(%+v) = %d, want %d", tt.timings, got, tt.want)
			}
		})
	}
}

func TestEstimateScoreNeverNegative(t *testing.T) {
	t.Parallel()

	got := EstimateScore(model.PageTimings{LoadComplete: 60000, PageWidth: 10000, PageHeight: 100000})
	if got < 0 {
		t.Errorf("score must not go below zero, got %d", got)
	}
}

func TestFallbackResult(t *testing.T) {
	t.Parallel()

	timings := model.PageTimings{
		DOMContentLoaded: 1200,
		LoadComplete:     2500,
		FirstPaint:       600,
		PageWidth:        1920,
		PageHeight:       400,
	}

	r := FallbackResult("https://example.com", StrategyDesktop, timings)

	if !r.Fallback {
		t.Error("result must be marked as fallback")
	}
	if r.Note != FallbackNote {
		t.Errorf("unexpected note %q", r.Note)
	}
	if r.Score != EstimateScore(timings) {
		t.Errorf("score %d does not match estimate %d", r.Score, EstimateScore(timings))
	}
	if r.Metrics["load-complete"].DisplayValue != "2.5 s" {
		t.Errorf("unexpected load-complete display %q", r.Metrics["load-complete"].DisplayValue)
	}
	if r.Metrics["first-paint"].DisplayValue != "600 ms" {
		t.Errorf("unexpected first-paint display %q", r.Metrics["first-paint"].DisplayValue)
	}
	if r.Metrics["page-area"].NumericValue != float64(1920*400) {
		t.Errorf("unexpected page area %v", r.Metrics["page-area"].NumericValue)
	}
}
