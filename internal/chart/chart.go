// Package chart renders PageSpeed score charts as PNG images using the
// gg drawing library. The chart is a horizontal gauge colored by the
// Lighthouse score band, with the metric values listed underneath.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/nao1215/precheck/internal/model"
)

// Canvas dimensions. Wide enough for a full URL in the title line.
const (
	width  = 720
	height = 280

	margin    = 24
	barHeight = 36
	barTop    = 96
	lineStep  = 18
)

// Band colors follow the Lighthouse convention: green for good, orange
// for moderate, red for poor.
var (
	colorGood     = color.RGBA{R: 0x0c, G: 0xce, B: 0x6b, A: 0xff}
	colorModerate = color.RGBA{R: 0xff, G: 0xa4, B: 0x00, A: 0xff}
	colorPoor     = color.RGBA{R: 0xff, G: 0x4e, B: 0x42, A: 0xff}

	colorBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorTrack      = color.RGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff}
	colorText       = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
)

// barColor returns the gauge color for a score, using the Lighthouse
// thresholds (90 and 50).
func barColor(score int) color.Color {
	switch {
	case score >= 90:
		return colorGood
	case score >= 50:
		return colorModerate
	default:
		return colorPoor
	}
}

// clampScore bounds a score into the drawable 0-100 range.
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// metricLines returns the "key: value" lines rendered under the gauge.
func metricLines(result *model.StrategyResult, keys []string) []string {
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		mv, ok := result.Metrics[key]
		if !ok {
			continue
		}
		display := mv.DisplayValue
		if display == "" {
			display = fmt.Sprintf("%.0f", mv.NumericValue)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", key, display))
	}
	return lines
}

// Render draws the score chart for one strategy result. metricKeys fixes
// the order of the metric lines; missing metrics are skipped.
func Render(result *model.StrategyResult, metricKeys []string) ([]byte, error) {
	dc := gg.NewContext(width, height)
	dc.SetColor(colorBackground)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	// Title and subtitle.
	dc.SetColor(colorText)
	dc.DrawString(fmt.Sprintf("PageSpeed score - %s", result.Strategy), margin, margin+10)
	dc.DrawString(result.URL, margin, margin+10+lineStep)

	// Gauge track and filled bar.
	score := clampScore(result.Score)
	trackWidth := float64(width - 2*margin)
	dc.SetColor(colorTrack)
	dc.DrawRectangle(margin, barTop, trackWidth, barHeight)
	dc.Fill()
	dc.SetColor(barColor(result.Score))
	dc.DrawRectangle(margin, barTop, trackWidth*float64(score)/100, barHeight)
	dc.Fill()

	// Score label centered on the gauge.
	dc.SetColor(colorText)
	label := fmt.Sprintf("%d / 100", result.Score)
	if result.Fallback {
		label += " (estimated)"
	}
	dc.DrawStringAnchored(label, width/2, barTop+barHeight/2, 0.5, 0.35)

	// Metric lines.
	y := float64(barTop + barHeight + 32)
	for _, line := range metricLines(result, metricKeys) {
		dc.DrawString(line, margin, y)
		y += lineStep
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("chart: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePNG renders the chart and writes it to path.
func WritePNG(path string, result *model.StrategyResult, metricKeys []string) error {
	data, err := Render(result, metricKeys)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("chart: create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("chart: write %s: %w", path, err)
	}
	return nil
}
