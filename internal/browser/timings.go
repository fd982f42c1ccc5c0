package browser

import (
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/nao1215/precheck/internal/model"
)

// timingsJS reads navigation timing from the Performance API. Negative
// deltas (events not fired yet) are clamped to zero in Go.
const timingsJS = `(() => {
	const nav = performance.getEntriesByType("navigation")[0];
	const paint = performance.getEntriesByType("paint")
		.find((e) => e.name === "first-paint");
	return {
		dom_content_loaded_ms: nav ? nav.domContentLoadedEventEnd : 0,
		load_complete_ms: nav ? nav.loadEventEnd : 0,
		first_paint_ms: paint ? paint.startTime : 0,
		page_width: Math.max(document.body.scrollWidth, document.documentElement.scrollWidth),
		page_height: Math.max(document.body.scrollHeight, document.documentElement.scrollHeight),
	};
})()`

// Timings measures the loaded page's navigation timing. Call after
// Navigate so the load event has fired.
func (s *Session) Timings() (*model.PageTimings, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	var t model.PageTimings
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(timingsJS, &t)); err != nil {
		return nil, fmt.Errorf("browser: read navigation timings: %w", err)
	}
	if t.DOMContentLoaded < 0 {
		t.DOMContentLoaded = 0
	}
	if t.LoadComplete < 0 {
		t.LoadComplete = 0
	}
	if t.FirstPaint < 0 {
		t.FirstPaint = 0
	}
	return &t, nil
}
