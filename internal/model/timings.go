package model

// PageTimings holds navigation timing measured in the browser, used for
// local performance analysis when the PageSpeed API is unavailable.
// Durations are in milliseconds, matching the Performance API.
type PageTimings struct {
	// DOMContentLoaded is the time until the DOMContentLoaded event.
	DOMContentLoaded float64 `json:"dom_content_loaded_ms"`

	// LoadComplete is the time until the load event finished.
	LoadComplete float64 `json:"load_complete_ms"`

	// FirstPaint is the time of the first-paint entry, zero when the
	// browser reported none.
	FirstPaint float64 `json:"first_paint_ms"`

	// PageWidth and PageHeight are the full document dimensions, used
	// as a proxy for page weight.
	PageWidth  int64 `json:"page_width"`
	PageHeight int64 `json:"page_height"`
}
