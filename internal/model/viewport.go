package model

// Viewport identifies the simulated device class used during capture.
// Each viewport maps to fixed screen dimensions and a user agent so that
// runs are reproducible across machines.
type Viewport string

const (
	// ViewportDesktop simulates a 1920x1080 desktop browser window.
	ViewportDesktop Viewport = "desktop"

	// ViewportMobile simulates a 375x667 phone screen (iPhone 6/7/8 size).
	ViewportMobile Viewport = "mobile"
)

// Viewports returns all viewports in capture order.
// Desktop first matches the order artifacts appear in the output tree.
func Viewports() []Viewport {
	return []Viewport{ViewportDesktop, ViewportMobile}
}

// String returns the viewport name as used in directory names, file name
// suffixes, and PageSpeed strategy parameters.
func (v Viewport) String() string {
	return string(v)
}

// Valid reports whether v is a known viewport.
func (v Viewport) Valid() bool {
	return v == ViewportDesktop || v == ViewportMobile
}

// Dimensions returns the emulated width and height in CSS pixels.
func (v Viewport) Dimensions() (width, height int64) {
	if v == ViewportMobile {
		return 375, 667
	}
	return 1920, 1080
}

// Mobile reports whether the viewport emulates a mobile device.
// Mobile viewports enable touch emulation and the mobile device metrics
// flag in the browser.
func (v Viewport) Mobile() bool {
	return v == ViewportMobile
}
