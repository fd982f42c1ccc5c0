package model

import "testing"

// TestViewportDimensions verifies that each viewport maps to its fixed
// capture dimensions.
func TestViewportDimensions(t *testing.T) {
	t.Parallel()

	t.Run("desktop is 1920x1080", func(t *testing.T) {
		t.Parallel()
		w, h := ViewportDesktop.Dimensions()
		if w != 1920 || h != 1080 {
			t.Errorf("expected 1920x1080, got %dx%d", w, h)
		}
	})

	t.Run("mobile is 375x667", func(t *testing.T) {
		t.Parallel()
		w, h := ViewportMobile.Dimensions()
		if w != 375 || h != 667 {
			t.Errorf("expected 375x667, got %dx%d", w, h)
		}
	})
}

func TestViewportValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		viewport Viewport
		want     bool
	}{
		{name: "desktop is valid", viewport: ViewportDesktop, want: true},
		{name: "mobile is valid", viewport: ViewportMobile, want: true},
		{name: "tablet is unknown", viewport: Viewport("tablet"), want: false},
		{name: "empty is unknown", viewport: Viewport(""), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.viewport.Valid(); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.viewport, got, tt.want)
			}
		})
	}
}

func TestViewportMobile(t *testing.T) {
	t.Parallel()

	if ViewportDesktop.Mobile() {
		t.Error("desktop viewport should not be mobile")
	}
	if !ViewportMobile.Mobile() {
		t.Error("mobile viewport should be mobile")
	}
}

func TestViewportsOrder(t *testing.T) {
	t.Parallel()

	vs := Viewports()
	if len(vs) != 2 {
		t.Fatalf("expected 2 viewports, got %d", len(vs))
	}
	if vs[0] != ViewportDesktop || vs[1] != ViewportMobile {
		t.Errorf("expected [desktop mobile], got %v", vs)
	}
}
