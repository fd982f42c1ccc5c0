package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/precheck/internal/model"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "https with www and com", url: "https://www.example.com", want: "example"},
		{name: "http scheme", url: "http://example.org", want: "example"},
		{name: "path becomes underscore", url: "https://example.com/about/team", want: "example_about_team"},
		{name: "hyphen becomes underscore", url: "https://my-site.net", want: "my_site"},
		{name: "subdomain keeps dots as underscores", url: "https://blog.example.io", want: "blog_example_io"},
		{name: "trailing slash trimmed", url: "https://example.com/", want: "example"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeFilename(tt.url); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestArtifactName(t *testing.T) {
	t.Parallel()

	got := ArtifactName("https://www.example.com", model.ViewportMobile)
	if got != "example_mobile" {
		t.Errorf("ArtifactName = %q, want %q", got, "example_mobile")
	}
}

func TestNormalizeURLs(t *testing.T) {
	t.Parallel()

	t.Run("prepends https and trims", func(t *testing.T) {
		t.Parallel()
		got, err := NormalizeURLs([]string{" example.com ", "http://plain.example", ""})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"https://example.com", "http://plain.example"}
		if len(got) != len(want) {
			t.Fatalf("expected %d URLs, got %v", len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("url[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("rejects unsupported scheme", func(t *testing.T) {
		t.Parallel()
		if _, err := NormalizeURLs([]string{"ftp://example.com"}); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("expected ErrInvalidURL, got %v", err)
		}
	})

	t.Run("rejects missing host", func(t *testing.T) {
		t.Parallel()
		if _, err := NormalizeURLs([]string{"https://"}); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("expected ErrInvalidURL, got %v", err)
		}
	})
}

func TestNewLayout(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	ts := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	l, err := NewLayout(base, ts)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}

	wantRun := filepath.Join(base, "2025-06-15_10-30-00")
	if l.RunDir != wantRun {
		t.Errorf("RunDir = %q, want %q", l.RunDir, wantRun)
	}

	for _, dir := range []string{
		l.VideoDir(model.ViewportDesktop),
		l.VideoDir(model.ViewportMobile),
		l.ScreenshotDir(model.ViewportDesktop),
		l.ScreenshotDir(model.ViewportMobile),
		l.PageSpeedDir(model.ViewportDesktop),
		l.PageSpeedDir(model.ViewportMobile),
	} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("expected directory %s: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}

	if got := l.SummaryPath("txt"); got != filepath.Join(wantRun, "summary_report.txt") {
		t.Errorf("SummaryPath = %q", got)
	}
}
