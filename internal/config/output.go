package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nao1215/precheck/internal/model"
)

// Artifact kind directories inside a run folder.
const (
	DirVideos      = "videos"
	DirScreenshots = "screenshots"
	DirPageSpeed   = "pagespeed"
)

// Layout describes the on-disk output tree of one run:
//
//	outputs/<timestamp>/
//	  videos/{desktop,mobile}/
//	  screenshots/{desktop,mobile}/
//	  pagespeed/{desktop,mobile}/
type Layout struct {
	// RunDir is the timestamped root of this run's artifacts.
	RunDir string
}

// NewLayout creates the full directory tree for a run started at ts
// under baseDir and returns its layout.
func NewLayout(baseDir string, ts time.Time) (*Layout, error) {
	l := &Layout{RunDir: filepath.Join(baseDir, ts.Format(RunTimestampLayout))}
	for _, kind := range []string{DirVideos, DirScreenshots, DirPageSpeed} {
		for _, v := range model.Viewports() {
			dir := filepath.Join(l.RunDir, kind, v.String())
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("config: create output directory %s: %w", dir, err)
			}
		}
	}
	return l, nil
}

// VideoDir returns the video directory for a viewport.
func (l *Layout) VideoDir(v model.Viewport) string {
	return filepath.Join(l.RunDir, DirVideos, v.String())
}

// ScreenshotDir returns the screenshot directory for a viewport.
func (l *Layout) ScreenshotDir(v model.Viewport) string {
	return filepath.Join(l.RunDir, DirScreenshots, v.String())
}

// PageSpeedDir returns the pagespeed directory for a viewport. PageSpeed
// strategies map one-to-one onto viewport names.
func (l *Layout) PageSpeedDir(v model.Viewport) string {
	return filepath.Join(l.RunDir, DirPageSpeed, v.String())
}

// SummaryPath returns the path of the run summary file with the given
// extension (for example "txt", "json" or "md").
func (l *Layout) SummaryPath(ext string) string {
	return filepath.Join(l.RunDir, "summary_report."+ext)
}

// SanitizeFilename converts a URL into a safe file name stem. The scheme,
// a leading www. and common TLD suffixes are stripped, and the remaining
// separators become underscores:
//
//	https://www.example.com/about -> example_about
func SanitizeFilename(rawURL string) string {
	name := rawURL
	for _, prefix := range []string{"https://", "http://"} {
		name = strings.TrimPrefix(name, prefix)
	}
	name = strings.TrimPrefix(name, "www.")
	for _, suffix := range []string{".com", ".org", ".net"} {
		name = strings.Replace(name, suffix, "", 1)
	}
	name = strings.NewReplacer(".", "_", "-", "_", "/", "_").Replace(name)
	return strings.Trim(name, "_")
}

// ArtifactName returns the file name stem for a URL and viewport, e.g.
// "example_desktop".
func ArtifactName(rawURL string, v model.Viewport) string {
	return SanitizeFilename(rawURL) + "_" + v.String()
}

// NormalizeURLs cleans the raw URL list: whitespace and empty entries are
// dropped, a missing scheme defaults to https, and anything that still
// does not parse as an http(s) URL with a host is rejected.
func NormalizeURLs(raw []string) ([]string, error) {
	urls := make([]string, 0, len(raw))
	for _, r := range raw {
		s := strings.TrimSpace(r)
		if s == "" {
			continue
		}
		if !strings.Contains(s, "://") {
			s = "https://" + s
		}
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidURL, r, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidURL, r)
		}
		urls = append(urls, u.String())
	}
	return urls, nil
}
