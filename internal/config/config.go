package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/precheck/internal/model"
)

// Default configuration values.
// These mirror the capture parameters the tool was tuned with; most can be
// overridden via CLI flags or the .precheck configuration file.
const (
	// DefaultTimeout bounds a single browser capture (navigate, scroll,
	// screenshot or recording) for one URL and viewport. Recording alone
	// takes DefaultVideoDuration plus the lazy-load margin, so the
	// timeout must be comfortably larger than both.
	DefaultTimeout = 120 * time.Second

	// DefaultBatchSize of 1 processes URLs sequentially. Each URL spawns
	// its own Chrome processes; raising this multiplies memory usage.
	DefaultBatchSize = 1

	// MaxURLs caps the number of URLs per run. A full run produces more
	// than a dozen artifacts per URL, and the PageSpeed API quota is
	// easily exhausted by larger batches.
	MaxURLs = 4

	// DefaultVideoFPS is the target frame rate of recorded videos.
	DefaultVideoFPS = 30

	// DefaultCaptureFPS is the rate at which frames are actually pulled
	// from the browser. Screenshot round-trips over the DevTools
	// protocol cannot sustain 30fps; captured frames are re-timed to
	// DefaultVideoFPS during encoding.
	DefaultCaptureFPS = 10

	// DefaultVideoDuration is the length of the scroll performed while
	// recording.
	DefaultVideoDuration = 30 * time.Second

	// DefaultScrollSteps is the number of scroll increments used for
	// smooth top-to-bottom scrolling.
	DefaultScrollSteps = 30

	// DefaultLazyLoadMargin extends the recording window so that content
	// loaded during scrolling is still captured.
	DefaultLazyLoadMargin = 15 * time.Second

	// DefaultScreenshotDelay is the settle time after navigation before
	// the full-page screenshot is taken.
	DefaultScreenshotDelay = 3 * time.Second

	// DefaultErrorCaptureDuration is how long the page is scrolled while
	// listening for console errors before the screenshot.
	DefaultErrorCaptureDuration = 15 * time.Second

	// DefaultOutputDir is the base directory for run output folders.
	DefaultOutputDir = "outputs"

	// RunTimestampLayout names the per-run output folder.
	RunTimestampLayout = "2006-01-02_15-04-05"

	// DesktopUserAgent and MobileUserAgent are sent while capturing with
	// the corresponding viewport.
	DesktopUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	MobileUserAgent  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

	// APIKeyEnv is the environment variable holding the PageSpeed
	// Insights API key. The API works without a key on a small
	// anonymous quota.
	APIKeyEnv = "PAGESPEED_API_KEY"

	// AppName is the application name used for XDG directory paths.
	AppName = "precheck"
)

// Module names selectable via CLI flags.
const (
	ModuleScore      = "score"
	ModuleScreenshot = "screenshot"
	ModuleRecord     = "record"
)

// AllModules returns every module in execution order.
func AllModules() []string {
	return []string{ModuleScore, ModuleScreenshot, ModuleRecord}
}

// Config holds all options for a precheck run.
// It is populated from CLI flags and the optional .precheck file and
// passed through the application via dependency injection rather than
// global state.
type Config struct {
	// URLs is the normalized list of pages to analyze (max MaxURLs).
	URLs []string

	// Modules lists the enabled modules (score, screenshot, record).
	Modules []string

	// Headless runs Chrome without a visible window.
	Headless bool

	// Verbose enables debug-level log output.
	Verbose bool

	// Timeout bounds each browser capture for one URL and viewport.
	Timeout time.Duration

	// BatchSize is the number of URLs processed concurrently.
	BatchSize int

	// OutputBaseDir is the directory under which the timestamped run
	// folder is created.
	OutputBaseDir string

	// ConfigFilePath is an explicit .precheck path. Empty means search
	// the current and home directories.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File

	// APIKey is the PageSpeed Insights API key, usually from the
	// PAGESPEED_API_KEY environment variable. May be empty.
	APIKey string

	// JSONReport and MarkdownReport select the run summary format
	// written next to the artifacts. Mutually exclusive; when neither
	// is set a plain-text summary is written.
	JSONReport     bool
	MarkdownReport bool

	// SaveToDB persists the run to the history database.
	SaveToDB bool

	// DBDir is the directory for the history database. Defaults to the
	// XDG data directory.
	DBDir string

	// VideoFPS is the frame rate of the encoded video.
	VideoFPS int

	// CaptureFPS is the browser frame capture rate.
	CaptureFPS int

	// VideoDuration is the scroll duration while recording.
	VideoDuration time.Duration

	// ScrollSteps is the number of smooth scroll increments.
	ScrollSteps int

	// FFmpegPath overrides the ffmpeg binary location. Empty means
	// look it up on PATH.
	FFmpegPath string
}

// NewConfig returns a Config with default values. Callers override
// fields from CLI flags after creation.
func NewConfig() *Config {
	return &Config{
		Modules:       AllModules(),
		Headless:      true,
		Timeout:       DefaultTimeout,
		BatchSize:     DefaultBatchSize,
		OutputBaseDir: DefaultOutputDir,
		SaveToDB:      true,
		DBDir:         XDGDataDir(),
		VideoFPS:      DefaultVideoFPS,
		CaptureFPS:    DefaultCaptureFPS,
		VideoDuration: DefaultVideoDuration,
		ScrollSteps:   DefaultScrollSteps,
	}
}

// XDGDataDir returns the XDG data directory for precheck.
// On Linux: ~/.local/share/precheck
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for precheck.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// UserAgent returns the user agent string for the given viewport.
func UserAgent(v model.Viewport) string {
	if v.Mobile() {
		return MobileUserAgent
	}
	return DesktopUserAgent
}

// Validate checks the configuration and returns the first problem found.
// It is called once after CLI parsing, before any browser is launched.
func (c *Config) Validate() error {
	if len(c.URLs) == 0 {
		return ErrNoURLs
	}
	if len(c.URLs) > MaxURLs {
		return ErrTooManyURLs
	}
	if len(c.Modules) == 0 {
		return ErrNoModules
	}
	for _, m := range c.Modules {
		switch m {
		case ModuleScore, ModuleScreenshot, ModuleRecord:
		default:
			return ErrUnknownModule
		}
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.VideoFPS <= 0 || c.CaptureFPS <= 0 {
		return ErrInvalidFrameRate
	}
	if c.VideoDuration <= 0 {
		return ErrInvalidVideoDuration
	}
	if c.ScrollSteps <= 0 {
		return ErrInvalidScrollSteps
	}
	return nil
}

// ModuleEnabled reports whether the named module is selected.
func (c *Config) ModuleEnabled(name string) bool {
	for _, m := range c.Modules {
		if m == name {
			return true
		}
	}
	return false
}
