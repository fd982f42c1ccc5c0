package config

import "errors"

var (
	// ErrNoURLs is returned when no URL was given to analyze.
	ErrNoURLs = errors.New("config: no URLs to analyze")

	// ErrTooManyURLs is returned when more than MaxURLs were given.
	ErrTooManyURLs = errors.New("config: too many URLs (maximum is 4)")

	// ErrNoModules is returned when every module is disabled.
	ErrNoModules = errors.New("config: no modules enabled")

	// ErrUnknownModule is returned for a module name that is not
	// score, screenshot or record.
	ErrUnknownModule = errors.New("config: unknown module name")

	// ErrInvalidTimeout is returned for a zero or negative timeout.
	ErrInvalidTimeout = errors.New("config: timeout must be positive")

	// ErrInvalidBatchSize is returned for a zero or negative batch size.
	ErrInvalidBatchSize = errors.New("config: batch size must be positive")

	// ErrConflictingReportFormats is returned when both JSON and
	// Markdown summary formats are requested.
	ErrConflictingReportFormats = errors.New("config: json and markdown report formats are mutually exclusive")

	// ErrInvalidFrameRate is returned for a zero or negative video or
	// capture frame rate.
	ErrInvalidFrameRate = errors.New("config: frame rate must be positive")

	// ErrInvalidVideoDuration is returned for a zero or negative
	// recording duration.
	ErrInvalidVideoDuration = errors.New("config: video duration must be positive")

	// ErrInvalidScrollSteps is returned for a zero or negative scroll
	// step count.
	ErrInvalidScrollSteps = errors.New("config: scroll steps must be positive")

	// ErrConfigNotFound is returned when an explicitly requested
	// configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidURL is returned for a URL that cannot be parsed or uses
	// an unsupported scheme.
	ErrInvalidURL = errors.New("config: invalid URL")
)
