package browser

import "errors"

var (
	// ErrEmptyScreenshot is returned when Chrome produced zero bytes of
	// image data.
	ErrEmptyScreenshot = errors.New("browser: screenshot is empty")

	// ErrSessionClosed is returned when an operation is attempted on a
	// closed session.
	ErrSessionClosed = errors.New("browser: session is closed")

	// ErrInvalidScrollSteps is returned when a scroll is requested with
	// no steps.
	ErrInvalidScrollSteps = errors.New("browser: scroll steps must be positive")
)
