package pagespeed

import "errors"

var (
	// ErrQuotaExceeded is returned when the PageSpeed API rejected the
	// request with HTTP 429. Callers should fall back to local analysis.
	ErrQuotaExceeded = errors.New("pagespeed: API quota exceeded")

	// ErrNoScore is returned when the API response carries no
	// performance score.
	ErrNoScore = errors.New("pagespeed: response contains no performance score")

	// ErrInvalidStrategy is returned for a strategy other than desktop
	// or mobile.
	ErrInvalidStrategy = errors.New("pagespeed: strategy must be desktop or mobile")
)
