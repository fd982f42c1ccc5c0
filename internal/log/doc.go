// Package log provides logging with automatic masking of credentials,
// built on the standard slog package.
//
// The tool handles two kinds of secrets: the PageSpeed Insights API key
// (appended to request URLs as the key query parameter) and per-site
// capture overrides from the .precheck file, which may carry cookies and
// authorization headers. The SecureHandler masks both before any record
// reaches the underlying handler, so debug logging of full request URLs
// and site overrides stays safe.
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("pagespeed request",
//	    "url", "https://.../runPagespeed?key=AIza...", // key is masked
//	    "cookie", "consent=accepted",                  // masked entirely
//	)
package log
