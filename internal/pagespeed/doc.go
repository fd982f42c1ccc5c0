// Package pagespeed scores page performance.
//
// The primary path queries the Google PageSpeed Insights v5 API for the
// desktop and mobile strategies. When the API quota is exhausted (or no
// network is available) the caller can fall back to a local estimate
// computed from navigation timings measured in headless Chrome; fallback
// results are marked as such so reports can qualify them.
//
// The package also renders the per-URL artifacts: the raw API response,
// a human-readable summary, and an ASCII score chart.
package pagespeed
