// Package config holds the run configuration for precheck.
//
// A Config is built from CLI flags, the PAGESPEED_API_KEY environment
// variable, and the optional .precheck YAML file which carries per-site
// overrides (cookies, extra headers, wait times). The package also owns
// the on-disk output layout of a run: a timestamped directory with
// videos/, screenshots/ and pagespeed/ subdirectories split by
// desktop and mobile.
package config
