// Package browser drives headless Chrome through the DevTools protocol.
//
// A Browser holds launch configuration (headless mode, binary path); a
// Session is one Chrome tab emulating a desktop or mobile viewport. The
// Session exposes the capture primitives the pipeline steps build on:
// navigation with per-site headers, full-page screenshots, single-frame
// captures for video recording, smooth scrolling for lazy-load content,
// and console error collection.
package browser
