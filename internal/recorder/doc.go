// Package recorder records scrolling page videos.
//
// Chrome's DevTools screenshot round-trip cannot sustain a full video
// frame rate, so the recorder pulls viewport frames at a lower capture
// rate while the page scrolls, writes them as numbered PNGs in a
// temporary directory, and hands them to ffmpeg for H.264 encoding at
// the target frame rate. ffmpeg must be installed; the recorder fails
// fast with ErrFFmpegNotFound when it is missing.
package recorder
