package recorder

import "errors"

var (
	// ErrFFmpegNotFound is returned when no ffmpeg binary is available.
	ErrFFmpegNotFound = errors.New("recorder: ffmpeg not found in PATH")

	// ErrNoFrames is returned when recording produced no frames to
	// encode.
	ErrNoFrames = errors.New("recorder: no frames captured")
)
