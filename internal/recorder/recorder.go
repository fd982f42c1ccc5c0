package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FrameSource provides viewport frames and scrolling. *browser.Session
// satisfies it.
type FrameSource interface {
	CaptureFrame() ([]byte, error)
	SmoothScroll(ctx context.Context, duration time.Duration, steps int) error
}

// Recorder captures a scrolling video of a loaded page.
type Recorder struct {
	captureFPS     int
	videoFPS       int
	duration       time.Duration
	lazyLoadMargin time.Duration
	scrollSteps    int
	encoder        *Encoder
	logger         *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithFrameRates sets the browser capture rate and the encoded video
// frame rate.
func WithFrameRates(captureFPS, videoFPS int) Option {
	return func(r *Recorder) {
		r.captureFPS = captureFPS
		r.videoFPS = videoFPS
	}
}

// WithDuration sets the scroll duration and the extra margin recorded
// after scrolling for lazy-loaded content.
func WithDuration(duration, lazyLoadMargin time.Duration) Option {
	return func(r *Recorder) {
		r.duration = duration
		r.lazyLoadMargin = lazyLoadMargin
	}
}

// WithScrollSteps sets the number of scroll increments.
func WithScrollSteps(steps int) Option {
	return func(r *Recorder) { r.scrollSteps = steps }
}

// WithLogger sets the logger for recording diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}

// New creates a Recorder using the given encoder.
func New(encoder *Encoder, opts ...Option) *Recorder {
	r := &Recorder{
		captureFPS:     10,
		videoFPS:       30,
		duration:       30 * time.Second,
		lazyLoadMargin: 15 * time.Second,
		scrollSteps:    30,
		encoder:        encoder,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Window returns the total recording window: scroll duration plus the
// lazy-load margin.
func (r *Recorder) Window() time.Duration {
	return r.duration + r.lazyLoadMargin
}

// Record captures frames from src while scrolling the page, then encodes
// them into an MP4 at outputPath. It returns the number of captured
// frames. The recording window is Window(); a canceled ctx stops the
// capture but frames already taken are still encoded when possible.
func (r *Recorder) Record(ctx context.Context, src FrameSource, outputPath string) (int, error) {
	framesDir, err := os.MkdirTemp("", "precheck-frames-*")
	if err != nil {
		return 0, fmt.Errorf("recorder: create frames directory: %w", err)
	}
	defer os.RemoveAll(framesDir)

	captureCtx, stopCapture := context.WithTimeout(ctx, r.Window())
	defer stopCapture()

	frames := make(chan int, 1)
	go r.captureLoop(captureCtx, src, framesDir, frames)

	// Scroll while the capture loop runs. The margin after the scroll
	// keeps recording whatever lazy-loaded content settles in.
	if err := src.SmoothScroll(captureCtx, r.duration, r.scrollSteps); err != nil && ctx.Err() == nil {
		r.logger.Warn("scroll during recording failed", "error", err)
	}
	select {
	case <-captureCtx.Done():
	case <-ctx.Done():
	}
	stopCapture()

	captured := <-frames
	if ctx.Err() != nil {
		return captured, ctx.Err()
	}
	if captured == 0 {
		return 0, ErrNoFrames
	}

	if err := r.encoder.Encode(ctx, framesDir, r.captureFPS, r.videoFPS, outputPath); err != nil {
		return captured, err
	}
	r.logger.Debug("video encoded", "output", outputPath, "frames", captured)
	return captured, nil
}

// captureLoop pulls frames at the capture rate until ctx is done and
// reports how many frames it wrote.
func (r *Recorder) captureLoop(ctx context.Context, src FrameSource, framesDir string, frames chan<- int) {
	interval := time.Second / time.Duration(r.captureFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	count := 0
	for {
		select {
		case <-ctx.Done():
			frames <- count
			return
		case <-ticker.C:
			buf, err := src.CaptureFrame()
			if err != nil {
				if ctx.Err() == nil {
					r.logger.Debug("frame capture failed", "frame", count, "error", err)
				}
				continue
			}
			path := filepath.Join(framesDir, fmt.Sprintf(framePattern, count))
			if err := os.WriteFile(path, buf, 0o600); err != nil {
				r.logger.Warn("write frame", "path", path, "error", err)
				continue
			}
			count++
		}
	}
}
