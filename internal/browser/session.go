package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/nao1215/precheck/internal/model"
)

// Session is one Chrome tab emulating a fixed viewport.
type Session struct {
	ctx      context.Context
	cancels  []context.CancelFunc
	viewport model.Viewport
	console  *consoleLog
	logger   *slog.Logger
	closed   bool
}

// NavigateOptions carries per-site navigation overrides.
type NavigateOptions struct {
	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string

	// Cookie is sent as the Cookie header. It is merged into Headers.
	Cookie string

	// Settle is how long to wait after the document is ready before
	// returning, so that fonts, animations and late scripts finish.
	Settle time.Duration
}

// Viewport returns the viewport this session emulates.
func (s *Session) Viewport() model.Viewport { return s.viewport }

// Close tears down the tab and its Chrome processes. Safe to call more
// than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, cancel := range s.cancels {
		cancel()
	}
}

// Navigate loads url and waits for the document plus the settle delay.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	if s.closed {
		return ErrSessionClosed
	}

	headers := opts.Headers
	if opts.Cookie != "" {
		merged := make(map[string]string, len(headers)+1)
		for k, v := range headers {
			merged[k] = v
		}
		merged["Cookie"] = opts.Cookie
		headers = merged
	}

	tasks := chromedp.Tasks{}
	if len(headers) != 0 {
		extra := make(network.Headers, len(headers))
		for k, v := range headers {
			extra[k] = v
		}
		tasks = append(tasks,
			network.Enable(),
			network.SetExtraHTTPHeaders(extra),
		)
	}
	tasks = append(tasks,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if opts.Settle > 0 {
		tasks = append(tasks, chromedp.Sleep(opts.Settle))
	}

	if err := chromedp.Run(s.ctx, tasks); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	s.logger.Debug("page loaded", "url", url, "viewport", s.viewport.String())
	return nil
}

// FullScreenshot captures the entire page height as a PNG.
func (s *Session) FullScreenshot() ([]byte, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	var buf []byte
	// Quality 100 selects lossless PNG encoding.
	if err := chromedp.Run(s.ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, fmt.Errorf("browser: full screenshot: %w", err)
	}
	if len(buf) == 0 {
		return nil, ErrEmptyScreenshot
	}
	return buf, nil
}

// CaptureFrame captures the current viewport as a PNG. Used by the
// video recorder, which calls it repeatedly while the page scrolls.
func (s *Session) CaptureFrame() ([]byte, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	var buf []byte
	if err := chromedp.Run(s.ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("browser: capture frame: %w", err)
	}
	if len(buf) == 0 {
		return nil, ErrEmptyScreenshot
	}
	return buf, nil
}

// PageInfo reads the loaded page's title, final URL and dimensions.
func (s *Session) PageInfo() (*model.PageInfo, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	var (
		title    string
		location string
		dims     struct {
			Width  int64 `json:"width"`
			Height int64 `json:"height"`
		}
	)
	err := chromedp.Run(s.ctx,
		chromedp.Title(&title),
		chromedp.Location(&location),
		chromedp.Evaluate(`({
			width: Math.max(document.body.scrollWidth, document.documentElement.scrollWidth),
			height: Math.max(document.body.scrollHeight, document.documentElement.scrollHeight),
		})`, &dims),
	)
	if err != nil {
		return nil, fmt.Errorf("browser: read page info: %w", err)
	}
	width, height := s.viewport.Dimensions()
	return &model.PageInfo{
		Title:          title,
		FinalURL:       location,
		ViewportWidth:  width,
		ViewportHeight: height,
		PageWidth:      dims.Width,
		PageHeight:     dims.Height,
	}, nil
}

// PageHeight returns the full scrollable height of the page.
func (s *Session) PageHeight() (int64, error) {
	if s.closed {
		return 0, ErrSessionClosed
	}
	var height int64
	err := chromedp.Run(s.ctx,
		chromedp.Evaluate(`Math.max(document.body.scrollHeight, document.documentElement.scrollHeight)`, &height),
	)
	if err != nil {
		return 0, fmt.Errorf("browser: read page height: %w", err)
	}
	return height, nil
}

// ScrollTo scrolls the window to the vertical offset y.
func (s *Session) ScrollTo(y int64) error {
	if s.closed {
		return ErrSessionClosed
	}
	err := chromedp.Run(s.ctx,
		chromedp.Evaluate(fmt.Sprintf(`window.scrollTo({top: %d, behavior: "instant"})`, y), nil),
	)
	if err != nil {
		return fmt.Errorf("browser: scroll to %d: %w", y, err)
	}
	return nil
}

// SmoothScroll scrolls from top to bottom over duration in steps
// increments, then returns to the top. The page height is re-measured
// after the pass: when lazy-loaded content grew the page, scrolling
// continues into the new content until duration is used up.
func (s *Session) SmoothScroll(ctx context.Context, duration time.Duration, steps int) error {
	if steps <= 0 {
		return ErrInvalidScrollSteps
	}
	if s.closed {
		return ErrSessionClosed
	}

	_, viewportHeight := s.viewport.Dimensions()
	interval := duration / time.Duration(steps)
	deadline := time.Now().Add(duration)

	var covered int64
	for time.Now().Before(deadline) {
		height, err := s.PageHeight()
		if err != nil {
			return err
		}
		positions := ScrollPositions(height, viewportHeight, steps)
		advanced := false
		for _, y := range positions {
			if y <= covered {
				continue
			}
			advanced = true
			if err := s.ScrollTo(y); err != nil {
				return err
			}
			covered = y
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
			if !time.Now().Before(deadline) {
				break
			}
		}
		// Nothing new to scroll: the page stopped growing.
		if !advanced {
			break
		}
	}

	return s.ScrollTo(0)
}

// ScrollPositions returns the vertical offsets of a smooth top-to-bottom
// pass. The scrollable distance (page height minus one viewport) is
// divided into steps equal increments. A page shorter than the viewport
// yields no positions.
func ScrollPositions(pageHeight, viewportHeight int64, steps int) []int64 {
	if steps <= 0 {
		return nil
	}
	scrollable := pageHeight - viewportHeight
	if scrollable <= 0 {
		return nil
	}
	positions := make([]int64, 0, steps)
	for i := 1; i <= steps; i++ {
		positions = append(positions, scrollable*int64(i)/int64(steps))
	}
	return positions
}
