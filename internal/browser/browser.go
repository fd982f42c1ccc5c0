package browser

import (
	"context"
	"log/slog"

	"github.com/chromedp/chromedp"

	"github.com/nao1215/precheck/internal/model"
)

// Browser holds the Chrome launch configuration shared by all sessions
// of a run.
type Browser struct {
	headless bool
	execPath string
	logger   *slog.Logger
}

// Option configures a Browser.
type Option func(*Browser)

// WithHeadless controls whether Chrome runs without a visible window.
func WithHeadless(headless bool) Option {
	return func(b *Browser) { b.headless = headless }
}

// WithExecPath sets an explicit Chrome binary path. Empty means let
// chromedp find one.
func WithExecPath(path string) Option {
	return func(b *Browser) { b.execPath = path }
}

// WithLogger sets the logger for browser diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Browser) { b.logger = logger }
}

// New creates a Browser. Headless is the default.
func New(opts ...Option) *Browser {
	b := &Browser{
		headless: true,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// allocatorOptions builds the Chrome launch flags for a viewport.
// The defaults already cover sandbox-unfriendly environments; the extra
// flags keep recorded pages quiet and deterministic.
func (b *Browser) allocatorOptions(v model.Viewport) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", b.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("hide-scrollbars", false),
		chromedp.UserAgent(userAgentFor(v)),
	)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}
	return opts
}

// userAgentFor returns the user agent sent for a viewport. The strings
// match what the emulated devices would really send.
func userAgentFor(v model.Viewport) string {
	if v.Mobile() {
		return "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	}
	return "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
}

// NewSession launches a Chrome tab emulating viewport v. The session
// inherits ctx: canceling it tears the tab down. Callers must Close the
// session to release the Chrome processes.
func (b *Browser) NewSession(ctx context.Context, v model.Viewport) (*Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, b.allocatorOptions(v)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:      tabCtx,
		cancels:  []context.CancelFunc{tabCancel, allocCancel},
		viewport: v,
		logger:   b.logger,
	}
	s.attachConsole()

	width, height := v.Dimensions()
	var emulate []chromedp.EmulateViewportOption
	if v.Mobile() {
		emulate = append(emulate, chromedp.EmulateMobile, chromedp.EmulateTouch, chromedp.EmulateScale(2))
	}
	if err := chromedp.Run(tabCtx, chromedp.EmulateViewport(width, height, emulate...)); err != nil {
		s.Close()
		return nil, err
	}

	b.logger.Debug("browser session started",
		"viewport", v.String(), "width", width, "height", height, "headless", b.headless)
	return s, nil
}
