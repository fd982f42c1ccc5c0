package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nao1215/precheck/internal/browser"
	"github.com/nao1215/precheck/internal/config"
	"github.com/nao1215/precheck/internal/model"
)

// openPage starts a browser session for viewport v and navigates to
// url with the site's overrides applied. The caller owns the returned
// session.
func openPage(ctx context.Context, b *browser.Browser, cfg *config.Config, url string, v model.Viewport) (*browser.Session, error) {
	session, err := b.NewSession(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("start browser session: %w", err)
	}

	site := cfg.SiteConfigFor(url)
	settle := site.WaitDuration()
	if settle == 0 {
		settle = config.DefaultScreenshotDelay
	}
	opts := browser.NavigateOptions{
		Headers: site.Headers,
		Cookie:  site.Cookie,
		Settle:  settle,
	}
	if err := session.Navigate(url, opts); err != nil {
		session.Close()
		return nil, err
	}
	return session, nil
}

// writeConsoleLog saves captured console errors as JSON.
func writeConsoleLog(path string, entries []model.ConsoleEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal console log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write console log: %w", err)
	}
	return nil
}

// stepTimeout bounds one viewport's work. It never undercuts floor, so
// steps with a known minimum duration (recording) are not strangled by
// a short configured timeout.
func stepTimeout(ctx context.Context, configured, floor time.Duration) (context.Context, context.CancelFunc) {
	timeout := configured
	if timeout < floor {
		timeout = floor
	}
	return context.WithTimeout(ctx, timeout)
}
