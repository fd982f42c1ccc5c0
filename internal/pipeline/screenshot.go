package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/precheck/internal/browser"
	"github.com/nao1215/precheck/internal/config"
	"github.com/nao1215/precheck/internal/model"
)

// ScreenshotStep captures full-page screenshots for both viewports.
// Before the capture the page is scrolled once so lazy-loaded content
// renders and console errors surface; errors are saved alongside the
// screenshot.
type ScreenshotStep struct {
	browser *browser.Browser
	cfg     *config.Config
	layout  *config.Layout
	logger  *slog.Logger
}

// NewScreenshotStep creates the screenshot step.
func NewScreenshotStep(b *browser.Browser, cfg *config.Config, layout *config.Layout, logger *slog.Logger) *ScreenshotStep {
	return &ScreenshotStep{browser: b, cfg: cfg, layout: layout, logger: logger}
}

// Name returns the module name.
func (s *ScreenshotStep) Name() string { return config.ModuleScreenshot }

// Do captures each viewport. A failed viewport is recorded on its
// result and does not abort the other one.
func (s *ScreenshotStep) Do(ctx context.Context, report *model.SiteReport) error {
	for _, v := range model.Viewports() {
		if err := s.capture(ctx, report, v); err != nil {
			s.logger.Warn("screenshot failed",
				"url", report.URL, "viewport", v.String(), "error", err)
			report.Result(v).AddError(err.Error())
		}
	}
	return nil
}

func (s *ScreenshotStep) capture(ctx context.Context, report *model.SiteReport, v model.Viewport) error {
	stepCtx, cancel := stepTimeout(ctx, s.cfg.Timeout, 0)
	defer cancel()

	session, err := openPage(stepCtx, s.browser, s.cfg, report.URL, v)
	if err != nil {
		return err
	}
	defer session.Close()

	vr := report.Result(v)

	// One scroll pass triggers lazy loading and gives page scripts time
	// to fail visibly before the capture.
	if err := session.SmoothScroll(stepCtx, config.DefaultErrorCaptureDuration, s.cfg.ScrollSteps); err != nil {
		vr.AddError(fmt.Sprintf("scroll before screenshot: %v", err))
	}

	if info, err := session.PageInfo(); err == nil {
		vr.PageInfo = info
	} else {
		vr.AddError(fmt.Sprintf("read page info: %v", err))
	}

	buf, err := session.FullScreenshot()
	if err != nil {
		return err
	}

	stem := config.ArtifactName(report.URL, v)
	path := filepath.Join(s.layout.ScreenshotDir(v), stem+".png")
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	vr.ScreenshotPath = path
	s.logger.Debug("screenshot saved", "url", report.URL, "viewport", v.String(), "path", path)

	if errs := session.ConsoleErrors(); len(errs) > 0 {
		vr.ConsoleErrorCount = len(errs)
		logPath := filepath.Join(s.layout.ScreenshotDir(v), stem+"_console_errors.json")
		if err := writeConsoleLog(logPath, errs); err != nil {
			vr.AddError(err.Error())
		} else {
			vr.ConsoleLogPath = logPath
		}
	}
	return nil
}
