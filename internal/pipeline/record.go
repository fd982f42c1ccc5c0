package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/nao1215/precheck/internal/browser"
	"github.com/nao1215/precheck/internal/config"
	"github.com/nao1215/precheck/internal/model"
	"github.com/nao1215/precheck/internal/recorder"
)

// RecordStep records a scrolling video of the page for both viewports.
type RecordStep struct {
	browser  *browser.Browser
	recorder *recorder.Recorder
	cfg      *config.Config
	layout   *config.Layout
	logger   *slog.Logger
}

// NewRecordStep creates the record step.
func NewRecordStep(b *browser.Browser, rec *recorder.Recorder, cfg *config.Config, layout *config.Layout, logger *slog.Logger) *RecordStep {
	return &RecordStep{browser: b, recorder: rec, cfg: cfg, layout: layout, logger: logger}
}

// Name returns the module name.
func (s *RecordStep) Name() string { return config.ModuleRecord }

// Do records each viewport. A failed viewport is recorded on its result
// and does not abort the other one.
func (s *RecordStep) Do(ctx context.Context, report *model.SiteReport) error {
	for _, v := range model.Viewports() {
		if err := s.record(ctx, report, v); err != nil {
			s.logger.Warn("recording failed",
				"url", report.URL, "viewport", v.String(), "error", err)
			report.Result(v).AddError(err.Error())
		}
	}
	return nil
}

func (s *RecordStep) record(ctx context.Context, report *model.SiteReport, v model.Viewport) error {
	// The timeout must cover the full recording window plus page load
	// and encoding.
	floor := s.recorder.Window() + 30*time.Second
	stepCtx, cancel := stepTimeout(ctx, s.cfg.Timeout, floor)
	defer cancel()

	session, err := openPage(stepCtx, s.browser, s.cfg, report.URL, v)
	if err != nil {
		return err
	}
	defer session.Close()

	stem := config.ArtifactName(report.URL, v)
	path := filepath.Join(s.layout.VideoDir(v), stem+".mp4")

	frames, err := s.recorder.Record(stepCtx, session, path)
	if err != nil {
		return fmt.Errorf("record video: %w", err)
	}
	report.Result(v).VideoPath = path
	s.logger.Debug("video saved",
		"url", report.URL, "viewport", v.String(), "path", path, "frames", frames)
	return nil
}
