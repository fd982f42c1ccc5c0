package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/nao1215/precheck/internal/browser"
	"github.com/nao1215/precheck/internal/chart"
	"github.com/nao1215/precheck/internal/config"
	"github.com/nao1215/precheck/internal/model"
	"github.com/nao1215/precheck/internal/pagespeed"
)

// ScoreStep collects PageSpeed performance scores for both strategies.
// When the API quota is exhausted it measures the page locally in
// headless Chrome instead, so a run always yields a score.
type ScoreStep struct {
	client  *pagespeed.Client
	browser *browser.Browser
	cfg     *config.Config
	layout  *config.Layout
	logger  *slog.Logger
}

// NewScoreStep creates the score step.
func NewScoreStep(client *pagespeed.Client, b *browser.Browser, cfg *config.Config, layout *config.Layout, logger *slog.Logger) *ScoreStep {
	return &ScoreStep{client: client, browser: b, cfg: cfg, layout: layout, logger: logger}
}

// Name returns the module name.
func (s *ScoreStep) Name() string { return config.ModuleScore }

// Do analyzes the URL once per strategy. A failed strategy is recorded
// on the report and does not abort the other one.
func (s *ScoreStep) Do(ctx context.Context, report *model.SiteReport) error {
	for _, v := range model.Viewports() {
		strategy := v.String()
		result, raw, err := s.analyze(ctx, report.URL, v)
		if err != nil {
			s.logger.Warn("pagespeed analysis failed",
				"url", report.URL, "strategy", strategy, "error", err)
			report.PageSpeed[strategy] = &model.StrategyResult{
				URL:       report.URL,
				Strategy:  strategy,
				Error:     err.Error(),
				Timestamp: time.Now(),
			}
			continue
		}
		report.PageSpeed[strategy] = result
		report.PageSpeedFiles = append(report.PageSpeedFiles, s.writeArtifacts(report.URL, v, result, raw)...)
	}
	return nil
}

// analyze queries the API and falls back to local measurement on quota
// exhaustion.
func (s *ScoreStep) analyze(ctx context.Context, url string, v model.Viewport) (*model.StrategyResult, []byte, error) {
	stepCtx, cancel := stepTimeout(ctx, s.cfg.Timeout, 0)
	defer cancel()

	result, raw, err := s.client.Run(stepCtx, url, v.String())
	if err == nil {
		return result, raw, nil
	}
	if !errors.Is(err, pagespeed.ErrQuotaExceeded) {
		return nil, nil, err
	}

	s.logger.Warn("pagespeed quota exceeded, falling back to local analysis",
		"url", url, "strategy", v.String())
	result, err = s.measureLocally(stepCtx, url, v)
	if err != nil {
		return nil, nil, err
	}
	return result, nil, nil
}

// measureLocally loads the page in headless Chrome and estimates a
// score from its navigation timings.
func (s *ScoreStep) measureLocally(ctx context.Context, url string, v model.Viewport) (*model.StrategyResult, error) {
	session, err := openPage(ctx, s.browser, s.cfg, url, v)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	timings, err := session.Timings()
	if err != nil {
		return nil, err
	}
	return pagespeed.FallbackResult(url, v.String(), *timings), nil
}

// writeArtifacts writes the per-strategy files plus the score chart and
// returns the written paths. Artifact failures degrade the report, they
// do not fail the step.
func (s *ScoreStep) writeArtifacts(url string, v model.Viewport, result *model.StrategyResult, raw []byte) []string {
	dir := s.layout.PageSpeedDir(v)
	stem := config.ArtifactName(url, v)

	paths, err := pagespeed.WriteArtifacts(dir, stem, result, raw)
	if err != nil {
		s.logger.Warn("write pagespeed artifacts", "url", url, "error", err)
	}

	chartPath := filepath.Join(dir, stem+"_pagespeed_score.png")
	if err := chart.WritePNG(chartPath, result, pagespeed.MetricKeys(result)); err != nil {
		s.logger.Warn("write score chart", "url", url, "error", err)
	} else {
		paths = append(paths, chartPath)
	}
	return paths
}
