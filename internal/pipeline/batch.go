package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/precheck/internal/model"
)

// BatchProcessor analyzes multiple URLs, optionally concurrently.
//
// Design decision: each URL spawns its own Chrome processes, so the
// default concurrency is 1; raising it trades memory for wall time.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline per URL so that step
	// state never leaks between sites.
	pipelineFactory func() *Pipeline

	concurrency int
	logger      *slog.Logger

	results []*model.SiteReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets how many URLs are analyzed at once.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. pipelineFactory is called
// once per URL.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     1,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch analyzes all URLs and returns their reports in input
// order. A failed URL does not stop the others; its report carries the
// error. The returned error reports cancellation only.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]*model.SiteReport, error) {
	bp.logger.Info("starting batch",
		"total_urls", len(urls),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	bp.results = make([]*model.SiteReport, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("analyzing",
				"url", url,
				"index", i+1,
				"total", len(urls),
			)

			report := model.NewSiteReport(url)
			err := bp.pipelineFactory().Execute(ctx, report)
			report.Summary = model.NewSummary(report)

			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				// The error is recorded in the report; other URLs
				// continue.
				bp.logger.Warn("analysis failed", "url", url, "error", err)
				return nil
			}
			bp.logger.Info("analysis completed", "url", url)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch complete",
		"total_urls", len(urls),
		"elapsed", time.Since(startTime),
	)
	return bp.results, err
}
