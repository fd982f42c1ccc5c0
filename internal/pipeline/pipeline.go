package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/precheck/internal/model"
)

// Step is one analysis module executed against a URL. Steps run in
// sequence and accumulate their output on the shared site report.
//
// Design decision: an interface rather than function types because
// steps carry configuration (browser, API client, output layout) and a
// Name() for logging.
type Step interface {
	// Do executes the step. Failures that only degrade the report
	// (one viewport failing, a missing artifact) should be recorded on
	// the report and return nil; returned errors abort the URL.
	Do(ctx context.Context, report *model.SiteReport) error

	// Name returns the step's name for logging and the report's
	// performed-modules list.
	Name() string
}

// Pipeline executes the enabled analysis steps for one URL.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError keeps executing steps after one fails. The run
	// command enables this so a broken screenshot does not block the
	// PageSpeed analysis.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps executing steps after a failure. The error
// is recorded on the report either way.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a Pipeline. Add steps with AddStep or AddSteps.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step. Steps run in insertion order.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps against the report. Cancellation is checked
// between steps; steps bound their own work with per-step timeouts.
func (p *Pipeline) Execute(ctx context.Context, report *model.SiteReport) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline canceled",
				"step", step.Name(),
				"url", report.URL,
				"reason", ctx.Err(),
			)
			report.TimedOut = true
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step", "step", step.Name(), "url", report.URL)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"url", report.URL,
				"error", err,
			)
			report.Error = err
			report.ErrorMessage = err.Error()
			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed", "step", step.Name(), "url", report.URL)
		}

		report.PerformedModules = append(report.PerformedModules, step.Name())
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
