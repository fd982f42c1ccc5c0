package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/precheck/internal/model"
)

// fakeStep records invocations and optionally fails.
type fakeStep struct {
	name   string
	err    error
	called int
}

func (f *fakeStep) Do(_ context.Context, _ *model.SiteReport) error {
	f.called++
	return f.err
}

func (f *fakeStep) Name() string { return f.name }

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()
		var order []string
		p := New()
		for _, name := range []string{"first", "second", "third"} {
			p.AddStep(&orderedStep{name: name, order: &order})
		}

		report := model.NewSiteReport("https://example.com")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if len(order) != 3 || order[0] != "first" || order[2] != "third" {
			t.Errorf("unexpected execution order %v", order)
		}
		if len(report.PerformedModules) != 3 {
			t.Errorf("expected 3 performed modules, got %v", report.PerformedModules)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		failing := &fakeStep{name: "failing", err: boom}
		after := &fakeStep{name: "after"}

		p := New()
		p.AddSteps(failing, after)

		report := model.NewSiteReport("https://example.com")
		if err := p.Execute(context.Background(), report); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if after.called != 0 {
			t.Error("subsequent step must not run after a failure")
		}
		if report.ErrorMessage != "boom" {
			t.Errorf("error not recorded on report: %q", report.ErrorMessage)
		}
	})

	t.Run("continue on error runs remaining steps", func(t *testing.T) {
		t.Parallel()
		failing := &fakeStep{name: "failing", err: errors.New("boom")}
		after := &fakeStep{name: "after"}

		p := New(WithContinueOnError(true))
		p.AddSteps(failing, after)

		report := model.NewSiteReport("https://example.com")
		if err := p.Execute(context.Background(), report); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if after.called != 1 {
			t.Error("subsequent step should run with continueOnError")
		}
		if len(report.PerformedModules) != 2 {
			t.Errorf("expected both modules performed, got %v", report.PerformedModules)
		}
	})

	t.Run("canceled context marks report timed out", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &fakeStep{name: "never"}
		p := New()
		p.AddStep(step)

		report := model.NewSiteReport("https://example.com")
		if err := p.Execute(ctx, report); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if !report.TimedOut {
			t.Error("report must be marked as timed out")
		}
		if step.called != 0 {
			t.Error("step must not run after cancellation")
		}
	})
}

// orderedStep appends its name to a shared slice when run.
type orderedStep struct {
	name  string
	order *[]string
}

func (o *orderedStep) Do(_ context.Context, _ *model.SiteReport) error {
	*o.order = append(*o.order, o.name)
	return nil
}

func (o *orderedStep) Name() string { return o.name }

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(&fakeStep{name: "score"}, &fakeStep{name: "screenshot"})

	if p.StepCount() != 2 {
		t.Errorf("StepCount() = %d, want 2", p.StepCount())
	}
	names := p.StepNames()
	if names[0] != "score" || names[1] != "screenshot" {
		t.Errorf("unexpected names %v", names)
	}
}
