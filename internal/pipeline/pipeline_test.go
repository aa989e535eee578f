package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/therapytips/tipsgen/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, build *model.Build) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, build *model.Build) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, build)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

func newTestBuild() *model.Build {
	return model.NewBuild("dev", "builds/dev")
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline without steps", func(t *testing.T) {
		t.Parallel()

		if p := New(); p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
	})

	t.Run("maintains step order", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "first"})
		p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

		names := p.StepNames()
		expected := []string{"first", "second", "third"}
		if len(names) != len(expected) {
			t.Fatalf("expected %d names, got %v", len(expected), names)
		}
		for i, name := range names {
			if name != expected[i] {
				t.Errorf("step %d: got %q, expected %q", i, name, expected[i])
			}
		}
	})

	t.Run("final steps are not counted", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddFinally(&mockStep{name: "record"})
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
	})
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) func(context.Context, *model.Build) error {
			return func(context.Context, *model.Build) error {
				order = append(order, name)
				return nil
			}
		}

		p := New()
		p.AddSteps(&mockStep{name: "step-1", doFunc: record("step-1")}, &mockStep{name: "step-2", doFunc: record("step-2")})
		p.AddFinally(&mockStep{name: "final", doFunc: record("final")})

		build := newTestBuild()
		if err := p.Execute(context.Background(), build); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 3 || order[0] != "step-1" || order[1] != "step-2" || order[2] != "final" {
			t.Errorf("wrong execution order: %v", order)
		}
		if len(build.Steps) != 2 {
			t.Errorf("expected 2 completed steps, got %v", build.Steps)
		}
		if build.FinishedAt.IsZero() || !build.Succeeded() {
			t.Error("expected a finished, successful build")
		}
	})

	t.Run("stops on first error and records it", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("step failed")
		second := &mockStep{name: "should-not-run"}
		final := &mockStep{name: "final"}

		p := New()
		p.AddSteps(&mockStep{
			name: "failing-step",
			doFunc: func(context.Context, *model.Build) error {
				return expectedErr
			},
		}, second)
		p.AddFinally(final)

		build := newTestBuild()
		err := p.Execute(context.Background(), build)

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if second.callCount != 0 {
			t.Error("second step should not have been called")
		}
		if final.callCount != 1 {
			t.Error("final step must run after a failure")
		}
		if build.Succeeded() || build.ErrorMessage != expectedErr.Error() {
			t.Errorf("expected recorded error, got %q", build.ErrorMessage)
		}
		if len(build.Steps) != 0 {
			t.Errorf("failed step must not be recorded as completed, got %v", build.Steps)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		step := &mockStep{name: "should-not-run"}
		var finalCtxErr error
		p := New()
		p.AddStep(step)
		p.AddFinally(&mockStep{
			name: "final",
			doFunc: func(ctx context.Context, _ *model.Build) error {
				finalCtxErr = ctx.Err()
				return nil
			},
		})

		build := newTestBuild()
		err := p.Execute(ctx, build)

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("step should not have been called")
		}
		if finalCtxErr != nil {
			t.Errorf("final steps run with a live context, got %v", finalCtxErr)
		}
	})

	t.Run("final step errors are not returned", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddFinally(&mockStep{
			name: "final",
			doFunc: func(context.Context, *model.Build) error {
				return errors.New("disk full")
			},
		})

		build := newTestBuild()
		if err := p.Execute(context.Background(), build); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !build.Succeeded() {
			t.Error("final step failures do not fail the build")
		}
	})
}
