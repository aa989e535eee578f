package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/therapytips/tipsgen/internal/model"
)

// Step is one stage of a build.
type Step interface {
	// Do executes the step against the build. A returned error stops the
	// pipeline and is recorded on the build.
	Do(ctx context.Context, build *model.Build) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline runs steps in order and stops at the first failure.
type Pipeline struct {
	steps []Step

	// finally steps run after the main steps whatever their outcome.
	finally []Step

	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// AddFinally registers a step that runs once the main steps are done, even
// when one of them failed or the context was cancelled. Its errors are
// logged and never returned.
func (p *Pipeline) AddFinally(step Step) {
	p.finally = append(p.finally, step)
}

// Execute runs the steps in sequence. Cancellation is checked before each
// step. The first error is recorded on the build and returned.
func (p *Pipeline) Execute(ctx context.Context, build *model.Build) error {
	err := p.run(ctx, build)
	build.FinishedAt = time.Now()
	if err != nil {
		build.Err = err
		build.ErrorMessage = err.Error()
	}

	finalCtx := context.WithoutCancel(ctx)
	for _, step := range p.finally {
		if ferr := step.Do(finalCtx, build); ferr != nil {
			p.logger.Warn("final step failed", "step", step.Name(), "build", build.ID, "error", ferr)
		}
	}
	return err
}

func (p *Pipeline) run(ctx context.Context, build *model.Build) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"env", build.Environment,
				"reason", err,
			)
			return err
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"env", build.Environment,
		)

		if err := step.Do(ctx, build); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"env", build.Environment,
				"error", err,
			)
			return err
		}

		p.logger.Debug("step completed", "step", step.Name(), "env", build.Environment)
		build.Steps = append(build.Steps, step.Name())
	}
	return nil
}

// StepCount returns the number of main steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of the main steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
