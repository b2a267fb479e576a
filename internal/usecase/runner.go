package usecase

import (
	"context"
	"log/slog"
	"time"

	"newsdigest/internal/ports"
)

// Runner drives the pipeline from a scheduler in daemon mode.
type Runner struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewRunner bridges the scheduler driver and the pipeline use case.
func NewRunner(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Runner {
	return &Runner{driver: driver, pipeline: pipeline, logger: logger}
}

// Run registers the pipeline job and blocks until the context ends.
func (r *Runner) Run(ctx context.Context) error {
	if r.driver == nil || r.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if err := r.pipeline.Run(ctx, trigger); err != nil && r.logger != nil {
			r.logger.Error("scheduled run failed", "error", err)
		}
	}

	if err := r.driver.Start(ctx, job); err != nil {
		return err
	}

	<-ctx.Done()
	return r.driver.Stop(context.Background())
}
