package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"DigestCurator/internal/domain"
	"DigestCurator/internal/ports"
)

// Scheduler wires the cron driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger}
}

// Start registers the pipeline with the provided scheduler. Run failures
// are logged; the schedule keeps going.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	return s.driver.Start(ctx, func(trigger time.Time) {
		s.RunOnce(ctx, trigger)
	})
}

// RunOnce executes a single scheduled run and logs its outcome.
func (s *Scheduler) RunOnce(ctx context.Context, trigger time.Time) {
	_, err := s.pipeline.Run(ctx, trigger)
	if s.logger == nil {
		return
	}
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoRelevantContent):
		s.logger.Info("scheduled run found no relevant content", "trigger", trigger)
	default:
		s.logger.Error("scheduled run failed", "trigger", trigger, "error", err)
	}
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
