package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"DigestCurator/internal/ports"
)

// CronScheduler triggers jobs from a standard five-field cron expression.
type CronScheduler struct {
	spec     string
	location *time.Location

	mu     sync.Mutex
	engine *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler for spec evaluated in loc (UTC when nil).
func NewCronScheduler(spec string, loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{spec: spec, location: loc}
}

// Start registers job and begins firing. Calling Start twice is a no-op.
// Firing continues until Stop is called.
func (c *CronScheduler) Start(_ context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine != nil {
		return nil
	}

	engine := cron.New(cron.WithLocation(c.location))
	if _, err := engine.AddFunc(c.spec, func() { job(time.Now().In(c.location)) }); err != nil {
		return fmt.Errorf("schedule %q: %w", c.spec, err)
	}
	engine.Start()
	c.engine = engine
	return nil
}

// Next returns the next activation after t, or zero time for a bad expression.
func (c *CronScheduler) Next(t time.Time) time.Time {
	schedule, err := cron.ParseStandard(c.spec)
	if err != nil {
		return time.Time{}
	}
	return schedule.Next(t.In(c.location))
}

// Stop halts scheduling and waits for a running job until ctx expires.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	engine := c.engine
	c.engine = nil
	c.mu.Unlock()

	if engine == nil {
		return nil
	}

	done := engine.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
