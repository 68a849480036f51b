package cron

import (
	"context"
	"time"
)

// Warmer refreshes cached aggregates ahead of user requests.
type Warmer interface {
	Warm(ctx context.Context) error
}

// WarmupJobName identifies the dashboard warm-up in logs.
const WarmupJobName = "dashboard_cache_warmup"

// RegisterWarmup schedules w every interval. A non-positive interval disables the job.
func RegisterWarmup(scheduler *Scheduler, interval time.Duration, w Warmer) bool {
	if interval <= 0 {
		return false
	}
	scheduler.AddJob(WarmupJobName, interval, func(ctx context.Context) error {
		// bound each run so a hung upstream cannot stack up runs
		runCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		return w.Warm(runCtx)
	})
	return true
}
