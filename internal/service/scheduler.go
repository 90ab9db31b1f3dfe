package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/JonnyWalker81/yearinmotion/internal/logger"
)

// NewSyncScheduler registers SyncAll on a standard five-field cron schedule.
// Overlapping runs are skipped. onReport, when set, receives every completed
// pass. The caller starts and stops the returned cron.
func NewSyncScheduler(svc SyncService, schedule string, timeout time.Duration, onReport func(*SyncReport)) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := c.AddFunc(schedule, func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		report, err := svc.SyncAll(ctx)
		if err != nil {
			logger.Error("scheduled sync failed", logger.Err(err))
		}
		if report != nil && onReport != nil {
			onReport(report)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}

	return c, nil
}
