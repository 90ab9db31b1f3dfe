package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JonnyWalker81/yearinmotion/internal/cache"
	"github.com/JonnyWalker81/yearinmotion/internal/logger"
	"github.com/JonnyWalker81/yearinmotion/internal/repository"
)

// SyncReport summarises one SyncAll pass
type SyncReport struct {
	Sessions   int           `json:"sessions"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	Activities int           `json:"activities"`
	Duration   time.Duration `json:"duration"`
}

// SyncOptions configures which year is synced and how many athletes at once
type SyncOptions struct {
	Year        int
	Location    *time.Location
	Concurrency int
}

type syncService struct {
	auth       AuthService
	sessions   repository.SessionRepository
	source     ActivitySource
	activities repository.ActivityRepository
	cache      cache.ReviewCache
	opts       SyncOptions
}

// NewSyncService creates a new sync service
func NewSyncService(
	auth AuthService,
	sessions repository.SessionRepository,
	source ActivitySource,
	activities repository.ActivityRepository,
	reviews cache.ReviewCache,
	opts SyncOptions,
) SyncService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if reviews == nil {
		reviews = cache.NewNoop()
	}
	return &syncService{
		auth:       auth,
		sessions:   sessions,
		source:     source,
		activities: activities,
		cache:      reviews,
		opts:       opts,
	}
}

// SyncAll refreshes the stored activities of every session. A failing
// athlete is logged and counted; it does not stop the others.
func (s *syncService) SyncAll(ctx context.Context) (*SyncReport, error) {
	started := time.Now()

	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	report := &SyncReport{Sessions: len(sessions)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for _, session := range sessions {
		session := session
		g.Go(func() error {
			sctx := logger.WithAthleteID(gctx, session.AthleteID)
			n, err := s.SyncSession(sctx, session.ID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				syncRuns.WithLabelValues("failed").Inc()
				logger.Ctx(sctx).Warn("sync failed for athlete", logger.Err(err))
				return nil
			}
			report.Succeeded++
			report.Activities += n
			syncRuns.WithLabelValues("ok").Inc()
			return nil
		})
	}

	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	report.Duration = time.Since(started)
	syncDuration.Observe(report.Duration.Seconds())

	logger.Info("sync pass complete",
		logger.Int("sessions", report.Sessions),
		logger.Int("succeeded", report.Succeeded),
		logger.Int("failed", report.Failed),
		logger.Int("activities", report.Activities),
		logger.Duration("duration", report.Duration))

	return report, ctx.Err()
}

// SyncSession fetches the configured year for one session, stores the
// activities and drops the cached review. It returns the number fetched.
func (s *syncService) SyncSession(ctx context.Context, sessionID string) (int, error) {
	session, err := s.auth.EnsureFresh(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	from, to := YearWindow(s.opts.Year, s.opts.Location)
	activities, err := s.source.FetchActivities(ctx, session.AccessToken, from, to, nil)
	if err != nil {
		return 0, err
	}

	if err := s.activities.UpsertBatch(ctx, session.AthleteID, activities); err != nil {
		return 0, fmt.Errorf("failed to store activities: %w", err)
	}

	if err := s.cache.Delete(ctx, session.AthleteID, s.opts.Year); err != nil && !errors.Is(err, cache.ErrMiss) {
		logger.Ctx(ctx).Warn("review cache delete failed", logger.Err(err))
	}

	return len(activities), nil
}
