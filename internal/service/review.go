package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonnyWalker81/yearinmotion/internal/cache"
	"github.com/JonnyWalker81/yearinmotion/internal/insights"
	"github.com/JonnyWalker81/yearinmotion/internal/logger"
	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/repository"
	"github.com/JonnyWalker81/yearinmotion/internal/stats"
	"github.com/JonnyWalker81/yearinmotion/pkg/strava"
)

type reviewService struct {
	source     ActivitySource
	activities repository.ActivityRepository
	cache      cache.ReviewCache
	loc        *time.Location
	now        func() time.Time
}

// NewReviewService creates a new review service. loc buckets activities into
// weekdays and months; nil means UTC. A nil cache disables caching.
func NewReviewService(source ActivitySource, activities repository.ActivityRepository, reviews cache.ReviewCache, loc *time.Location) ReviewService {
	if loc == nil {
		loc = time.UTC
	}
	if reviews == nil {
		reviews = cache.NewNoop()
	}
	return &reviewService{
		source:     source,
		activities: activities,
		cache:      reviews,
		loc:        loc,
		now:        time.Now,
	}
}

// YearWindow returns [Jan 1 of year, Jan 1 of year+1) in loc
func YearWindow(year int, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(1, 0, 0)
}

// Build aggregates activities and generates the headline insights.
// Malformed input surfaces as a *stats.MalformedInputError.
func (s *reviewService) Build(activities []models.Activity, year int) (*models.Review, error) {
	aggregated, err := stats.Aggregate(activities, stats.Options{
		Location: s.loc,
		OnSkip: func(activityID int64, reason string) {
			paceSkips.Inc()
			logger.Debug("run skipped for pace",
				logger.Int64("activity_id", activityID),
				logger.String("reason", reason))
		},
	})
	if err != nil {
		return nil, err
	}

	return &models.Review{
		Year:        year,
		Stats:       aggregated,
		Insights:    insights.Generate(aggregated),
		GeneratedAt: s.now().UTC(),
	}, nil
}

// ForSession serves the cached review when present, otherwise fetches the
// year from Strava, stores the activities and caches the result.
func (s *reviewService) ForSession(ctx context.Context, session *models.Session, year int) (*models.Review, error) {
	log := logger.Ctx(ctx)

	cached, err := s.cache.Get(ctx, session.AthleteID, year)
	switch {
	case err == nil:
		reviewsBuilt.WithLabelValues(sourceCache).Inc()
		return cached, nil
	case !errors.Is(err, cache.ErrMiss):
		log.Warn("review cache read failed", logger.Err(err))
	}

	return s.build(ctx, session, year)
}

// Refresh drops any cached review and rebuilds from Strava
func (s *reviewService) Refresh(ctx context.Context, session *models.Session, year int) (*models.Review, error) {
	if err := s.cache.Delete(ctx, session.AthleteID, year); err != nil {
		logger.Ctx(ctx).Warn("review cache delete failed", logger.Err(err))
	}
	return s.build(ctx, session, year)
}

func (s *reviewService) build(ctx context.Context, session *models.Session, year int) (*models.Review, error) {
	log := logger.Ctx(ctx)
	from, to := YearWindow(year, s.loc)

	activities, err := s.source.FetchActivities(ctx, session.AccessToken, from, to, func(page int) {
		log.Debug("fetching activities page", logger.Int("page", page))
	})
	if err != nil {
		var apiErr *strava.APIError
		if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
			return nil, fmt.Errorf("%w: %v", ErrReconnect, err)
		}
		return nil, err
	}

	if s.activities != nil {
		if err := s.activities.UpsertBatch(ctx, session.AthleteID, activities); err != nil {
			log.Warn("failed to store activities", logger.Err(err))
		}
	}

	review, err := s.Build(activities, year)
	if err != nil {
		return nil, err
	}
	review.AthleteID = session.AthleteID
	reviewsBuilt.WithLabelValues(sourceLive).Inc()

	if err := s.cache.Set(ctx, review); err != nil {
		log.Warn("review cache write failed", logger.Err(err))
	}

	log.Info("review built",
		logger.Int("year", year),
		logger.Int("activities", len(activities)))

	return review, nil
}

// Offline builds a review from stored activities without calling Strava
func (s *reviewService) Offline(ctx context.Context, athleteID int64, year int) (*models.Review, error) {
	if s.activities == nil {
		return nil, errors.New("no activity store configured")
	}

	from, to := YearWindow(year, s.loc)
	activities, err := s.activities.GetByAthleteAndRange(ctx, athleteID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored activities: %w", err)
	}

	review, err := s.Build(activities, year)
	if err != nil {
		return nil, err
	}
	review.AthleteID = athleteID
	reviewsBuilt.WithLabelValues(sourceOffline).Inc()
	return review, nil
}

// Demo reviews the built-in sample year
func (s *reviewService) Demo() (*models.Review, error) {
	review, err := s.Build(models.DemoActivities(), models.DemoYear)
	if err != nil {
		return nil, err
	}
	reviewsBuilt.WithLabelValues(sourceDemo).Inc()
	return review, nil
}
