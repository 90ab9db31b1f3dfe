// Package cache stores finished reviews so repeated page loads skip the
// Strava round trip.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
)

// ErrMiss is returned by Get when no review is cached for the key.
var ErrMiss = errors.New("cache: miss")

// ReviewCache is the interface the review service depends on.
type ReviewCache interface {
	Get(ctx context.Context, athleteID int64, year int) (*models.Review, error)
	Set(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, athleteID int64, year int) error
}

// Key returns the storage key for an athlete's year without the prefix.
func Key(athleteID int64, year int) string {
	return fmt.Sprintf("review:%d:%d", athleteID, year)
}

type noopCache struct{}

// NewNoop returns a cache that never stores anything.
func NewNoop() ReviewCache {
	return noopCache{}
}

func (noopCache) Get(context.Context, int64, int) (*models.Review, error) { return nil, ErrMiss }
func (noopCache) Set(context.Context, *models.Review) error               { return nil }
func (noopCache) Delete(context.Context, int64, int) error                { return nil }
