package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// SessionRepository defines the interface for stored Strava sessions
type SessionRepository interface {
	Save(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByAthleteID(ctx context.Context, athleteID int64) (*models.Session, error)
	List(ctx context.Context) ([]models.Session, error)
	Delete(ctx context.Context, id string) error
}

// ActivityRepository defines the interface for the local activity store
type ActivityRepository interface {
	UpsertBatch(ctx context.Context, athleteID int64, activities []models.Activity) error
	// GetByAthleteAndRange returns activities starting in [from, to) ordered by
	// start time. Rows with an unreadable start date are included last.
	GetByAthleteAndRange(ctx context.Context, athleteID int64, from, to time.Time) ([]models.Activity, error)
	CountByAthlete(ctx context.Context, athleteID int64) (int, error)
}
