package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/pkg/strava"
)

// ActivityLister is the part of the Strava API client the activity source uses
type ActivityLister interface {
	ListActivities(ctx context.Context, accessToken string, params strava.ListParams) (json.RawMessage, error)
}

// TokenIssuer performs the Strava OAuth grants
type TokenIssuer interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*strava.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*strava.Token, error)
}

// ActivitySource retrieves every activity in a time window, page by page
type ActivitySource interface {
	FetchActivities(ctx context.Context, accessToken string, from, to time.Time, onProgress func(page int)) ([]models.Activity, error)
}

// AuthService manages the OAuth flow and stored sessions
type AuthService interface {
	AuthorizeURL() (string, error)
	HandleCallback(ctx context.Context, code, state string) (*models.Session, error)
	EnsureFresh(ctx context.Context, sessionID string) (*models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	ProxyToken(ctx context.Context, req TokenRequest) (*strava.Token, error)
}

// ReviewService builds year-in-review results
type ReviewService interface {
	Build(activities []models.Activity, year int) (*models.Review, error)
	ForSession(ctx context.Context, session *models.Session, year int) (*models.Review, error)
	Refresh(ctx context.Context, session *models.Session, year int) (*models.Review, error)
	Offline(ctx context.Context, athleteID int64, year int) (*models.Review, error)
	Demo() (*models.Review, error)
}

// SyncService keeps the local activity store current for every session
type SyncService interface {
	SyncAll(ctx context.Context) (*SyncReport, error)
	SyncSession(ctx context.Context, sessionID string) (int, error)
}
