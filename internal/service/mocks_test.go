package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/JonnyWalker81/yearinmotion/internal/cache"
	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/repository"
	"github.com/JonnyWalker81/yearinmotion/pkg/strava"
)

// mockLister serves pre-encoded pages; pages past the end are empty.
type mockLister struct {
	mu     sync.Mutex
	pages  []string
	err    error
	errAt  int
	calls  []strava.ListParams
	tokens []string
}

func (m *mockLister) ListActivities(ctx context.Context, token string, params strava.ListParams) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, params)
	m.tokens = append(m.tokens, token)
	if m.err != nil && params.Page >= m.errAt {
		return nil, m.err
	}
	if params.Page-1 < len(m.pages) {
		return json.RawMessage(m.pages[params.Page-1]), nil
	}
	return json.RawMessage("[]"), nil
}

type mockIssuer struct {
	exchangeToken *strava.Token
	exchangeErr   error
	refreshToken  *strava.Token
	refreshErr    error
	exchanged     []string
	refreshed     []string
}

func (m *mockIssuer) AuthCodeURL(state string) string {
	return "https://strava.test/oauth/authorize?state=" + state
}

func (m *mockIssuer) Exchange(ctx context.Context, code string) (*strava.Token, error) {
	m.exchanged = append(m.exchanged, code)
	if m.exchangeErr != nil {
		return nil, m.exchangeErr
	}
	return m.exchangeToken, nil
}

func (m *mockIssuer) Refresh(ctx context.Context, refreshToken string) (*strava.Token, error) {
	m.refreshed = append(m.refreshed, refreshToken)
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return m.refreshToken, nil
}

// mockSessionRepository is an in-memory session store
type mockSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	listErr  error
}

func newMockSessionRepository(sessions ...models.Session) *mockSessionRepository {
	m := &mockSessionRepository{sessions: make(map[string]models.Session)}
	for _, s := range sessions {
		m.sessions[s.ID] = s
	}
	return m
}

func (m *mockSessionRepository) Save(ctx context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *mockSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *mockSessionRepository) GetByAthleteID(ctx context.Context, athleteID int64) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.AthleteID == athleteID {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockSessionRepository) List(ctx context.Context) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSessionRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

type mockActivityRepository struct {
	mu       sync.Mutex
	stored   map[int64][]models.Activity
	upserts  int
	rangeErr error
}

func newMockActivityRepository() *mockActivityRepository {
	return &mockActivityRepository{stored: make(map[int64][]models.Activity)}
}

func (m *mockActivityRepository) UpsertBatch(ctx context.Context, athleteID int64, activities []models.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	m.stored[athleteID] = append([]models.Activity(nil), activities...)
	return nil
}

func (m *mockActivityRepository) GetByAthleteAndRange(ctx context.Context, athleteID int64, from, to time.Time) ([]models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
	return m.stored[athleteID], nil
}

func (m *mockActivityRepository) CountByAthlete(ctx context.Context, athleteID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stored[athleteID]), nil
}

// mockCache is an in-memory ReviewCache
type mockCache struct {
	mu      sync.Mutex
	reviews map[string]*models.Review
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{reviews: make(map[string]*models.Review)}
}

func (m *mockCache) Get(ctx context.Context, athleteID int64, year int) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[cache.Key(athleteID, year)]
	if !ok {
		return nil, cache.ErrMiss
	}
	return r, nil
}

func (m *mockCache) Set(ctx context.Context, r *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[cache.Key(r.AthleteID, r.Year)] = r
	return nil
}

func (m *mockCache) Delete(ctx context.Context, athleteID int64, year int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.reviews, cache.Key(athleteID, year))
	return nil
}

// mockSource returns fixed activities per access token
type mockSource struct {
	mu         sync.Mutex
	byToken    map[string][]models.Activity
	err        error
	calls      int
	lastWindow [2]time.Time
}

func (m *mockSource) FetchActivities(ctx context.Context, token string, from, to time.Time, onProgress func(int)) ([]models.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastWindow = [2]time.Time{from, to}
	if m.err != nil {
		return nil, m.err
	}
	if onProgress != nil {
		onProgress(1)
	}
	return m.byToken[token], nil
}

// mockAuth resolves sessions from a repository without refreshing
type mockAuth struct {
	sessions *mockSessionRepository
	failFor  map[string]error
}

func (m *mockAuth) AuthorizeURL() (string, error) { return "", nil }

func (m *mockAuth) HandleCallback(ctx context.Context, code, state string) (*models.Session, error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *mockAuth) EnsureFresh(ctx context.Context, sessionID string) (*models.Session, error) {
	if err, ok := m.failFor[sessionID]; ok {
		return nil, err
	}
	return m.sessions.GetByID(ctx, sessionID)
}

func (m *mockAuth) Logout(ctx context.Context, sessionID string) error { return nil }

func (m *mockAuth) ProxyToken(ctx context.Context, req TokenRequest) (*strava.Token, error) {
	return nil, fmt.Errorf("not implemented")
}

func run(id int64, distance, elevation, movingTime float64, kudos int64, start string) models.Activity {
	return models.Activity{
		ID:                 id,
		Type:               models.ActivityTypeRun,
		Distance:           models.NewNullableFloat(distance),
		TotalElevationGain: models.NewNullableFloat(elevation),
		MovingTime:         models.NewNullableFloat(movingTime),
		KudosCount:         models.NewNullableInt(kudos),
		StartDate:          start,
	}
}
