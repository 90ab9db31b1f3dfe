package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/pkg/strava"
)

var authNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestAuth(issuer TokenIssuer, repo *mockSessionRepository) (*authService, *strava.StateStore) {
	states := strava.NewStateStore()
	svc := NewAuthService(issuer, states, repo).(*authService)
	svc.now = func() time.Time { return authNow }
	return svc, states
}

func stateFrom(t *testing.T, authURL string) string {
	t.Helper()
	u, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("parse %q: %v", authURL, err)
	}
	return u.Query().Get("state")
}

func TestAuthorizeURL_NotConfigured(t *testing.T) {
	svc, _ := newTestAuth(nil, newMockSessionRepository())

	if _, err := svc.AuthorizeURL(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestHandleCallback_NewSession(t *testing.T) {
	issuer := &mockIssuer{exchangeToken: &strava.Token{
		AccessToken: "access", RefreshToken: "refresh", ExpiresAt: authNow.Unix() + 21600, AthleteID: 42,
	}}
	repo := newMockSessionRepository()
	svc, states := newTestAuth(issuer, repo)

	authURL, err := svc.AuthorizeURL()
	if err != nil {
		t.Fatalf("AuthorizeURL() error: %v", err)
	}
	state := stateFrom(t, authURL)
	if states.Len() != 1 {
		t.Fatalf("outstanding states = %d, want 1", states.Len())
	}

	session, err := svc.HandleCallback(context.Background(), "the-code", state)
	if err != nil {
		t.Fatalf("HandleCallback() error: %v", err)
	}

	if session.AthleteID != 42 || session.AccessToken != "access" || session.RefreshToken != "refresh" {
		t.Errorf("session = %+v", session)
	}
	if err := ValidateSessionID(session.ID, time.Now()); err != nil {
		t.Errorf("session id %q invalid: %v", session.ID, err)
	}
	if _, err := repo.GetByID(context.Background(), session.ID); err != nil {
		t.Errorf("session not persisted: %v", err)
	}
	if len(issuer.exchanged) != 1 || issuer.exchanged[0] != "the-code" {
		t.Errorf("exchanged = %v", issuer.exchanged)
	}

	// state is single use
	if _, err := svc.HandleCallback(context.Background(), "the-code", state); !errors.Is(err, ErrInvalidState) {
		t.Errorf("replayed state err = %v, want ErrInvalidState", err)
	}
}

func TestHandleCallback_ReusesAthleteSession(t *testing.T) {
	existingID := uuidV7At(authNow.Add(-48 * time.Hour)).String()
	created := authNow.Add(-48 * time.Hour)
	repo := newMockSessionRepository(models.Session{
		ID: existingID, AthleteID: 42, AccessToken: "old", RefreshToken: "old-r", CreatedAt: created,
	})
	issuer := &mockIssuer{exchangeToken: &strava.Token{AccessToken: "new", RefreshToken: "new-r", AthleteID: 42}}
	svc, _ := newTestAuth(issuer, repo)

	authURL, _ := svc.AuthorizeURL()
	session, err := svc.HandleCallback(context.Background(), "code", stateFrom(t, authURL))
	if err != nil {
		t.Fatalf("HandleCallback() error: %v", err)
	}

	if session.ID != existingID {
		t.Errorf("ID = %s, want existing %s", session.ID, existingID)
	}
	if !session.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", session.CreatedAt, created)
	}
	if len(repo.sessions) != 1 {
		t.Errorf("stored sessions = %d, want 1", len(repo.sessions))
	}
	if repo.sessions[existingID].AccessToken != "new" {
		t.Errorf("stored access token = %q, want new", repo.sessions[existingID].AccessToken)
	}
}

func TestHandleCallback_Errors(t *testing.T) {
	exchangeErr := errors.New("bad code")

	tests := []struct {
		name    string
		issuer  TokenIssuer
		code    string
		state   func(svc *authService) string
		wantErr error
	}{
		{
			name:    "unknown state",
			issuer:  &mockIssuer{},
			code:    "code",
			state:   func(*authService) string { return "forged" },
			wantErr: ErrInvalidState,
		},
		{
			name:   "missing code",
			issuer: &mockIssuer{},
			state: func(svc *authService) string {
				s, _ := svc.states.Generate()
				return s
			},
			wantErr: ErrMissingGrantValue,
		},
		{
			name:   "exchange rejected",
			issuer: &mockIssuer{exchangeErr: exchangeErr},
			code:   "code",
			state: func(svc *authService) string {
				s, _ := svc.states.Generate()
				return s
			},
			wantErr: exchangeErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAuth(tt.issuer, newMockSessionRepository())
			_, err := svc.HandleCallback(context.Background(), tt.code, tt.state(svc))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureFresh(t *testing.T) {
	id := uuidV7At(authNow.Add(-time.Hour)).String()

	tests := []struct {
		name          string
		session       models.Session
		issuer        *mockIssuer
		wantErr       error
		wantAccess    string
		wantRefreshed bool
		wantDeleted   bool
	}{
		{
			name:       "valid token untouched",
			session:    models.Session{ID: id, AthleteID: 1, AccessToken: "a", RefreshToken: "r", ExpiresAt: authNow.Unix() + 3600},
			issuer:     &mockIssuer{},
			wantAccess: "a",
		},
		{
			name:       "exactly at skew boundary is still fresh",
			session:    models.Session{ID: id, AthleteID: 1, AccessToken: "a", RefreshToken: "r", ExpiresAt: authNow.Unix() + 300},
			issuer:     &mockIssuer{},
			wantAccess: "a",
		},
		{
			name:          "inside skew refreshes",
			session:       models.Session{ID: id, AthleteID: 1, AccessToken: "a", RefreshToken: "r", ExpiresAt: authNow.Unix() + 299},
			issuer:        &mockIssuer{refreshToken: &strava.Token{AccessToken: "b", RefreshToken: "r2", ExpiresAt: authNow.Unix() + 21600}},
			wantAccess:    "b",
			wantRefreshed: true,
		},
		{
			name:          "refresh rejected",
			session:       models.Session{ID: id, AthleteID: 1, AccessToken: "a", RefreshToken: "r", ExpiresAt: authNow.Unix() - 10},
			issuer:        &mockIssuer{refreshErr: strava.ErrTokenExchange},
			wantErr:       ErrReconnect,
			wantRefreshed: true,
			wantDeleted:   true,
		},
		{
			name:        "no refresh token",
			session:     models.Session{ID: id, AthleteID: 1, AccessToken: "a", ExpiresAt: authNow.Unix() - 10},
			issuer:      &mockIssuer{},
			wantErr:     ErrReconnect,
			wantDeleted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockSessionRepository(tt.session)
			svc, _ := newTestAuth(tt.issuer, repo)

			got, err := svc.EnsureFresh(context.Background(), id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("EnsureFresh() error: %v", err)
				}
				if got.AccessToken != tt.wantAccess {
					t.Errorf("AccessToken = %q, want %q", got.AccessToken, tt.wantAccess)
				}
			}

			if refreshed := len(tt.issuer.refreshed) > 0; refreshed != tt.wantRefreshed {
				t.Errorf("refreshed = %v, want %v", refreshed, tt.wantRefreshed)
			}
			_, lookupErr := repo.GetByID(context.Background(), id)
			if deleted := lookupErr != nil; deleted != tt.wantDeleted {
				t.Errorf("deleted = %v, want %v", deleted, tt.wantDeleted)
			}
		})
	}
}

func TestEnsureFresh_PersistsRefresh(t *testing.T) {
	id := uuidV7At(authNow.Add(-time.Hour)).String()
	repo := newMockSessionRepository(models.Session{
		ID: id, AthleteID: 1, AccessToken: "a", RefreshToken: "r", ExpiresAt: authNow.Unix(),
	})
	issuer := &mockIssuer{refreshToken: &strava.Token{AccessToken: "b", ExpiresAt: authNow.Unix() + 21600}}
	svc, _ := newTestAuth(issuer, repo)

	if _, err := svc.EnsureFresh(context.Background(), id); err != nil {
		t.Fatalf("EnsureFresh() error: %v", err)
	}

	stored := repo.sessions[id]
	if stored.AccessToken != "b" {
		t.Errorf("stored AccessToken = %q, want b", stored.AccessToken)
	}
	// Strava may omit a rotated refresh token
	if stored.RefreshToken != "r" {
		t.Errorf("stored RefreshToken = %q, want r", stored.RefreshToken)
	}
	if stored.ExpiresAt != authNow.Unix()+21600 {
		t.Errorf("stored ExpiresAt = %d", stored.ExpiresAt)
	}
}

func TestEnsureFresh_UnknownSession(t *testing.T) {
	svc, _ := newTestAuth(&mockIssuer{}, newMockSessionRepository())

	for _, id := range []string{"garbage", uuidV7At(authNow).String()} {
		if _, err := svc.EnsureFresh(context.Background(), id); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("EnsureFresh(%q) err = %v, want ErrSessionNotFound", id, err)
		}
	}
}

func TestLogout(t *testing.T) {
	id := uuidV7At(authNow).String()
	repo := newMockSessionRepository(models.Session{ID: id, AthleteID: 1})
	svc, _ := newTestAuth(&mockIssuer{}, repo)

	if err := svc.Logout(context.Background(), id); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if len(repo.sessions) != 0 {
		t.Error("session not deleted")
	}
	if err := svc.Logout(context.Background(), id); err != nil {
		t.Errorf("second Logout() error: %v", err)
	}
}

func TestProxyToken(t *testing.T) {
	tok := &strava.Token{AccessToken: "a", RefreshToken: "r", ExpiresAt: 1}

	tests := []struct {
		name          string
		issuer        TokenIssuer
		req           TokenRequest
		wantErr       error
		wantExchanged bool
		wantRefreshed bool
	}{
		{"code grant", &mockIssuer{exchangeToken: tok}, TokenRequest{GrantType: GrantAuthorizationCode, Code: "c"}, nil, true, false},
		{"grant defaults to code", &mockIssuer{exchangeToken: tok}, TokenRequest{Code: "c"}, nil, true, false},
		{"refresh grant", &mockIssuer{refreshToken: tok}, TokenRequest{GrantType: GrantRefreshToken, RefreshToken: "r"}, nil, false, true},
		{"missing code", &mockIssuer{}, TokenRequest{GrantType: GrantAuthorizationCode}, ErrMissingGrantValue, false, false},
		{"missing refresh token", &mockIssuer{}, TokenRequest{GrantType: GrantRefreshToken}, ErrMissingGrantValue, false, false},
		{"unknown grant", &mockIssuer{}, TokenRequest{GrantType: "password"}, ErrUnsupportedGrant, false, false},
		{"not configured", nil, TokenRequest{Code: "c"}, ErrNotConfigured, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAuth(tt.issuer, newMockSessionRepository())

			got, err := svc.ProxyToken(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ProxyToken() error: %v", err)
			}
			if got.AccessToken != "a" {
				t.Errorf("AccessToken = %q", got.AccessToken)
			}

			m := tt.issuer.(*mockIssuer)
			if (len(m.exchanged) > 0) != tt.wantExchanged {
				t.Errorf("exchanged = %v, want %v", m.exchanged, tt.wantExchanged)
			}
			if (len(m.refreshed) > 0) != tt.wantRefreshed {
				t.Errorf("refreshed = %v, want %v", m.refreshed, tt.wantRefreshed)
			}
		})
	}
}
