package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonnyWalker81/yearinmotion/internal/logger"
	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/repository"
	"github.com/JonnyWalker81/yearinmotion/pkg/strava"
)

// Grant types accepted by the token proxy
const (
	GrantAuthorizationCode = "authorization_code"
	GrantRefreshToken      = "refresh_token"
)

// TokenRequest is the body of a token proxy call
type TokenRequest struct {
	GrantType    string `json:"grant_type" form:"grant_type"`
	Code         string `json:"code" form:"code"`
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type authService struct {
	oauth    TokenIssuer
	states   *strava.StateStore
	sessions repository.SessionRepository
	now      func() time.Time
}

// NewAuthService creates a new auth service. A nil oauth means the server has
// no Strava credentials; every operation needing them returns ErrNotConfigured.
func NewAuthService(oauth TokenIssuer, states *strava.StateStore, sessions repository.SessionRepository) AuthService {
	return &authService{
		oauth:    oauth,
		states:   states,
		sessions: sessions,
		now:      time.Now,
	}
}

// AuthorizeURL returns the Strava consent page URL with a fresh CSRF state
func (s *authService) AuthorizeURL() (string, error) {
	if s.oauth == nil {
		return "", ErrNotConfigured
	}

	s.states.Cleanup()
	state, err := s.states.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return s.oauth.AuthCodeURL(state), nil
}

// HandleCallback validates state, exchanges the code and stores the session.
// An athlete who connects again keeps their existing session id.
func (s *authService) HandleCallback(ctx context.Context, code, state string) (*models.Session, error) {
	if s.oauth == nil {
		return nil, ErrNotConfigured
	}
	if !s.states.Validate(state) {
		return nil, ErrInvalidState
	}
	if code == "" {
		return nil, fmt.Errorf("%w: code", ErrMissingGrantValue)
	}

	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session := &models.Session{
		AthleteID:    tok.AthleteID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.ExpiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	existing, err := s.sessions.GetByAthleteID(ctx, tok.AthleteID)
	switch {
	case err == nil:
		session.ID = existing.ID
		session.CreatedAt = existing.CreatedAt
	case errors.Is(err, repository.ErrNotFound):
		id, err := NewSessionID()
		if err != nil {
			return nil, err
		}
		session.ID = id
	default:
		return nil, fmt.Errorf("failed to look up athlete session: %w", err)
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	logger.Ctx(ctx).Info("strava connected",
		logger.Int64("athlete_id", session.AthleteID),
		logger.String("session_id", session.ID))

	return session, nil
}

// EnsureFresh loads a session and refreshes its access token when it is
// within the expiry skew. A session whose refresh fails is deleted and the
// caller gets ErrReconnect.
func (s *authService) EnsureFresh(ctx context.Context, sessionID string) (*models.Session, error) {
	if err := ValidateSessionID(sessionID, s.now()); err != nil {
		return nil, ErrSessionNotFound
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if !session.IsExpired(s.now()) {
		return session, nil
	}
	if !session.CanRefresh() {
		return nil, s.drop(ctx, session, "no refresh token")
	}
	if s.oauth == nil {
		return nil, ErrNotConfigured
	}

	tok, err := s.oauth.Refresh(ctx, session.RefreshToken)
	if err != nil {
		logger.Ctx(ctx).Warn("token refresh failed", logger.Err(err))
		return nil, s.drop(ctx, session, "refresh rejected")
	}

	session.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		session.RefreshToken = tok.RefreshToken
	}
	session.ExpiresAt = tok.ExpiresAt
	session.UpdatedAt = s.now().UTC()

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save refreshed session: %w", err)
	}
	return session, nil
}

// drop removes a session that can no longer be refreshed
func (s *authService) drop(ctx context.Context, session *models.Session, reason string) error {
	if err := s.sessions.Delete(ctx, session.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		logger.Ctx(ctx).Error("failed to delete stale session",
			logger.String("session_id", session.ID), logger.Err(err))
	}
	return fmt.Errorf("%w: %s", ErrReconnect, reason)
}

// Logout forgets the session. Unknown sessions are not an error.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	err := s.sessions.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ProxyToken performs a grant on behalf of a client that must not hold the
// client secret.
func (s *authService) ProxyToken(ctx context.Context, req TokenRequest) (*strava.Token, error) {
	if s.oauth == nil {
		return nil, ErrNotConfigured
	}

	grant := req.GrantType
	if grant == "" {
		grant = GrantAuthorizationCode
	}

	switch grant {
	case GrantAuthorizationCode:
		if req.Code == "" {
			return nil, fmt.Errorf("%w: code", ErrMissingGrantValue)
		}
		return s.oauth.Exchange(ctx, req.Code)
	case GrantRefreshToken:
		if req.RefreshToken == "" {
			return nil, fmt.Errorf("%w: refresh_token", ErrMissingGrantValue)
		}
		return s.oauth.Refresh(ctx, req.RefreshToken)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGrant, req.GrantType)
	}
}
