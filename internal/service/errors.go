package service

import "errors"

var (
	// ErrReconnect means the stored authorization can no longer be used and
	// the athlete has to run the OAuth flow again.
	ErrReconnect = errors.New("strava authorization expired")

	// ErrSessionNotFound means no session matches the presented id
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidState means the OAuth callback carried an unknown or expired state
	ErrInvalidState = errors.New("invalid oauth state")

	// ErrNotConfigured means Strava client credentials are missing
	ErrNotConfigured = errors.New("strava client is not configured")

	// ErrUnsupportedGrant means the token proxy got an unknown grant_type
	ErrUnsupportedGrant = errors.New("unsupported grant type")

	// ErrMissingGrantValue means the grant's code or refresh token was empty
	ErrMissingGrantValue = errors.New("missing grant value")
)
