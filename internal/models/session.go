package models

import "time"

// ExpirySkew is how long before the real expiry a token is treated as expired.
const ExpirySkew = 300 * time.Second

// Session is a stored Strava authorization for one athlete.
type Session struct {
	ID           string    `json:"id"`
	AthleteID    int64     `json:"athlete_id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    int64     `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsExpired reports whether the access token should be refreshed at now.
// A session without a known expiry is never considered expired.
func (s *Session) IsExpired(now time.Time) bool {
	if s.ExpiresAt == 0 {
		return false
	}
	return now.Unix() > s.ExpiresAt-int64(ExpirySkew/time.Second)
}

// CanRefresh reports whether a refresh token is available.
func (s *Session) CanRefresh() bool {
	return s.RefreshToken != ""
}
