package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidSessionID indicates the value is not a UUID
	ErrInvalidSessionID = errors.New("invalid session id")
	// ErrSessionIDVersion indicates the UUID was not issued by this service
	ErrSessionIDVersion = errors.New("session id must be a UUIDv7")
	// ErrSessionIDFuture indicates the embedded timestamp is ahead of the clock
	ErrSessionIDFuture = errors.New("session id timestamp is in the future")
)

// maxSessionClockSkew is how far ahead of now a session id may be stamped.
const maxSessionClockSkew = time.Minute

// NewSessionID returns a time-ordered session identifier.
func NewSessionID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return id.String(), nil
}

// ValidateSessionID rejects values that could not have come from NewSessionID,
// so obviously bogus cookies never reach the database.
func ValidateSessionID(id string, now time.Time) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSessionID, err)
	}

	if parsed.Version() != 7 {
		return fmt.Errorf("%w: got version %d", ErrSessionIDVersion, parsed.Version())
	}

	sec, nsec := parsed.Time().UnixTime()
	issued := time.Unix(sec, nsec)
	if issued.After(now.Add(maxSessionClockSkew)) {
		return fmt.Errorf("%w: issued %s", ErrSessionIDFuture, issued.Format(time.RFC3339))
	}

	return nil
}
