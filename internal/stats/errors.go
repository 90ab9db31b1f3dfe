package stats

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is the sentinel matched by every MalformedInputError.
var ErrMalformedInput = errors.New("malformed activity")

// MalformedInputError reports an activity whose required field is missing
// or unusable. Aggregation stops at the first one and returns no Stats.
type MalformedInputError struct {
	ActivityID int64
	Field      string
	Reason     string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed activity %d: %s %s", e.ActivityID, e.Field, e.Reason)
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}
