package models

import "time"

// ActivityTypeRun is the Strava activity type that feeds run-only personal bests.
// The comparison is case-sensitive, matching the API.
const ActivityTypeRun = "Run"

// Activity is the subset of a Strava summary activity the review needs.
// Numeric fields use nullable wrappers so a missing value can be reported
// instead of silently treated as zero.
type Activity struct {
	ID                 int64         `json:"id"`
	Name               string        `json:"name,omitempty"`
	Type               string        `json:"type"`
	Distance           NullableFloat `json:"distance"`
	TotalElevationGain NullableFloat `json:"total_elevation_gain"`
	MovingTime         NullableFloat `json:"moving_time"`
	KudosCount         NullableInt   `json:"kudos_count"`
	StartDate          string        `json:"start_date"`
}

// IsRun reports whether the activity counts toward run personal bests.
func (a Activity) IsRun() bool {
	return a.Type == ActivityTypeRun
}

// StartTime parses StartDate as RFC 3339.
func (a Activity) StartTime() (time.Time, error) {
	return time.Parse(time.RFC3339, a.StartDate)
}
