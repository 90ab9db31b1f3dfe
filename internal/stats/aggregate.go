// Package stats turns a year of activities into aggregate statistics.
//
// Aggregate is a pure function: it reads its input, allocates a fresh Stats
// and shares no state between calls, so it is safe for concurrent use.
package stats

import (
	"math"
	"time"

	"github.com/JonnyWalker81/yearinmotion/internal/insights"
	"github.com/JonnyWalker81/yearinmotion/internal/models"
)

// SkipZeroMovingTime is passed to Options.OnSkip when a run cannot produce a pace.
const SkipZeroMovingTime = "zero moving time"

// Options control bucketing and diagnostics.
type Options struct {
	// Location is the time zone used to bucket start dates into weekdays
	// and months. Nil means UTC.
	Location *time.Location

	// OnSkip, when set, is called for runs left out of the pace calculation.
	OnSkip func(activityID int64, reason string)
}

// Aggregate computes Stats in a single pass over activities, in input order.
// The first malformed activity aborts the pass with a *MalformedInputError.
func Aggregate(activities []models.Activity, opts Options) (*models.Stats, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	s := newStats()

	for i := range activities {
		a := &activities[i]

		start, err := validate(a)
		if err != nil {
			return nil, err
		}

		distance := a.Distance.Value
		elevation := a.TotalElevationGain.Value

		s.TotalDistance += distance
		s.TotalElevation += elevation
		s.TotalKudos += a.KudosCount.OrZero()
		s.TotalTime += a.MovingTime.Value
		s.ActivityCount++

		local := start.In(loc)
		s.DayDistribution[local.Weekday()]++

		month := &s.MonthlyData[local.Month()-1]
		month.Distance += distance
		month.Count++
		if month.WorstActivity == nil || distance < month.WorstActivity.Distance.Value {
			worst := *a
			month.WorstActivity = &worst
		}

		if a.IsRun() {
			if distance > s.PBs.LongestRun {
				s.PBs.LongestRun = distance
			}
			if a.MovingTime.Value == 0 {
				if opts.OnSkip != nil {
					opts.OnSkip(a.ID, SkipZeroMovingTime)
				}
			} else {
				pace := distance / a.MovingTime.Value
				if s.PBs.FastestPace == nil || pace > s.PBs.FastestPace.Value {
					s.PBs.FastestPace = &models.FastestPace{Value: pace, ActivityID: a.ID}
				}
			}
		}

		if elevation > s.PBs.BiggestClimb {
			s.PBs.BiggestClimb = elevation
		}
	}

	finalize(s)
	return s, nil
}

func newStats() *models.Stats {
	s := &models.Stats{}
	for i := range s.MonthlyData {
		s.MonthlyData[i].Name = models.MonthNames[i]
	}
	return s
}

func finalize(s *models.Stats) {
	if s.ActivityCount > 0 {
		s.WeeklyRhythm.PeakDay = models.NewNullableString(models.DayNames[PeakDayIndex(s.DayDistribution)])
	}
	s.WeeklyRhythm.Personality = ClassifyPersonality(s.DayDistribution)

	for i := range s.MonthlyData {
		if w := s.MonthlyData[i].WorstActivity; w != nil {
			s.MonthlyData[i].Roast = insights.MonthlyRoast(*w, i)
		}
	}
}

// validate checks the required fields and returns the parsed start time.
func validate(a *models.Activity) (time.Time, error) {
	required := []struct {
		field string
		value models.NullableFloat
	}{
		{"distance", a.Distance},
		{"total_elevation_gain", a.TotalElevationGain},
		{"moving_time", a.MovingTime},
	}

	for _, r := range required {
		if reason := checkQuantity(r.value); reason != "" {
			return time.Time{}, &MalformedInputError{ActivityID: a.ID, Field: r.field, Reason: reason}
		}
	}

	if a.StartDate == "" {
		return time.Time{}, &MalformedInputError{ActivityID: a.ID, Field: "start_date", Reason: "is missing"}
	}
	start, err := a.StartTime()
	if err != nil {
		return time.Time{}, &MalformedInputError{ActivityID: a.ID, Field: "start_date", Reason: "is not an RFC 3339 timestamp"}
	}
	return start, nil
}

func checkQuantity(v models.NullableFloat) string {
	switch {
	case !v.Set:
		return "is missing"
	case !v.Valid:
		return "is null"
	case math.IsNaN(v.Value) || math.IsInf(v.Value, 0):
		return "must be a finite number"
	case v.Value < 0:
		return "must be non-negative"
	}
	return ""
}
