// Package fitimport reads Garmin FIT activity files into the same activity
// records the Strava API returns, so a year can be reviewed offline.
package fitimport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tormoder/fit"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
)

// ErrNoSessions is returned for activity files without a session summary.
var ErrNoSessions = errors.New("fit: no sessions in activity file")

// invalidAscent is the FIT sentinel for an unset uint16 field.
const invalidAscent = 0xFFFF

// fitEpoch is the FIT time origin; timestamps at or before it are unset.
var fitEpoch = time.Date(1989, time.December, 31, 0, 0, 0, 0, time.UTC)

var sportTypes = map[fit.Sport]string{
	fit.SportRunning:  models.ActivityTypeRun,
	fit.SportCycling:  "Ride",
	fit.SportSwimming: "Swim",
	fit.SportWalking:  "Walk",
	fit.SportHiking:   "Hike",
}

// Decode reads one FIT activity file and returns an activity per session.
func Decode(r io.Reader) ([]models.Activity, error) {
	file, err := fit.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to decode FIT file: %w", err)
	}

	activity, err := file.Activity()
	if err != nil {
		return nil, fmt.Errorf("failed to get activity from FIT: %w", err)
	}
	if len(activity.Sessions) == 0 {
		return nil, ErrNoSessions
	}

	out := make([]models.Activity, 0, len(activity.Sessions))
	for i, session := range activity.Sessions {
		out = append(out, FromSession(session, i))
	}
	return out, nil
}

// ParseFile decodes the FIT file at path.
func ParseFile(path string) ([]models.Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	activities, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return activities, nil
}

// ParsePaths decodes every path, expanding directories to the .fit files
// directly inside them.
func ParsePaths(paths []string) ([]models.Activity, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".fit") {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
	}

	var all []models.Activity
	for _, f := range files {
		activities, err := ParseFile(f)
		if err != nil {
			return nil, err
		}
		all = append(all, activities...)
	}
	return all, nil
}

// FromSession maps a FIT session summary to an activity. Fields the device
// did not record are left unset so aggregation reports them as missing.
// index distinguishes sessions of a multisport file that share a start time.
func FromSession(s *fit.SessionMsg, index int) models.Activity {
	a := models.Activity{
		ID:   s.StartTime.Unix()*100 + int64(index),
		Type: sportType(s.Sport),
		// Local files carry no social data
		KudosCount: models.NewNullableInt(0),
	}
	a.Name = "Imported " + a.Type

	if s.StartTime.After(fitEpoch) {
		a.StartDate = s.StartTime.UTC().Format(time.RFC3339)
	}
	if d := s.GetTotalDistanceScaled(); !math.IsNaN(d) {
		a.Distance = models.NewNullableFloat(d)
	}
	if t := s.GetTotalTimerTimeScaled(); !math.IsNaN(t) {
		a.MovingTime = models.NewNullableFloat(t)
	}
	if s.TotalAscent != invalidAscent {
		a.TotalElevationGain = models.NewNullableFloat(float64(s.TotalAscent))
	}

	return a
}

func sportType(s fit.Sport) string {
	if t, ok := sportTypes[s]; ok {
		return t
	}
	return "Workout"
}
