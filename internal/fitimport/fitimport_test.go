package fitimport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/stats"
)

func runSession(start time.Time) *fit.SessionMsg {
	s := fit.NewSessionMsg()
	s.StartTime = start
	s.Sport = fit.SportRunning
	s.TotalDistance = 1_000_000 // cm
	s.TotalTimerTime = 3_000_000 // ms
	s.TotalAscent = 120
	return s
}

func TestFromSession(t *testing.T) {
	start := time.Date(2025, 3, 15, 7, 30, 0, 0, time.UTC)
	a := FromSession(runSession(start), 0)

	assert.Equal(t, start.Unix()*100, a.ID)
	assert.Equal(t, models.ActivityTypeRun, a.Type)
	assert.Equal(t, "Imported Run", a.Name)
	assert.Equal(t, "2025-03-15T07:30:00Z", a.StartDate)
	assert.Equal(t, models.NewNullableFloat(10000), a.Distance)
	assert.Equal(t, models.NewNullableFloat(3000), a.MovingTime)
	assert.Equal(t, models.NewNullableFloat(120), a.TotalElevationGain)
	assert.Equal(t, models.NewNullableInt(0), a.KudosCount)
}

func TestFromSession_SportTypes(t *testing.T) {
	tests := []struct {
		sport fit.Sport
		want  string
	}{
		{fit.SportRunning, "Run"},
		{fit.SportCycling, "Ride"},
		{fit.SportSwimming, "Swim"},
		{fit.SportWalking, "Walk"},
		{fit.SportHiking, "Hike"},
		{fit.SportRowing, "Workout"},
	}
	for _, tt := range tests {
		s := runSession(time.Now())
		s.Sport = tt.sport
		assert.Equal(t, tt.want, FromSession(s, 0).Type, "sport %v", tt.sport)
	}
}

func TestFromSession_UnsetFieldsAreMissing(t *testing.T) {
	s := fit.NewSessionMsg()
	s.StartTime = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	a := FromSession(s, 2)
	assert.False(t, a.Distance.Set)
	assert.False(t, a.MovingTime.Set)
	assert.False(t, a.TotalElevationGain.Set)
	assert.Equal(t, s.StartTime.Unix()*100+2, a.ID)

	_, err := stats.Aggregate([]models.Activity{a}, stats.Options{})
	var malformed *stats.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "distance", malformed.Field)
	assert.Equal(t, "is missing", malformed.Reason)
}

func TestImportedActivitiesAggregate(t *testing.T) {
	sessions := []*fit.SessionMsg{
		runSession(time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)),
		runSession(time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC)),
	}
	activities := make([]models.Activity, len(sessions))
	for i, s := range sessions {
		activities[i] = FromSession(s, 0)
	}

	got, err := stats.Aggregate(activities, stats.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, got.ActivityCount)
	assert.Equal(t, 20000.0, got.TotalDistance)
	assert.Equal(t, models.PersonalityWeekendWarrior, got.WeeklyRhythm.Personality)
}

func TestDecode_NotFIT(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not a fit file")))
	assert.Error(t, err)
}

func TestParsePaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	// directories only pick up .fit files, so an empty match set is not an error
	got, err := ParsePaths([]string{dir})
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.FIT"), []byte("garbage"), 0o644))
	_, err = ParsePaths([]string{dir})
	assert.ErrorContains(t, err, "broken.FIT")

	_, err = ParsePaths([]string{filepath.Join(dir, "missing.fit")})
	assert.Error(t, err)
}
