package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/yearinmotion/internal/insights"
	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/stats"
)

func demoReview(t *testing.T) *models.Review {
	t.Helper()
	s, err := stats.Aggregate(models.DemoActivities(), stats.Options{})
	require.NoError(t, err)
	return &models.Review{Year: models.DemoYear, Stats: s, Insights: insights.Generate(s)}
}

func emptyReview(t *testing.T) *models.Review {
	t.Helper()
	s, err := stats.Aggregate(nil, stats.Options{})
	require.NoError(t, err)
	return &models.Review{Year: 2025, Stats: s, Insights: insights.Generate(s)}
}

func TestNewDashboard_Demo(t *testing.T) {
	review := demoReview(t)
	d := NewDashboard(review)

	assert.Equal(t, 2025, d.Year)
	assert.Equal(t, "102.0 km", d.Distance.Value)
	assert.Equal(t, review.Insights.Distance, d.Distance.Insight)
	assert.Equal(t, "5", d.Activities.Value)
	assert.Equal(t, "1480 m", d.Elevation.Value)
	assert.Equal(t, "38", d.Kudos.Value)
	assert.Equal(t, "Apr", d.MostActiveMonth)
	assert.Equal(t, "6h 35m", d.TotalTime)

	assert.Equal(t, []PersonalBest{
		{Name: "Longest Run", Value: "21.00 km"},
		{Name: "Fastest Pace (Avg)", Value: "5:00 /km"},
		{Name: "Vertical Ascent", Value: "800 m"},
		{Name: "Avg Distance", Value: "20.4 km"},
	}, d.PersonalBests)

	require.Len(t, d.Months, 12)
	assert.Equal(t, "Jan", d.Months[0].Name)
	assert.Equal(t, "12.0 km", d.Months[0].Distance)
	assert.Equal(t, 1, d.Months[0].Count)
	assert.NotEqual(t, EmptyMonthRoast, d.Months[0].Roast)
	assert.Equal(t, EmptyMonthRoast, d.Months[4].Roast)
	assert.Equal(t, 0, d.Months[4].Count)

	assert.Equal(t, models.DayLabels, d.Weekly.Labels)
	assert.Equal(t, [7]int{1, 0, 0, 1, 0, 2, 1}, d.Weekly.Values)
	assert.Equal(t, "The Consistent King/Queen: Your peak day is Friday", d.Weekly.Headline)
}

func TestNewDashboard_EmptyYear(t *testing.T) {
	d := NewDashboard(emptyReview(t))

	assert.Equal(t, "0.0 km", d.Distance.Value)
	assert.Equal(t, "0h 0m", d.TotalTime)
	assert.Equal(t, "Dec", d.MostActiveMonth, "ties resolve to the later month")
	assert.Equal(t, NotAvailable, d.PersonalBests[1].Value)
	assert.Equal(t, "0.0 km", d.PersonalBests[3].Value)
	assert.Equal(t, "The Consistent King/Queen: Your peak day is N/A", d.Weekly.Headline)
	for _, m := range d.Months {
		assert.Equal(t, EmptyMonthRoast, m.Roast)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, NewDashboard(demoReview(t))))

	out := buf.String()
	for _, want := range []string{
		"YEAR IN MOTION 2025",
		"102.0 km",
		"Most active month",
		"Fastest Pace (Avg)",
		"5:00 /km",
		EmptyMonthRoast,
		"Your peak day is Friday",
	} {
		assert.True(t, strings.Contains(out, want), "output missing %q", want)
	}
}
