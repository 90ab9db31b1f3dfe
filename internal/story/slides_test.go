package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/yearinmotion/internal/insights"
	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/stats"
)

func TestBuildSlides_Demo(t *testing.T) {
	s, err := stats.Aggregate(models.DemoActivities(), stats.Options{})
	require.NoError(t, err)
	review := &models.Review{Year: models.DemoYear, Stats: s, Insights: insights.Generate(s)}

	slides := BuildSlides(review)
	require.Len(t, slides, 6)

	titles := make([]string, len(slides))
	for i, sl := range slides {
		titles[i] = sl.Title
	}
	assert.Equal(t, []string{"2025", "Distance", "Commitment", "Vertical", "Community", "Peak Performance"}, titles)

	assert.Equal(t, KindIntro, slides[0].Kind)
	assert.Equal(t, "Ready?", slides[0].Value)

	assert.Equal(t, "102.0", slides[1].Value)
	assert.Equal(t, "km", slides[1].Unit)
	assert.Equal(t, review.Insights.Distance, slides[1].Insight)

	assert.Equal(t, "5", slides[2].Value)
	assert.Equal(t, review.Insights.Count, slides[2].Insight)

	assert.Equal(t, "1480", slides[3].Value)
	assert.Equal(t, "38", slides[4].Value)
	assert.Equal(t, review.Insights.Kudos, slides[4].Insight)

	peak := slides[5]
	assert.Equal(t, KindHighlight, peak.Kind)
	assert.Equal(t, "Apr", peak.Value)
	assert.Equal(t, []Detail{
		{Label: "Distance", Value: "50.0 km"},
		{Label: "Activities", Value: "1"},
	}, peak.Details)
}

func TestBuildSlides_UsesReviewYear(t *testing.T) {
	s, err := stats.Aggregate(nil, stats.Options{})
	require.NoError(t, err)

	slides := BuildSlides(&models.Review{Year: 2023, Stats: s})
	assert.Equal(t, "2023", slides[0].Title)
	assert.Equal(t, "Dec", slides[5].Value)
}
