// Package story builds the year-in-review slideshow and drives it through
// time.
package story

import (
	"fmt"
	"math"
	"strconv"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/render"
	"github.com/JonnyWalker81/yearinmotion/internal/stats"
)

// Kind groups slides by layout.
type Kind string

const (
	KindIntro     Kind = "intro"
	KindStat      Kind = "stat"
	KindHighlight Kind = "highlight"
)

// Detail is a small labelled figure under a slide's main value.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Slide is one screen of the story.
type Slide struct {
	Kind    Kind     `json:"kind"`
	Icon    string   `json:"icon"`
	Color   string   `json:"color"`
	Title   string   `json:"title"`
	Value   string   `json:"value"`
	Unit    string   `json:"unit,omitempty"`
	Subtext string   `json:"subtext,omitempty"`
	Insight string   `json:"insight,omitempty"`
	Details []Detail `json:"details,omitempty"`
}

// BuildSlides returns the six story slides for a review: intro, distance,
// commitment, vertical, community and peak performance.
func BuildSlides(review *models.Review) []Slide {
	s := review.Stats
	in := review.Insights
	_, busiest := stats.MostActiveMonth(s)

	return []Slide{
		{
			Kind:    KindIntro,
			Icon:    "sparkles",
			Color:   "#fc4c02",
			Title:   strconv.Itoa(review.Year),
			Value:   "Ready?",
			Subtext: "Let's relive your journey.",
		},
		{
			Kind:    KindStat,
			Icon:    "activity",
			Color:   "#4f46e5",
			Title:   "Distance",
			Value:   fmt.Sprintf("%.1f", s.TotalDistance/1000),
			Unit:    "km",
			Insight: in.Distance,
		},
		{
			Kind:    KindStat,
			Icon:    "run",
			Color:   "#06b6d4",
			Title:   "Commitment",
			Value:   strconv.Itoa(s.ActivityCount),
			Subtext: "Activities logged",
			Insight: in.Count,
		},
		{
			Kind:    KindStat,
			Icon:    "mountain",
			Color:   "#8b5cf6",
			Title:   "Vertical",
			Value:   strconv.FormatInt(roundMeters(s.TotalElevation), 10),
			Unit:    "m",
			Insight: in.Elevation,
		},
		{
			Kind:    KindStat,
			Icon:    "thumbs-up",
			Color:   "#ec4899",
			Title:   "Community",
			Value:   strconv.FormatInt(s.TotalKudos, 10),
			Subtext: "Kudos received",
			Insight: in.Kudos,
		},
		{
			Kind:    KindHighlight,
			Icon:    "trophy",
			Color:   "#fc4c02",
			Title:   "Peak Performance",
			Value:   busiest.Name,
			Subtext: "Your most active month",
			Details: []Detail{
				{Label: "Distance", Value: render.Kilometers(busiest.Distance, 1)},
				{Label: "Activities", Value: strconv.Itoa(busiest.Count)},
			},
		},
	}
}

func roundMeters(m float64) int64 {
	return int64(math.Round(m))
}
