// Package insights turns year statistics into short roast lines.
//
// Every line comes from a lookup table: a metric is measured, then matched
// against ordered bands. Adding or retuning a roast never touches control flow.
package insights

import (
	"fmt"
	"math"
	"strings"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
)

const (
	metersPerKm      = 1000.0
	marathonKm       = 42.195
	everestMeters    = 8848.0
	placeholderValue = "{value}"
)

// band selects a template for metric values strictly below Below.
type band struct {
	Below    float64
	Template string
}

// rule measures one aspect of Stats and renders the matching band.
type rule struct {
	metric func(s *models.Stats) float64
	value  func(s *models.Stats) string
	bands  []band
}

var (
	distanceRule = rule{
		metric: func(s *models.Stats) float64 { return s.TotalDistance / metersPerKm },
		value: func(s *models.Stats) string {
			return oneDecimal(s.TotalDistance / metersPerKm / marathonKm)
		},
		bands: []band{
			{50, "You walked more to the fridge than you ran this year. Roast level: Burnt."},
			{math.Inf(1), "That's about {value} marathons. Your local coffee shop misses you."},
		},
	}

	countRule = rule{
		metric: func(s *models.Stats) float64 { return float64(s.ActivityCount) },
		bands: []band{
			{10, "Ten activities? My grandmother does that on her way to church."},
			{101, "Quality over quantity, they say. Mostly quality."},
			{math.Inf(1), "Look at you, pro! Or just addicted to pressing start?"},
		},
	}

	elevationRule = rule{
		metric: func(s *models.Stats) float64 { return s.TotalElevation },
		value: func(s *models.Stats) string {
			return oneDecimal(s.TotalElevation / everestMeters)
		},
		bands: []band{
			{math.Inf(1), "You climbed {value} Everests. Your knees called, they're filing a restraining order."},
		},
	}

	kudosRule = rule{
		metric: func(s *models.Stats) float64 { return float64(s.TotalKudos) },
		bands: []band{
			{51, "Ghosted by the Strava community? Maybe run faster."},
			{math.Inf(1), "The local legend treatment. Keep feeding that ego!"},
		},
	}
)

// Generate returns the four headline insights for s.
func Generate(s *models.Stats) models.Insights {
	return models.Insights{
		Distance:  distanceRule.apply(s),
		Count:     countRule.apply(s),
		Elevation: elevationRule.apply(s),
		Kudos:     kudosRule.apply(s),
	}
}

func (r rule) apply(s *models.Stats) string {
	m := r.metric(s)
	for _, b := range r.bands {
		if m < b.Below {
			if r.value == nil {
				return b.Template
			}
			return strings.ReplaceAll(b.Template, placeholderValue, r.value(s))
		}
	}
	// bands end at +Inf; only NaN gets here
	return ""
}

func oneDecimal(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
