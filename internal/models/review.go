package models

import "time"

// Insights are the four headline roasts derived from a year's Stats.
type Insights struct {
	Distance  string `json:"distance"`
	Count     string `json:"count"`
	Elevation string `json:"elevation"`
	Kudos     string `json:"kudos"`
}

// Review is a finished year in review: stats plus commentary.
type Review struct {
	Year        int       `json:"year"`
	AthleteID   int64     `json:"athlete_id,omitempty"`
	Stats       *Stats    `json:"stats"`
	Insights    Insights  `json:"insights"`
	GeneratedAt time.Time `json:"generated_at"`
}
