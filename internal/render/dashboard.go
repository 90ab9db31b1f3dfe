package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
	"github.com/JonnyWalker81/yearinmotion/internal/stats"
)

// EmptyMonthRoast is shown for months without activities.
const EmptyMonthRoast = "No activities to roast. Slacker."

// Headline pairs a formatted figure with its insight line.
type Headline struct {
	Value   string `json:"value"`
	Insight string `json:"insight"`
}

// PersonalBest is one row of the records list.
type PersonalBest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MonthCard summarises one calendar month.
type MonthCard struct {
	Name     string `json:"name"`
	Distance string `json:"distance"`
	Count    int    `json:"count"`
	Roast    string `json:"roast"`
}

// WeeklyChart is the Sunday-first activity count per weekday.
type WeeklyChart struct {
	Labels   [7]string `json:"labels"`
	Values   [7]int    `json:"values"`
	Headline string    `json:"headline"`
}

// Dashboard is the display-ready form of a review.
type Dashboard struct {
	Year            int            `json:"year"`
	Distance        Headline       `json:"distance"`
	Activities      Headline       `json:"activities"`
	Elevation       Headline       `json:"elevation"`
	Kudos           Headline       `json:"kudos"`
	MostActiveMonth string         `json:"most_active_month"`
	TotalTime       string         `json:"total_time"`
	PersonalBests   []PersonalBest `json:"personal_bests"`
	Months          []MonthCard    `json:"months"`
	Weekly          WeeklyChart    `json:"weekly"`
}

// NewDashboard derives every displayed string from the review.
func NewDashboard(review *models.Review) *Dashboard {
	s := review.Stats
	_, busiest := stats.MostActiveMonth(s)

	d := &Dashboard{
		Year:            review.Year,
		Distance:        Headline{Value: Kilometers(s.TotalDistance, 1), Insight: review.Insights.Distance},
		Activities:      Headline{Value: fmt.Sprint(s.ActivityCount), Insight: review.Insights.Count},
		Elevation:       Headline{Value: Meters(s.TotalElevation), Insight: review.Insights.Elevation},
		Kudos:           Headline{Value: fmt.Sprint(s.TotalKudos), Insight: review.Insights.Kudos},
		MostActiveMonth: busiest.Name,
		TotalTime:       Duration(s.TotalTime),
		PersonalBests:   personalBests(s),
		Months:          make([]MonthCard, 0, len(s.MonthlyData)),
		Weekly:          weeklyChart(s),
	}

	for _, m := range s.MonthlyData {
		roast := m.Roast
		if roast == "" {
			roast = EmptyMonthRoast
		}
		d.Months = append(d.Months, MonthCard{
			Name:     m.Name,
			Distance: Kilometers(m.Distance, 1),
			Count:    m.Count,
			Roast:    roast,
		})
	}

	return d
}

func personalBests(s *models.Stats) []PersonalBest {
	pace := NotAvailable
	if s.PBs.FastestPace != nil {
		pace = Pace(s.PBs.FastestPace.Value)
	}

	// An empty year has no average rather than a division by zero
	avg := 0.0
	if s.ActivityCount > 0 {
		avg = s.TotalDistance / float64(s.ActivityCount)
	}

	return []PersonalBest{
		{Name: "Longest Run", Value: Kilometers(s.PBs.LongestRun, 2)},
		{Name: "Fastest Pace (Avg)", Value: pace},
		{Name: "Vertical Ascent", Value: Meters(s.PBs.BiggestClimb)},
		{Name: "Avg Distance", Value: Kilometers(avg, 1)},
	}
}

func weeklyChart(s *models.Stats) WeeklyChart {
	peak := NotAvailable
	if s.WeeklyRhythm.PeakDay.Valid {
		peak = s.WeeklyRhythm.PeakDay.Value
	}

	return WeeklyChart{
		Labels:   models.DayLabels,
		Values:   s.DayDistribution,
		Headline: fmt.Sprintf("%s: Your peak day is %s", s.WeeklyRhythm.Personality, peak),
	}
}

// WriteText prints the dashboard for a terminal.
func WriteText(w io.Writer, d *Dashboard) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "YEAR IN MOTION %d\n\n", d.Year)

	for _, h := range []struct {
		label string
		h     Headline
	}{
		{"Distance", d.Distance},
		{"Activities", d.Activities},
		{"Elevation", d.Elevation},
		{"Kudos", d.Kudos},
	} {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", h.label, h.h.Value, h.h.Insight)
	}
	fmt.Fprintf(tw, "Most active month\t%s\t\n", d.MostActiveMonth)
	fmt.Fprintf(tw, "Total time\t%s\t\n", d.TotalTime)

	fmt.Fprintln(tw, "\nPERSONAL BESTS")
	for _, pb := range d.PersonalBests {
		fmt.Fprintf(tw, "%s\t%s\n", pb.Name, pb.Value)
	}

	fmt.Fprintln(tw, "\nMONTHS")
	for _, m := range d.Months {
		fmt.Fprintf(tw, "%s\t%s\t%d activities\t%s\n", m.Name, m.Distance, m.Count, m.Roast)
	}

	fmt.Fprintln(tw, "\nWEEKLY RHYTHM")
	fmt.Fprintln(tw, strings.Join(d.Weekly.Labels[:], "\t"))
	values := make([]string, len(d.Weekly.Values))
	for i, v := range d.Weekly.Values {
		values[i] = fmt.Sprint(v)
	}
	fmt.Fprintln(tw, strings.Join(values, "\t"))
	fmt.Fprintln(tw, d.Weekly.Headline)

	return tw.Flush()
}
