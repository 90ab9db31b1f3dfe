package stats

import "github.com/JonnyWalker81/yearinmotion/internal/models"

// Weekday indexes into a day distribution.
const (
	sunday   = 0
	saturday = 6
)

// personalityRules are evaluated in order; the first match wins.
var personalityRules = []struct {
	personality models.Personality
	matches     func(days [7]int) bool
}{
	{models.PersonalityWeekendWarrior, func(days [7]int) bool {
		weekend := days[sunday] + days[saturday]
		weekdays := 0
		for d := sunday + 1; d < saturday; d++ {
			weekdays += days[d]
		}
		return weekend > weekdays
	}},
	{models.PersonalityStreakMachine, func(days [7]int) bool {
		for _, c := range days {
			if c <= 0 {
				return false
			}
		}
		return true
	}},
	{models.PersonalityOneHitWonder, func(days [7]int) bool {
		total, peak := 0, 0
		for _, c := range days {
			total += c
			peak = max(peak, c)
		}
		// peak > total/2 without integer truncation
		return 2*peak > total
	}},
}

// ClassifyPersonality labels a Sunday-first weekday distribution.
func ClassifyPersonality(days [7]int) models.Personality {
	for _, rule := range personalityRules {
		if rule.matches(days) {
			return rule.personality
		}
	}
	return models.PersonalityConsistent
}

// PeakDayIndex returns the first index holding the maximum count.
func PeakDayIndex(days [7]int) int {
	peak := 0
	for i := 1; i < len(days); i++ {
		if days[i] > days[peak] {
			peak = i
		}
	}
	return peak
}

// MostActiveMonth returns the month with the greatest distance and its index.
// On equal distance the later month wins.
func MostActiveMonth(s *models.Stats) (int, models.MonthSummary) {
	best := 0
	for i := 1; i < len(s.MonthlyData); i++ {
		if !(s.MonthlyData[best].Distance > s.MonthlyData[i].Distance) {
			best = i
		}
	}
	return best, s.MonthlyData[best]
}
