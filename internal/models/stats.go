package models

// Personality labels a weekly activity pattern.
type Personality string

const (
	PersonalityWeekendWarrior Personality = "The Weekend Warrior"
	PersonalityStreakMachine  Personality = "The Streak Machine"
	PersonalityOneHitWonder   Personality = "One-Hit Wonder"
	PersonalityConsistent     Personality = "The Consistent King/Queen"
)

// MonthNames are the short month labels, January first.
var MonthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// DayNames are weekday names indexed like time.Weekday (Sunday = 0).
var DayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayLabels are the short weekday labels used by charts.
var DayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Stats is the aggregate view of one year of activities.
// It is produced once by the stats engine and treated as read-only afterwards.
type Stats struct {
	TotalDistance   float64          `json:"total_distance"`
	TotalElevation  float64          `json:"total_elevation"`
	TotalKudos      int64            `json:"total_kudos"`
	TotalTime       float64          `json:"total_time"`
	ActivityCount   int              `json:"activity_count"`
	DayDistribution [7]int           `json:"day_distribution"`
	MonthlyData     [12]MonthSummary `json:"monthly_data"`
	PBs             PersonalBests    `json:"pbs"`
	WeeklyRhythm    WeeklyRhythm     `json:"weekly_rhythm"`
}

// MonthSummary holds one calendar month's totals and its shortest activity.
type MonthSummary struct {
	Name          string    `json:"name"`
	Distance      float64   `json:"distance"`
	Count         int       `json:"count"`
	WorstActivity *Activity `json:"worst_activity,omitempty"`
	Roast         string    `json:"roast,omitempty"`
}

// PersonalBests are the year's records. FastestPace is nil when no run
// had a positive moving time.
type PersonalBests struct {
	LongestRun   float64      `json:"longest_run"`
	BiggestClimb float64      `json:"biggest_climb"`
	FastestPace  *FastestPace `json:"fastest_pace,omitempty"`
}

// FastestPace is a speed in meters per second and the run it came from.
type FastestPace struct {
	Value      float64 `json:"value"`
	ActivityID int64   `json:"activity_id"`
}

// WeeklyRhythm summarizes the weekday distribution. PeakDay is null for
// an empty year.
type WeeklyRhythm struct {
	PeakDay     NullableString `json:"peak_day"`
	Personality Personality    `json:"personality"`
}
