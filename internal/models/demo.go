package models

// DemoYear is the year the demo activities fall in.
const DemoYear = 2025

// DemoActivities returns a small fixed year used when no Strava account is connected.
func DemoActivities() []Activity {
	demo := func(id int64, kind string, distance, elevation, movingTime float64, kudos int64, start string) Activity {
		return Activity{
			ID:                 id,
			Type:               kind,
			Distance:           NewNullableFloat(distance),
			TotalElevationGain: NewNullableFloat(elevation),
			MovingTime:         NewNullableFloat(movingTime),
			KudosCount:         NewNullableInt(kudos),
			StartDate:          start,
		}
	}

	return []Activity{
		demo(1, "Run", 12000, 150, 3600, 5, "2025-01-10T10:00:00Z"),
		demo(2, "Run", 5000, 50, 1500, 2, "2025-02-12T10:00:00Z"),
		demo(3, "Run", 21000, 300, 7200, 12, "2025-03-15T10:00:00Z"),
		demo(4, "Ride", 50000, 800, 7200, 8, "2025-04-20T10:00:00Z"),
		demo(12, "Run", 14000, 180, 4200, 11, "2025-12-05T10:00:00Z"),
	}
}
