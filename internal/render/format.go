// Package render turns a finished review into things people look at: the
// dashboard view model, its plain-text form and the PNG share card.
package render

import (
	"fmt"
	"math"
)

const metersPerKm = 1000

// NotAvailable stands in for values that cannot be computed.
const NotAvailable = "N/A"

// Kilometers formats meters as kilometers with the given number of decimals.
func Kilometers(meters float64, decimals int) string {
	return fmt.Sprintf("%.*f km", decimals, meters/metersPerKm)
}

// Meters formats a length rounded to the nearest whole meter.
func Meters(meters float64) string {
	return fmt.Sprintf("%d m", int64(math.Round(meters)))
}

// Duration formats seconds as "{h}h {m}m", dropping leftover seconds.
func Duration(seconds float64) string {
	total := int64(seconds)
	return fmt.Sprintf("%dh %dm", total/3600, (total%3600)/60)
}

// Pace converts a speed in meters per second to "m:ss /km".
// Non-positive speeds have no pace.
func Pace(metersPerSecond float64) string {
	if metersPerSecond <= 0 || math.IsNaN(metersPerSecond) || math.IsInf(metersPerSecond, 0) {
		return NotAvailable
	}

	secsPerKm := metersPerKm / metersPerSecond
	mins := int64(secsPerKm / 60)
	secs := int64(math.Round(math.Mod(secsPerKm, 60)))
	if secs == 60 {
		mins++
		secs = 0
	}
	return fmt.Sprintf("%d:%02d /km", mins, secs)
}
