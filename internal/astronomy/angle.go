// Package astronomy computes the solar position and the instants at which the
// sun crosses a given altitude on a calendar date.
//
// The series are the low-precision ones from Meeus, "Astronomical Algorithms",
// which are accurate to well under a minute for prayer scheduling.
package astronomy

import "math"

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeToScale wraps v into [0, max) for positive max and (max, 0] for negative max.
func NormalizeToScale(v, max float64) float64 {
	return v - max*math.Floor(v/max)
}

// Unwind wraps an angle in degrees into [0, 360).
func Unwind(deg float64) float64 {
	return NormalizeToScale(deg, 360)
}

// QuadrantShift returns the angle in degrees closest to zero that is
// equivalent to deg, in [-180, 180].
func QuadrantShift(deg float64) float64 {
	if deg >= -180 && deg <= 180 {
		return deg
	}
	return deg - 360*math.Round(deg/360)
}
