package astronomy

import (
	"github.com/mooncaker816/learnmeeus/v3/base"
	"github.com/mooncaker816/learnmeeus/v3/julian"
)

// JulianDay returns the Julian day for 0h UT of the given Gregorian date.
func JulianDay(year, month, day int) float64 {
	return julian.CalendarGregorianToJD(year, month, float64(day))
}

// JulianCentury returns the Julian centuries elapsed since J2000.0.
func JulianCentury(jd float64) float64 {
	return base.J2000Century(jd)
}

// DayOfYear returns the 1-based ordinal day of the Gregorian date.
func DayOfYear(year, month, day int) int {
	return julian.DayOfYearGregorian(year, month, day)
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return julian.LeapYearGregorian(year)
}
