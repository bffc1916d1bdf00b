package astronomy

import "math"

// Shafaq selects the evening twilight table used for seasonal Isha.
type Shafaq int

const (
	// ShafaqAhmer is the red twilight.
	ShafaqAhmer Shafaq = iota
	// ShafaqAbyad is the white twilight, which lasts longer.
	ShafaqAbyad
)

// SeasonAdjustedMorningTwilight returns the minutes before sunrise at which
// the Moonsighting Committee places Fajr for the latitude and date.
func SeasonAdjustedMorningTwilight(latitude float64, dayOfYear, year int) float64 {
	lat := math.Abs(latitude)
	a := 75 + 28.65/55.0*lat
	b := 75 + 19.44/55.0*lat
	c := 75 + 32.74/55.0*lat
	d := 75 + 48.10/55.0*lat
	return seasonal(a, b, c, d, DaysSinceSolstice(dayOfYear, year, latitude))
}

// SeasonAdjustedEveningTwilight returns the minutes after sunset at which
// the Moonsighting Committee places Isha for the latitude, date and twilight.
func SeasonAdjustedEveningTwilight(latitude float64, dayOfYear, year int, shafaq Shafaq) float64 {
	lat := math.Abs(latitude)
	var a, b, c, d float64
	switch shafaq {
	case ShafaqAbyad:
		a = 75 + 25.60/55.0*lat
		b = 75 + 7.16/55.0*lat
		c = 75 + 36.84/55.0*lat
		d = 75 + 81.84/55.0*lat
	default:
		a = 62 + 17.40/55.0*lat
		b = 62 - 7.16/55.0*lat
		c = 62 + 5.12/55.0*lat
		d = 62 + 19.44/55.0*lat
	}
	return seasonal(a, b, c, d, DaysSinceSolstice(dayOfYear, year, latitude))
}

func seasonal(a, b, c, d float64, dyy int) float64 {
	x := float64(dyy)
	switch {
	case dyy < 91:
		return a + (b-a)/91*x
	case dyy < 137:
		return b + (c-b)/46*(x-91)
	case dyy < 183:
		return c + (d-c)/46*(x-137)
	case dyy < 229:
		return d + (c-d)/46*(x-183)
	case dyy < 275:
		return c + (b-c)/46*(x-229)
	default:
		return b + (a-b)/91*(x-275)
	}
}

// DaysSinceSolstice returns the days elapsed since the winter solstice of the
// hemisphere containing latitude.
func DaysSinceSolstice(dayOfYear, year int, latitude float64) int {
	daysInYear := 365
	southernOffset := 172
	if IsLeapYear(year) {
		daysInYear = 366
		southernOffset = 173
	}

	if latitude >= 0 {
		d := dayOfYear + 10
		if d >= daysInYear {
			d -= daysInYear
		}
		return d
	}
	d := dayOfYear - southernOffset
	if d < 0 {
		d += daysInYear
	}
	return d
}
