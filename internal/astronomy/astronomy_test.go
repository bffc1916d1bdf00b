package astronomy

import (
	"math"
	"testing"
	"time"

	keep94 "github.com/keep94/sunrise"
	gosunrise "github.com/nathan-osman/go-sunrise"
)

func approxEqual(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %.6f, want %.6f (±%g)", name, got, want, tol)
	}
}

// hoursToTime turns hours after 0h UT of the date into a UTC time.
func hoursToTime(year int, month time.Month, day int, hours float64) time.Time {
	base := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(hours * float64(time.Hour)))
}

// ---------------------------------------------------------------------------
// Angles
// ---------------------------------------------------------------------------

func TestNormalizeToScale(t *testing.T) {
	tests := []struct {
		v, max, want float64
	}{
		{2, -5, -3},
		{-4, -5, -4},
		{-6, -5, -1},
		{-1, 24, 23},
		{1, 24, 1},
		{49, 24, 1},
		{361, 360, 1},
		{360, 360, 0},
		{259, 360, 259},
		{2592, 360, 72},
	}
	for _, tt := range tests {
		if got := NormalizeToScale(tt.v, tt.max); got != tt.want {
			t.Errorf("NormalizeToScale(%v, %v) = %v, want %v", tt.v, tt.max, got, tt.want)
		}
	}
}

func TestUnwind(t *testing.T) {
	tests := map[float64]float64{
		-45:  315,
		361:  1,
		360:  0,
		259:  259,
		2592: 72,
	}
	for in, want := range tests {
		if got := Unwind(in); got != want {
			t.Errorf("Unwind(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestQuadrantShift(t *testing.T) {
	tests := map[float64]float64{
		360:  0,
		361:  1,
		1:    1,
		-1:   -1,
		-181: 179,
		180:  180,
		359:  -1,
		-359: 1,
		1261: -179,
	}
	for in, want := range tests {
		if got := QuadrantShift(in); got != want {
			t.Errorf("QuadrantShift(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestRadiansDegrees(t *testing.T) {
	approxEqual(t, "Radians(180)", Radians(180), math.Pi, 1e-12)
	approxEqual(t, "Degrees(pi/2)", Degrees(math.Pi/2), 90, 1e-12)
}

// ---------------------------------------------------------------------------
// Julian day
// ---------------------------------------------------------------------------

func TestJulianDay(t *testing.T) {
	approxEqual(t, "JulianDay(2000-01-01)", JulianDay(2000, 1, 1), 2451544.5, 1e-9)
	approxEqual(t, "JulianDay(1992-10-13)", JulianDay(1992, 10, 13), 2448908.5, 1e-9)
	approxEqual(t, "JulianDay(2022-08-01)", JulianDay(2022, 8, 1), 2459792.5, 1e-9)
}

func TestDayOfYear(t *testing.T) {
	tests := []struct {
		y, m, d, want int
	}{
		{2015, 1, 1, 1},
		{2015, 12, 31, 365},
		{2016, 12, 31, 366},
		{2015, 7, 12, 193},
	}
	for _, tt := range tests {
		if got := DayOfYear(tt.y, tt.m, tt.d); got != tt.want {
			t.Errorf("DayOfYear(%d-%d-%d) = %d, want %d", tt.y, tt.m, tt.d, got, tt.want)
		}
	}
	if !IsLeapYear(2000) || IsLeapYear(1900) || !IsLeapYear(2024) {
		t.Error("IsLeapYear disagrees with the Gregorian rules")
	}
}

// ---------------------------------------------------------------------------
// Solar coordinates (Meeus example 25.a, 1992 October 13)
// ---------------------------------------------------------------------------

func TestSolarCoordinates_MeeusExample(t *testing.T) {
	jd := JulianDay(1992, 10, 13)
	T := JulianCentury(jd)
	approxEqual(t, "T", T, -0.072183436, 1e-8)

	L0 := MeanSolarLongitude(T)
	approxEqual(t, "L0", L0, 201.80720, 1e-4)

	M := MeanSolarAnomaly(T)
	approxEqual(t, "M", M, 278.99397, 1e-4)

	C := SolarEquationOfTheCenter(T, M)
	approxEqual(t, "C", C, -1.89732, 1e-4)

	lambda := ApparentSolarLongitude(T, L0)
	approxEqual(t, "lambda", lambda, 199.90895, 1e-4)

	e0 := MeanObliquityOfTheEcliptic(T)
	approxEqual(t, "e0", e0, 23.44023, 1e-4)

	eApp := ApparentObliquityOfTheEcliptic(T, e0)
	approxEqual(t, "eApp", eApp, 23.43999, 1e-4)

	solar := NewCoordinates(jd)
	approxEqual(t, "declination", solar.Declination, -7.78507, 1e-4)
	approxEqual(t, "right ascension", solar.RightAscension, 198.38083, 1e-4)
}

func TestMeanSiderealTime_MeeusExample(t *testing.T) {
	// Meeus example 12.a: 1987 April 10, 0h UT.
	T := JulianCentury(JulianDay(1987, 4, 10))
	approxEqual(t, "theta0", MeanSiderealTime(T), 197.693195, 1e-5)
}

// ---------------------------------------------------------------------------
// Interpolation
// ---------------------------------------------------------------------------

func TestInterpolate(t *testing.T) {
	// Meeus example 3.a.
	approxEqual(t, "Interpolate", Interpolate(0.877366, 0.884226, 0.870531, 4.35/24), 0.876125, 1e-6)
	approxEqual(t, "Interpolate symmetric", Interpolate(1, -1, 3, 0.6), 2.2, 1e-9)
}

func TestInterpolateAngles(t *testing.T) {
	approxEqual(t, "InterpolateAngles", InterpolateAngles(1, -1, 3, 0.5), 2, 1e-9)
	approxEqual(t, "InterpolateAngles wrap", InterpolateAngles(1, 359, 3, 0.5), 2, 1e-9)
}

// ---------------------------------------------------------------------------
// Solar time
// ---------------------------------------------------------------------------

func TestSolarTime_Raleigh(t *testing.T) {
	// Raleigh, NC on 2015-07-12; events are in hours after 0h UT.
	st := NewSolarTime(2015, 7, 12, 35+47.0/60, -78-39.0/60)

	if !st.Valid() {
		t.Fatal("expected sunrise and sunset at Raleigh")
	}

	// Solar noon: 12h + 78.65*4m + equation of time (~5.5m) ~= 17:20 UT.
	approxEqual(t, "transit", st.Transit, 17+20.0/60, 2.0/60)
	approxEqual(t, "sunrise", st.Sunrise, 10+8.0/60, 2.0/60)
	approxEqual(t, "sunset", st.Sunset, 24+32.0/60, 2.0/60)

	dawn, ok := st.HourAngle(-6, false)
	if !ok {
		t.Fatal("civil dawn should exist at Raleigh")
	}
	if dawn >= st.Sunrise {
		t.Errorf("civil dawn %.3f should precede sunrise %.3f", dawn, st.Sunrise)
	}
	dusk, ok := st.HourAngle(-6, true)
	if !ok {
		t.Fatal("civil dusk should exist at Raleigh")
	}
	if dusk <= st.Sunset {
		t.Errorf("civil dusk %.3f should follow sunset %.3f", dusk, st.Sunset)
	}
}

func TestSolarTime_AfternoonShadow(t *testing.T) {
	st := NewSolarTime(2022, 8, 1, 36.8065, 10.1815)

	shafi, ok := st.Afternoon(1)
	if !ok {
		t.Fatal("Asr (shadow 1) should exist")
	}
	hanafi, ok := st.Afternoon(2)
	if !ok {
		t.Fatal("Asr (shadow 2) should exist")
	}
	if !(st.Transit < shafi && shafi < hanafi && hanafi < st.Sunset) {
		t.Errorf("expected transit < shafi < hanafi < sunset, got %.3f %.3f %.3f %.3f",
			st.Transit, shafi, hanafi, st.Sunset)
	}
}

func TestSolarTime_AfternoonNearPolarNight(t *testing.T) {
	places := []struct {
		name     string
		lat, lon float64
		month    time.Month
		day      int
	}{
		{"Tromso", 69.6492, 18.9553, time.January, 21},
		{"Murmansk", 68.9585, 33.0827, time.January, 16},
		{"Norilsk", 69.3558, 88.1893, time.January, 18},
	}
	for _, p := range places {
		t.Run(p.name, func(t *testing.T) {
			for offset := -3; offset <= 3; offset++ {
				date := time.Date(2023, p.month, p.day+offset, 0, 0, 0, 0, time.UTC)
				st := NewSolarTime(date.Year(), int(date.Month()), date.Day(), p.lat, p.lon)
				shafi, shafiOK := st.Afternoon(1)
				hanafi, hanafiOK := st.Afternoon(2)
				for _, asr := range []struct {
					hours float64
					ok    bool
				}{{shafi, shafiOK}, {hanafi, hanafiOK}} {
					if !asr.ok {
						continue
					}
					if asr.hours <= st.Transit || (st.HasSunset && asr.hours >= st.Sunset) {
						t.Errorf("%s: asr %.3f outside transit %.3f and sunset %.3f",
							date.Format("2006-01-02"), asr.hours, st.Transit, st.Sunset)
					}
				}
				if shafiOK && hanafiOK && hanafi < shafi {
					t.Errorf("%s: hanafi %.4f before shafi %.4f", date.Format("2006-01-02"), hanafi, shafi)
				}
			}
		})
	}
}

func TestSolarTime_HourAngleStaysOnItsSide(t *testing.T) {
	for lat := -70.0; lat <= 70; lat += 5 {
		for day := 0; day < 365; day += 3 {
			date := time.Date(2023, time.January, 1+day, 0, 0, 0, 0, time.UTC)
			st := NewSolarTime(date.Year(), int(date.Month()), date.Day(), lat, 10)
			for _, angle := range []float64{SunriseAltitude, -12, -18} {
				if before, ok := st.HourAngle(angle, false); ok && (before >= st.Transit || before <= st.Transit-12) {
					t.Errorf("lat %v %s: %v before transit at %.3f, transit %.3f", lat, date.Format("01-02"), angle, before, st.Transit)
				}
				if after, ok := st.HourAngle(angle, true); ok && (after <= st.Transit || after >= st.Transit+12) {
					t.Errorf("lat %v %s: %v after transit at %.3f, transit %.3f", lat, date.Format("01-02"), angle, after, st.Transit)
				}
			}
		}
	}
}

func TestSolarTime_PolarDay(t *testing.T) {
	st := NewSolarTime(2022, 6, 21, 80, 15)
	if st.HasSunrise || st.HasSunset {
		t.Error("no sunrise or sunset expected at 80N on the June solstice")
	}
	if _, ok := st.HourAngle(-18, false); ok {
		t.Error("no astronomical dawn expected at 80N on the June solstice")
	}
	// Transit still happens.
	if st.Transit < 0 || st.Transit > 24 {
		t.Errorf("transit = %.3f, want within the day", st.Transit)
	}
}

func TestSolarTime_PolarNight(t *testing.T) {
	st := NewSolarTime(2022, 12, 21, 80, 15)
	if st.Valid() {
		t.Error("no sunrise expected at 80N on the December solstice")
	}
	// The sun reaches -18 degrees at noon there, so a Fajr-style crossing exists.
	if _, ok := st.HourAngle(-18, false); !ok {
		t.Error("an 18 degree dawn crossing should exist at 80N in December")
	}
}

func TestSolarTime_NorthPole(t *testing.T) {
	st := NewSolarTime(2022, 3, 20, 90, 0)
	if st.HasSunrise || st.HasSunset {
		t.Error("the hour angle is undefined at the pole")
	}
}

// ---------------------------------------------------------------------------
// Cross-checks against independent sunrise libraries
// ---------------------------------------------------------------------------

func TestSolarTime_AgreesWithGoSunrise(t *testing.T) {
	places := []struct {
		name     string
		lat, lon float64
	}{
		{"Tunis", 36.8065, 10.1815},
		{"London", 51.5074, -0.1278},
		{"Cairo", 30.0444, 31.2357},
	}
	dates := []time.Time{
		time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 4, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 11, 5, 0, 0, 0, 0, time.UTC),
	}

	for _, p := range places {
		for _, d := range dates {
			st := NewSolarTime(d.Year(), int(d.Month()), d.Day(), p.lat, p.lon)
			rise, set := gosunrise.SunriseSunset(p.lat, p.lon, d.Year(), d.Month(), d.Day())

			gotRise := hoursToTime(d.Year(), d.Month(), d.Day(), st.Sunrise)
			gotSet := hoursToTime(d.Year(), d.Month(), d.Day(), st.Sunset)

			if diff := gotRise.Sub(rise); diff < -2*time.Minute || diff > 2*time.Minute {
				t.Errorf("%s %s: sunrise %v differs from go-sunrise %v by %v", p.name, d.Format("2006-01-02"), gotRise, rise, diff)
			}
			if diff := gotSet.Sub(set); diff < -2*time.Minute || diff > 2*time.Minute {
				t.Errorf("%s %s: sunset %v differs from go-sunrise %v by %v", p.name, d.Format("2006-01-02"), gotSet, set, diff)
			}
		}
	}
}

func TestSolarTime_AgreesWithKeep94Sunrise(t *testing.T) {
	lat, lon := 36.8065, 10.1815
	start := time.Date(2022, 8, 1, 12, 0, 0, 0, time.UTC)

	var s keep94.Sunrise
	s.Around(lat, lon, start)

	for i := 0; i < 5; i++ {
		d := start.AddDate(0, 0, i)
		st := NewSolarTime(d.Year(), int(d.Month()), d.Day(), lat, lon)

		gotRise := hoursToTime(d.Year(), d.Month(), d.Day(), st.Sunrise)
		gotSet := hoursToTime(d.Year(), d.Month(), d.Day(), st.Sunset)

		if diff := gotRise.Sub(s.Sunrise()); diff < -2*time.Minute || diff > 2*time.Minute {
			t.Errorf("day %d: sunrise %v differs from keep94/sunrise %v by %v", i, gotRise, s.Sunrise(), diff)
		}
		if diff := gotSet.Sub(s.Sunset()); diff < -2*time.Minute || diff > 2*time.Minute {
			t.Errorf("day %d: sunset %v differs from keep94/sunrise %v by %v", i, gotSet, s.Sunset(), diff)
		}
		s.AddDays(1)
	}
}

// ---------------------------------------------------------------------------
// Seasonal twilight
// ---------------------------------------------------------------------------

func TestDaysSinceSolstice(t *testing.T) {
	tests := []struct {
		name      string
		dayOfYear int
		year      int
		latitude  float64
		want      int
	}{
		{"north jan 1", 1, 2016, 1, 11},
		{"north dec 21 common", 355, 2015, 1, 0},
		{"north dec 31 leap", 366, 2016, 1, 10},
		{"south jun 21", 172, 2015, -1, 0},
		{"south jan 1 leap", 1, 2016, -1, 194},
		{"south jan 1 common", 1, 2015, -1, 194},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysSinceSolstice(tt.dayOfYear, tt.year, tt.latitude); got != tt.want {
				t.Errorf("DaysSinceSolstice(%d, %d, %v) = %d, want %d", tt.dayOfYear, tt.year, tt.latitude, got, tt.want)
			}
		})
	}
}

func TestSeasonAdjustedTwilight(t *testing.T) {
	// At the winter solstice the tables start at their "a" coefficient.
	lat := 55.0
	approxEqual(t, "morning", SeasonAdjustedMorningTwilight(lat, 355, 2015), 75+28.65, 1e-9)
	approxEqual(t, "evening ahmer", SeasonAdjustedEveningTwilight(lat, 355, 2015, ShafaqAhmer), 62+17.40, 1e-9)
	approxEqual(t, "evening abyad", SeasonAdjustedEveningTwilight(lat, 355, 2015, ShafaqAbyad), 75+25.60, 1e-9)

	// White twilight never ends earlier than red.
	for day := 1; day <= 365; day += 7 {
		red := SeasonAdjustedEveningTwilight(lat, day, 2015, ShafaqAhmer)
		white := SeasonAdjustedEveningTwilight(lat, day, 2015, ShafaqAbyad)
		if white < red {
			t.Errorf("day %d: white twilight %.2f < red %.2f", day, white, red)
		}
	}
}
