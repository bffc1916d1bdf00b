package astronomy

import "math"

// SunriseAltitude is the apparent altitude of the sun's centre at sunrise and
// sunset: refraction plus the solar semi-diameter.
const SunriseAltitude = -50.0 / 60.0

const (
	// maxResidual is the largest altitude error, in degrees, accepted from
	// the one-step hour angle correction.
	maxResidual = 0.005
	bisectSteps = 48
)

// Coordinates of the sun for a Julian day, all in degrees.
type Coordinates struct {
	Declination          float64
	RightAscension       float64
	ApparentSiderealTime float64
}

// NewCoordinates computes the sun's equatorial coordinates at 0h UT of
// Julian day jd.
func NewCoordinates(jd float64) Coordinates {
	T := JulianCentury(jd)
	L0 := MeanSolarLongitude(T)
	Lp := MeanLunarLongitude(T)
	omega := AscendingLunarNodeLongitude(T)
	lambda := Radians(ApparentSolarLongitude(T, L0))
	theta0 := MeanSiderealTime(T)
	dPsi := NutationInLongitude(L0, Lp, omega)
	dEpsilon := NutationInObliquity(L0, Lp, omega)
	epsilon0 := MeanObliquityOfTheEcliptic(T)
	epsilonApparent := Radians(ApparentObliquityOfTheEcliptic(T, epsilon0))

	return Coordinates{
		Declination:          Degrees(math.Asin(math.Sin(epsilonApparent) * math.Sin(lambda))),
		RightAscension:       Unwind(Degrees(math.Atan2(math.Cos(epsilonApparent)*math.Sin(lambda), math.Cos(lambda)))),
		ApparentSiderealTime: theta0 + dPsi*math.Cos(Radians(epsilon0+dEpsilon)),
	}
}

// SolarTime holds the solar events of one date at one place, expressed in
// hours after 0h UT of that date. Events that do not occur are marked
// invalid; Transit always occurs.
type SolarTime struct {
	Latitude  float64
	Longitude float64

	Transit    float64
	Sunrise    float64
	Sunset     float64
	HasSunrise bool
	HasSunset  bool

	observer      Coordinates
	prevSolar     Coordinates
	nextSolar     Coordinates
	approxTransit float64
}

// NewSolarTime computes the solar events for the Gregorian date at the given
// latitude and longitude in degrees.
func NewSolarTime(year, month, day int, latitude, longitude float64) SolarTime {
	jd := JulianDay(year, month, day)
	prev := NewCoordinates(jd - 1)
	solar := NewCoordinates(jd)
	next := NewCoordinates(jd + 1)

	m0 := ApproximateTransit(longitude, solar.ApparentSiderealTime, solar.RightAscension)

	st := SolarTime{
		Latitude:      latitude,
		Longitude:     longitude,
		observer:      solar,
		prevSolar:     prev,
		nextSolar:     next,
		approxTransit: m0,
	}
	st.Transit = CorrectedTransit(m0, longitude, solar.ApparentSiderealTime,
		solar.RightAscension, prev.RightAscension, next.RightAscension)
	st.Sunrise, st.HasSunrise = st.HourAngle(SunriseAltitude, false)
	st.Sunset, st.HasSunset = st.HourAngle(SunriseAltitude, true)
	return st
}

// Valid reports whether the sun both rises and sets on the date.
func (st SolarTime) Valid() bool {
	return st.HasSunrise && st.HasSunset
}

// Declination of the sun on the date in degrees.
func (st SolarTime) Declination() float64 {
	return st.observer.Declination
}

// HourAngle returns the hours after 0h UT at which the sun's centre is at
// altitude angle (degrees, negative below the horizon), before or after
// transit. ok is false when the sun never reaches that altitude.
func (st SolarTime) HourAngle(angle float64, afterTransit bool) (float64, bool) {
	hours, ok := CorrectedHourAngle(st.approxTransit, angle, st.Latitude, st.Longitude, afterTransit,
		st.observer.ApparentSiderealTime,
		st.observer.RightAscension, st.prevSolar.RightAscension, st.nextSolar.RightAscension,
		st.observer.Declination, st.prevSolar.Declination, st.nextSolar.Declination)
	if !ok {
		return 0, false
	}
	if st.settled(hours, angle, afterTransit) {
		return hours, true
	}
	// The one-step correction diverges when the crossing sits close to
	// either culmination.
	return st.crossing(angle, afterTransit)
}

// Afternoon returns the time at which an object's shadow is shadowLength times
// its height plus its noon shadow.
func (st SolarTime) Afternoon(shadowLength float64) (float64, bool) {
	tangent := math.Abs(st.Latitude - st.observer.Declination)
	inverse := shadowLength + math.Tan(Radians(tangent))
	if inverse <= 0 {
		// The sun stays below the horizon at noon, so there is no shadow.
		return 0, false
	}
	angle := Degrees(math.Atan(1 / inverse))
	return st.crossing(angle, true)
}

// altitude of the sun's centre at fraction m of the day after 0h UT, from
// the interpolated coordinates.
func (st SolarTime) altitude(m float64) float64 {
	theta := Unwind(st.observer.ApparentSiderealTime + 360.985647*m)
	alpha := Unwind(InterpolateAngles(st.observer.RightAscension, st.prevSolar.RightAscension, st.nextSolar.RightAscension, m))
	delta := Interpolate(st.observer.Declination, st.prevSolar.Declination, st.nextSolar.Declination, m)
	return AltitudeOfCelestialBody(st.Latitude, delta, theta+st.Longitude-alpha)
}

// settled reports whether hours lies on the requested side of transit,
// within half a day of it, with the sun at angle.
func (st SolarTime) settled(hours, angle float64, afterTransit bool) bool {
	offset := hours - st.Transit
	if !afterTransit {
		offset = -offset
	}
	if offset <= 0 || offset >= 12 {
		return false
	}
	return math.Abs(st.altitude(hours/24)-angle) <= maxResidual
}

// crossing bisects the half day between transit and the lower culmination,
// where altitude is monotonic, for the instant the sun is at angle.
func (st SolarTime) crossing(angle float64, afterTransit bool) (float64, bool) {
	noon := st.Transit / 24
	lo, hi := noon-0.5, noon
	if afterTransit {
		lo, hi = noon, noon+0.5
	}
	a, b := st.altitude(lo), st.altitude(hi)
	if angle < math.Min(a, b) || angle > math.Max(a, b) {
		return 0, false
	}
	for i := 0; i < bisectSteps; i++ {
		mid := (lo + hi) / 2
		if (st.altitude(mid) > angle) == afterTransit {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2 * 24, true
}
