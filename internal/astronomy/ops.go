package astronomy

import (
	"math"

	"github.com/mooncaker816/learnmeeus/v3/base"
)

// MeanSolarLongitude of the sun in degrees (Meeus 25.2).
func MeanSolarLongitude(T float64) float64 {
	return Unwind(base.Horner(T, 280.4664567, 36000.76983, 0.0003032))
}

// MeanLunarLongitude of the moon in degrees (Meeus p.144).
func MeanLunarLongitude(T float64) float64 {
	return Unwind(218.3165 + 481267.8813*T)
}

// AscendingLunarNodeLongitude in degrees (Meeus p.144).
func AscendingLunarNodeLongitude(T float64) float64 {
	return Unwind(base.Horner(T, 125.04452, -1934.136261, 0.0020708, 1.0/450000))
}

// MeanSolarAnomaly in degrees (Meeus 25.3).
func MeanSolarAnomaly(T float64) float64 {
	return Unwind(base.Horner(T, 357.52911, 35999.05029, -0.0001537))
}

// SolarEquationOfTheCenter in degrees for mean anomaly M (Meeus p.164).
func SolarEquationOfTheCenter(T, M float64) float64 {
	m := Radians(M)
	return math.Sin(m)*base.Horner(T, 1.914602, -0.004817, -0.000014) +
		math.Sin(2*m)*(0.019993-0.000101*T) +
		math.Sin(3*m)*0.000289
}

// ApparentSolarLongitude in degrees for mean longitude L0 (Meeus p.164).
func ApparentSolarLongitude(T, L0 float64) float64 {
	longitude := L0 + SolarEquationOfTheCenter(T, MeanSolarAnomaly(T))
	omega := 125.04 - 1934.136*T
	return Unwind(longitude - 0.00569 - 0.00478*math.Sin(Radians(omega)))
}

// MeanObliquityOfTheEcliptic in degrees (Meeus 22.2).
func MeanObliquityOfTheEcliptic(T float64) float64 {
	return base.Horner(T, 23.439291, -0.013004167, -0.0000001639, 0.0000005036)
}

// ApparentObliquityOfTheEcliptic in degrees for mean obliquity e0 (Meeus p.165).
func ApparentObliquityOfTheEcliptic(T, e0 float64) float64 {
	omega := 125.04 - 1934.136*T
	return e0 + 0.00256*math.Cos(Radians(omega))
}

// MeanSiderealTime at Greenwich in degrees (Meeus 12.4).
func MeanSiderealTime(T float64) float64 {
	jd := T*base.JulianCentury + base.J2000
	theta := 280.46061837 + 360.98564736629*(jd-base.J2000) + 0.000387933*T*T - T*T*T/38710000
	return Unwind(theta)
}

// NutationInLongitude in degrees (Meeus p.144).
func NutationInLongitude(L0, Lp, omega float64) float64 {
	return (-17.2/3600)*math.Sin(Radians(omega)) -
		(1.32/3600)*math.Sin(2*Radians(L0)) -
		(0.23/3600)*math.Sin(2*Radians(Lp)) +
		(0.21/3600)*math.Sin(2*Radians(omega))
}

// NutationInObliquity in degrees (Meeus p.144).
func NutationInObliquity(L0, Lp, omega float64) float64 {
	return (9.2/3600)*math.Cos(Radians(omega)) +
		(0.57/3600)*math.Cos(2*Radians(L0)) +
		(0.10/3600)*math.Cos(2*Radians(Lp)) -
		(0.09/3600)*math.Cos(2*Radians(omega))
}

// AltitudeOfCelestialBody in degrees for observer latitude phi, declination
// delta and local hour angle H, all in degrees (Meeus 13.6).
func AltitudeOfCelestialBody(phi, delta, H float64) float64 {
	p, d := Radians(phi), Radians(delta)
	return Degrees(math.Asin(math.Sin(p)*math.Sin(d) + math.Cos(p)*math.Cos(d)*math.Cos(Radians(H))))
}

// ApproximateTransit returns the fraction of the day at which the body with
// right ascension alpha2 transits longitude L (Meeus 15.2).
func ApproximateTransit(L, siderealTime, alpha2 float64) float64 {
	Lw := -L
	return NormalizeToScale((alpha2+Lw-siderealTime)/360, 1)
}

// CorrectedTransit returns the transit in hours from 0h UT, refined with the
// right ascensions of the previous and next days (Meeus 15).
func CorrectedTransit(m0, L, siderealTime, alpha2, alpha1, alpha3 float64) float64 {
	Lw := -L
	theta := Unwind(siderealTime + 360.985647*m0)
	alpha := Unwind(InterpolateAngles(alpha2, alpha1, alpha3, m0))
	H := QuadrantShift(theta - Lw - alpha)
	dm := H / -360
	return (m0 + dm) * 24
}

// CorrectedHourAngle returns the hours from 0h UT at which the sun reaches
// altitude h0 before (afterTransit false) or after transit. ok is false when
// the sun never reaches that altitude on the date.
func CorrectedHourAngle(m0, h0, latitude, longitude float64, afterTransit bool,
	siderealTime, alpha2, alpha1, alpha3, delta2, delta1, delta3 float64) (float64, bool) {
	Lw := -longitude
	term1 := math.Sin(Radians(h0)) - math.Sin(Radians(latitude))*math.Sin(Radians(delta2))
	term2 := math.Cos(Radians(latitude)) * math.Cos(Radians(delta2))
	cosH0 := term1 / term2
	if math.IsNaN(cosH0) || math.IsInf(cosH0, 0) || cosH0 < -1 || cosH0 > 1 {
		return 0, false
	}
	H0 := Degrees(math.Acos(cosH0))

	m := m0 - H0/360
	if afterTransit {
		m = m0 + H0/360
	}
	theta := Unwind(siderealTime + 360.985647*m)
	alpha := Unwind(InterpolateAngles(alpha2, alpha1, alpha3, m))
	delta := Interpolate(delta2, delta1, delta3, m)
	H := theta - Lw - alpha
	h := AltitudeOfCelestialBody(latitude, delta, H)
	dm := (h - h0) / (360 * math.Cos(Radians(delta)) * math.Cos(Radians(latitude)) * math.Sin(Radians(H)))
	hours := (m + dm) * 24
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, false
	}
	return hours, true
}

// Interpolate y at fraction n given y2 at n=0, y1 the day before and y3 the
// day after (Meeus 3.3).
func Interpolate(y2, y1, y3, n float64) float64 {
	a := y2 - y1
	b := y3 - y2
	c := b - a
	return y2 + (n/2)*(a+b+n*c)
}

// InterpolateAngles is Interpolate for angles that may wrap at 360 degrees.
func InterpolateAngles(y2, y1, y3, n float64) float64 {
	a := Unwind(y2 - y1)
	b := Unwind(y3 - y2)
	c := b - a
	return y2 + (n/2)*(a+b+n*c)
}
