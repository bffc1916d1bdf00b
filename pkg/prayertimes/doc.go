// Package prayertimes computes daily Islamic prayer times from the sun's
// position.
//
// A schedule is built with Compute from a CivilDate, validated Coordinates and
// Parameters derived from a Method preset:
//
//	coords, err := prayertimes.NewCoordinates(36.81, 10.18)
//	params, err := prayertimes.NewParameters(prayertimes.Tunisia, prayertimes.Shafi)
//	pt := prayertimes.Compute(prayertimes.NewCivilDate(time.Now()), coords, params)
//
// Times that do not occur (for example Isha during a polar day) are reported
// with Valid false unless a HighLatitudeRule or PolarCircleResolution supplies
// a substitute. Each Time carries the Resolution that produced it.
//
// The package does no I/O and keeps no state; it is safe for concurrent use.
package prayertimes
