package prayertimes

import (
	"math"

	"github.com/smokyabdulrahman/prayercalc/internal/astronomy"
)

// Qibla returns the initial great-circle bearing from coords to the Kaaba in
// degrees clockwise from true north.
func Qibla(coords Coordinates) float64 {
	phi := astronomy.Radians(coords.latitude)
	phiK := astronomy.Radians(Kaaba.latitude)
	dLon := astronomy.Radians(Kaaba.longitude - coords.longitude)

	y := math.Sin(dLon)
	x := math.Cos(phi)*math.Tan(phiK) - math.Sin(phi)*math.Cos(dLon)
	return astronomy.Unwind(astronomy.Degrees(math.Atan2(y, x)))
}
