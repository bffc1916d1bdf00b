package prayertimes

import (
	"fmt"
	"math"
	"strings"

	"github.com/smokyabdulrahman/prayercalc/internal/astronomy"
)

// PolarCircleResolution picks a substitute schedule for days on which the sun
// does not rise or set.
type PolarCircleResolution int

const (
	// LeaveUnresolved keeps whatever the sun itself provides; sunrise and
	// Maghrib are absent.
	LeaveUnresolved PolarCircleResolution = iota
	// NearestPlace moves toward the equator until the sun rises and sets.
	NearestPlace
	// NearestDay borrows the closest date on which the sun rises and sets.
	NearestDay
	// UmmAlQuraReference uses the latitude of Makkah with the local longitude.
	UmmAlQuraReference
)

const (
	nearestDayWindow   = 183
	nearestPlaceStep   = 0.5
	nearestPlaceCutoff = 65.0
)

// Kaaba is the Umm al-Qura reference location.
var Kaaba = MustCoordinates(21.4225241, 39.8261818)

func (r PolarCircleResolution) String() string {
	switch r {
	case LeaveUnresolved:
		return "unresolved"
	case NearestPlace:
		return "nearest_place"
	case NearestDay:
		return "nearest_day"
	case UmmAlQuraReference:
		return "umm_al_qura"
	default:
		return fmt.Sprintf("PolarCircleResolution(%d)", int(r))
	}
}

func (r PolarCircleResolution) valid() bool {
	return r >= LeaveUnresolved && r <= UmmAlQuraReference
}

// ParsePolarCircleResolution accepts the String form plus the traditional
// aqrab_balad and aqrab_yaum names.
func ParsePolarCircleResolution(s string) (PolarCircleResolution, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch strings.ReplaceAll(key, "_", "") {
	case "unresolved", "none", "":
		return LeaveUnresolved, nil
	case "nearestplace", "aqrabbalad":
		return NearestPlace, nil
	case "nearestday", "aqrabyaum":
		return NearestDay, nil
	case "ummalqura", "makkah":
		return UmmAlQuraReference, nil
	}
	return 0, fmt.Errorf("unknown polar circle resolution %q", s)
}

// solarDay is the solar data a schedule is built from: the day itself and
// the next one, whose sunrise ends the night.
type solarDay struct {
	date     CivilDate
	coords   Coordinates
	today    astronomy.SolarTime
	tomorrow astronomy.SolarTime
}

func newSolarDay(date CivilDate, coords Coordinates) solarDay {
	next := date.AddDays(1)
	return solarDay{
		date:     date,
		coords:   coords,
		today:    astronomy.NewSolarTime(date.Year, int(date.Month), date.Day, coords.latitude, coords.longitude),
		tomorrow: astronomy.NewSolarTime(next.Year, int(next.Month), next.Day, coords.latitude, coords.longitude),
	}
}

func (d solarDay) valid() bool {
	return d.today.Valid() && d.tomorrow.Valid()
}

// resolve searches for a substitute solar day. ok is false when the search
// is exhausted or r is LeaveUnresolved.
func (r PolarCircleResolution) resolve(date CivilDate, coords Coordinates) (solarDay, bool) {
	switch r {
	case NearestDay:
		for offset := 1; offset <= nearestDayWindow; offset++ {
			for _, sign := range [...]int{1, -1} {
				if d := newSolarDay(date.AddDays(sign*offset), coords); d.valid() {
					return d, true
				}
			}
		}
	case NearestPlace:
		lat := coords.latitude
		for math.Abs(lat) >= nearestPlaceCutoff {
			lat -= math.Copysign(nearestPlaceStep, lat)
			if d := newSolarDay(date, coords.withLatitude(lat)); d.valid() {
				return d, true
			}
		}
	case UmmAlQuraReference:
		if d := newSolarDay(date, coords.withLatitude(Kaaba.latitude)); d.valid() {
			return d, true
		}
	}
	return solarDay{}, false
}
