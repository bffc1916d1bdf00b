package prayertimes

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/smokyabdulrahman/prayercalc/internal/astronomy"
)

// HighLatitudeRule bounds Fajr and Isha by a portion of the night when the
// twilight angle is reached too early, too late, or never.
type HighLatitudeRule int

const (
	// TwilightAngle uses angle/60 of the night.
	TwilightAngle HighLatitudeRule = iota
	// MiddleOfTheNight uses half the night.
	MiddleOfTheNight
	// SeventhOfTheNight uses a seventh of the night.
	SeventhOfTheNight
)

const (
	// Defined crossings are only clamped at or beyond this absolute latitude.
	highLatitudeThreshold = 48.0
	// Beyond this the Moonsighting Committee fixes Fajr and Isha at a
	// seventh of the night from sunrise and sunset.
	moonsightingLatitude = 55.0
)

func (r HighLatitudeRule) String() string {
	switch r {
	case TwilightAngle:
		return "twilight_angle"
	case MiddleOfTheNight:
		return "middle_of_the_night"
	case SeventhOfTheNight:
		return "seventh_of_the_night"
	default:
		return fmt.Sprintf("HighLatitudeRule(%d)", int(r))
	}
}

func (r HighLatitudeRule) valid() bool {
	return r >= TwilightAngle && r <= SeventhOfTheNight
}

// ParseHighLatitudeRule accepts the String form with or without underscores.
func ParseHighLatitudeRule(s string) (HighLatitudeRule, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch strings.ReplaceAll(key, "_", "") {
	case "twilightangle", "angle":
		return TwilightAngle, nil
	case "middleofthenight", "middle":
		return MiddleOfTheNight, nil
	case "seventhofthenight", "seventh":
		return SeventhOfTheNight, nil
	}
	return 0, fmt.Errorf("unknown high latitude rule %q", s)
}

// RecommendedHighLatitudeRule returns the rule to use at coords.
// TwilightAngle is currently recommended everywhere.
func RecommendedHighLatitudeRule(coords Coordinates) HighLatitudeRule {
	return TwilightAngle
}

// nightBounds applies the high-latitude rule to one day's raw twilight
// crossings. Night runs from sunset to the next sunrise.
type nightBounds struct {
	params   Parameters
	latitude float64
	date     CivilDate
	sunrise  time.Time
	sunset   time.Time
	night    time.Duration
}

func (b nightBounds) moonsighting() bool {
	return b.params.Method == MoonsightingCommittee
}

func (b nightBounds) dayOfYear() int {
	return astronomy.DayOfYear(b.date.Year, int(b.date.Month), b.date.Day)
}

func (b nightBounds) safeFajr() time.Time {
	if b.moonsighting() {
		minutes := astronomy.SeasonAdjustedMorningTwilight(b.latitude, b.dayOfYear(), b.date.Year)
		return b.sunrise.Add(-minutesDuration(minutes))
	}
	portion, _ := b.params.NightPortions()
	return b.sunrise.Add(-time.Duration(portion * float64(b.night)))
}

func (b nightBounds) safeIsha() time.Time {
	if b.moonsighting() {
		minutes := astronomy.SeasonAdjustedEveningTwilight(b.latitude, b.dayOfYear(), b.date.Year, b.params.Twilight.shafaq())
		return b.sunset.Add(minutesDuration(minutes))
	}
	_, portion := b.params.NightPortions()
	return b.sunset.Add(time.Duration(portion * float64(b.night)))
}

func (b nightBounds) fajr(raw time.Time, ok bool) Time {
	lat := math.Abs(b.latitude)
	if b.moonsighting() && lat >= moonsightingLatitude {
		return Time{At: b.sunrise.Add(-b.night / 7), Valid: true, Resolution: HighLatitude}
	}
	safe := b.safeFajr()
	if !ok || (lat >= highLatitudeThreshold && raw.Before(safe)) {
		return Time{At: safe, Valid: true, Resolution: HighLatitude}
	}
	return Time{At: raw, Valid: true, Resolution: Normal}
}

func (b nightBounds) isha(raw time.Time, ok bool) Time {
	lat := math.Abs(b.latitude)
	if b.moonsighting() && lat >= moonsightingLatitude {
		return Time{At: b.sunset.Add(b.night / 7), Valid: true, Resolution: HighLatitude}
	}
	safe := b.safeIsha()
	if !ok || (lat >= highLatitudeThreshold && raw.After(safe)) {
		return Time{At: safe, Valid: true, Resolution: HighLatitude}
	}
	return Time{At: raw, Valid: true, Resolution: Normal}
}

func minutesDuration(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}
