package prayertimes

import (
	"fmt"
	"strings"
	"time"
)

// Prayer names a time in the daily schedule.
type Prayer int

const (
	Fajr Prayer = iota
	Sunrise
	Dhuhr
	Asr
	Maghrib
	Isha
	// Midnight is halfway between Maghrib and the next day's Fajr.
	Midnight
	// LastThird starts two thirds of the way from Maghrib to the next day's
	// Fajr.
	LastThird
)

var prayerNames = [...]string{
	Fajr:      "Fajr",
	Sunrise:   "Sunrise",
	Dhuhr:     "Dhuhr",
	Asr:       "Asr",
	Maghrib:   "Maghrib",
	Isha:      "Isha",
	Midnight:  "Midnight",
	LastThird: "LastThird",
}

// DailyPrayers are the six canonical times in chronological order.
var DailyPrayers = []Prayer{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

func (p Prayer) String() string {
	if p >= 0 && int(p) < len(prayerNames) {
		return prayerNames[p]
	}
	return fmt.Sprintf("Prayer(%d)", int(p))
}

// ParsePrayer matches a prayer name case-insensitively. "Midnight" and
// "LastThird" name the night markers.
func ParsePrayer(s string) (Prayer, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range prayerNames {
		if strings.ToLower(name) == key {
			return Prayer(i), nil
		}
	}
	switch key {
	case "shuruq", "sunrise":
		return Sunrise, nil
	case "zuhr", "dhuhur":
		return Dhuhr, nil
	case "middleofthenight":
		return Midnight, nil
	case "lastthirdofthenight", "last_third":
		return LastThird, nil
	}
	return 0, fmt.Errorf("unknown prayer %q", s)
}

// Resolution records how a prayer time was obtained.
type Resolution int

const (
	// Normal: the time comes from the sun's own crossing on the requested day.
	Normal Resolution = iota
	// HighLatitude: the time was filled or clamped by the high-latitude rule.
	HighLatitude
	// PolarCircle: the time was borrowed from another date or place.
	PolarCircle
	// Unresolved: no time exists and none was substituted.
	Unresolved
)

func (r Resolution) String() string {
	switch r {
	case Normal:
		return "normal"
	case HighLatitude:
		return "high_latitude"
	case PolarCircle:
		return "polar_circle"
	case Unresolved:
		return "unresolved"
	default:
		return fmt.Sprintf("Resolution(%d)", int(r))
	}
}

// Time is one entry of a schedule. An absent time has Valid false and a zero At.
type Time struct {
	At         time.Time
	Valid      bool
	Resolution Resolution
}

// Get returns the time and whether it exists.
func (t Time) Get() (time.Time, bool) {
	return t.At, t.Valid
}

func (t Time) String() string {
	if !t.Valid {
		return "--:--"
	}
	return t.At.Format("15:04")
}

func absent() Time {
	return Time{Resolution: Unresolved}
}
