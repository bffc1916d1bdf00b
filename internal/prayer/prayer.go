// Package prayer turns computed schedules into the flat, named list the CLI
// and status-bar binaries display.
package prayer

import (
	"fmt"
	"time"

	"github.com/smokyabdulrahman/prayercalc/pkg/prayertimes"
)

// Prayer is one named entry of a displayed schedule.
type Prayer struct {
	Name       string
	Time       time.Time
	Valid      bool
	Resolution prayertimes.Resolution
}

// ShortNames maps prayer names to status-bar abbreviations.
var ShortNames = map[string]string{
	"Fajr":      "F",
	"Sunrise":   "S",
	"Dhuhr":     "D",
	"Asr":       "A",
	"Maghrib":   "M",
	"Isha":      "I",
	"Midnight":  "Mi",
	"LastThird": "L3",
}

// FromSchedule picks the selected entries out of pt, in the given order, and
// moves them into loc for display.
func FromSchedule(pt prayertimes.PrayerTimes, selected []prayertimes.Prayer, loc *time.Location) []Prayer {
	prayers := make([]Prayer, 0, len(selected))
	for _, p := range selected {
		t := pt.TimeFor(p)
		entry := Prayer{Name: p.String(), Valid: t.Valid, Resolution: t.Resolution}
		if t.Valid {
			entry.Time = t.At.In(loc)
		}
		prayers = append(prayers, entry)
	}
	return prayers
}

// NextPrayer returns the first valid prayer after now, or nil when every
// prayer in the list has passed (the caller should look at tomorrow).
func NextPrayer(prayers []Prayer, now time.Time) *Prayer {
	for i := range prayers {
		if prayers[i].Valid && prayers[i].Time.After(now) {
			return &prayers[i]
		}
	}
	return nil
}

// CurrentPrayer returns the latest valid prayer at or before now, or nil
// before the first one.
func CurrentPrayer(prayers []Prayer, now time.Time) *Prayer {
	var current *Prayer
	for i := range prayers {
		if prayers[i].Valid && !prayers[i].Time.After(now) {
			if current == nil || prayers[i].Time.After(current.Time) {
				current = &prayers[i]
			}
		}
	}
	return current
}

// TimeRemaining returns the duration until the given prayer time.
func TimeRemaining(p Prayer, now time.Time) time.Duration {
	return p.Time.Sub(now)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// Marker flags times that did not come from the sun's own crossing.
func Marker(r prayertimes.Resolution) string {
	switch r {
	case prayertimes.HighLatitude:
		return "*"
	case prayertimes.PolarCircle:
		return "^"
	}
	return ""
}

// Legend explains the markers present in prayers, or returns "".
func Legend(prayers []Prayer) string {
	var high, polar bool
	for _, p := range prayers {
		high = high || p.Resolution == prayertimes.HighLatitude
		polar = polar || p.Resolution == prayertimes.PolarCircle
	}
	switch {
	case high && polar:
		return "* high-latitude rule   ^ borrowed from nearest day/place"
	case high:
		return "* high-latitude rule"
	case polar:
		return "^ borrowed from nearest day/place"
	}
	return ""
}
