package api

import (
	"fmt"
	"strings"
	"time"
)

// Response is the top-level Al Adhan response.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// Data holds the timings and the metadata describing how they were computed.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings are local clock times as "HH:MM", sometimes followed by a zone
// abbreviation like " (BST)".
type Timings struct {
	Fajr      string `json:"Fajr"`
	Sunrise   string `json:"Sunrise"`
	Dhuhr     string `json:"Dhuhr"`
	Asr       string `json:"Asr"`
	Maghrib   string `json:"Maghrib"`
	Isha      string `json:"Isha"`
	Midnight  string `json:"Midnight"`
	Lastthird string `json:"Lastthird"`
}

// Clock returns the raw value for a prayer name as used by the local engine
// (fajr, sunrise, dhuhr, asr, maghrib, isha, midnight, last_third).
func (t Timings) Clock(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "fajr":
		return t.Fajr, true
	case "sunrise":
		return t.Sunrise, true
	case "dhuhr":
		return t.Dhuhr, true
	case "asr":
		return t.Asr, true
	case "maghrib":
		return t.Maghrib, true
	case "isha":
		return t.Isha, true
	case "midnight":
		return t.Midnight, true
	case "last_third":
		return t.Lastthird, true
	}
	return "", false
}

// At parses the named timing on the given day in loc.
func (t Timings) At(name string, year int, month time.Month, day int, loc *time.Location) (time.Time, error) {
	raw, ok := t.Clock(name)
	if !ok {
		return time.Time{}, fmt.Errorf("unknown prayer name: %s", name)
	}
	return ParseClock(raw, year, month, day, loc)
}

// ParseClock parses "15:02" or "15:02 (BST)" on the given day in loc.
func ParseClock(raw string, year int, month time.Month, day int, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}
	clock, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %q", raw)
	}
	return time.Date(year, month, day, clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// DateInfo carries the Gregorian and Hijri forms of the requested day.
type DateInfo struct {
	Readable  string    `json:"readable"`
	Timestamp string    `json:"timestamp"`
	Hijri     HijriDate `json:"hijri"`
}

// HijriDate is the Hijri date as returned by Al Adhan.
type HijriDate struct {
	Date        string           `json:"date"` // "10-08-1447"
	Day         string           `json:"day"`
	Month       HijriMonth       `json:"month"`
	Year        string           `json:"year"`
	Designation HijriDesignation `json:"designation"`
}

// HijriMonth names a Hijri month.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
	Ar     string `json:"ar"`
}

// HijriDesignation holds the era labels.
type HijriDesignation struct {
	Abbreviated string `json:"abbreviated"`
	Expanded    string `json:"expanded"`
}

// Format returns "DD MonthName YYYY AH", or "" when a part is missing.
func (h HijriDate) Format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	abbr := h.Designation.Abbreviated
	if abbr == "" {
		abbr = "AH"
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " " + abbr
}

// Meta echoes the request as Al Adhan understood it.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
	School    string     `json:"school"`
}

// Location loads the IANA zone Al Adhan resolved for the coordinates. It
// falls back to UTC when the zone is empty or unknown.
func (m Meta) Location() *time.Location {
	if m.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MethodInfo identifies the calculation method Al Adhan applied.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
