package prayertimes

import (
	"fmt"
	"time"
)

// CivilDate is a calendar date together with the UTC offset the caller wants
// results expressed in. Resolving a timezone name to an offset is the
// caller's job.
type CivilDate struct {
	Year   int
	Month  time.Month
	Day    int
	Offset time.Duration
}

// NewCivilDate takes the calendar date and zone offset of t.
func NewCivilDate(t time.Time) CivilDate {
	_, offset := t.Zone()
	return CivilDate{
		Year:   t.Year(),
		Month:  t.Month(),
		Day:    t.Day(),
		Offset: time.Duration(offset) * time.Second,
	}
}

// Midnight returns 00:00 UTC of the date. Solar events are measured from it.
func (d CivilDate) Midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later (or earlier for negative n), keeping
// the offset.
func (d CivilDate) AddDays(n int) CivilDate {
	t := d.Midnight().AddDate(0, 0, n)
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day(), Offset: d.Offset}
}

// DaysUntil returns the whole days from d to other.
func (d CivilDate) DaysUntil(other CivilDate) int {
	return int(other.Midnight().Sub(d.Midnight()).Hours() / 24)
}

// Location returns a fixed zone for the offset.
func (d CivilDate) Location() *time.Location {
	if d.Offset == 0 {
		return time.UTC
	}
	return time.FixedZone(offsetName(d.Offset), int(d.Offset/time.Second))
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func offsetName(offset time.Duration) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	return fmt.Sprintf("UTC%c%02d:%02d", sign, h, m)
}
