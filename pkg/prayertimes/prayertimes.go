package prayertimes

import (
	"math"
	"time"

	"github.com/smokyabdulrahman/prayercalc/internal/astronomy"
)

// PrayerTimes is the schedule for one date and place.
type PrayerTimes struct {
	Fajr    Time
	Sunrise Time
	Dhuhr   Time
	Asr     Time
	Maghrib Time
	Isha    Time

	MiddleOfTheNight    Time
	LastThirdOfTheNight Time

	Date        CivilDate
	Coordinates Coordinates
	Parameters  Parameters

	// ResolvedDate and ResolvedCoordinates are what the schedule was actually
	// computed for. They differ from Date and Coordinates only when a polar
	// circle resolution borrowed another day or place.
	ResolvedDate        CivilDate
	ResolvedCoordinates Coordinates
}

// Compute builds the schedule for date at coords. Times that do not exist
// and could not be substituted are returned with Valid false.
func Compute(date CivilDate, coords Coordinates, params Parameters) PrayerTimes {
	pt := schedule(date, coords, params)
	next := schedule(date.AddDays(1), coords, params)
	pt.MiddleOfTheNight, pt.LastThirdOfTheNight = nightMarkers(pt.Maghrib, next.Fajr, date.Location())
	return pt
}

func schedule(date CivilDate, coords Coordinates, params Parameters) PrayerTimes {
	pt := PrayerTimes{
		Date:                date,
		Coordinates:         coords,
		Parameters:          params,
		ResolvedDate:        date,
		ResolvedCoordinates: coords,
	}

	solar, shift := solarDate(date, coords)
	own := newSolarDay(solar, coords)
	day, source := own, Normal
	if !own.valid() {
		if borrowed, ok := params.PolarCircleResolution.resolve(solar, coords); ok {
			day, source = borrowed, PolarCircle
			pt.ResolvedDate, pt.ResolvedCoordinates = borrowed.date.AddDays(-shift), borrowed.coords
		}
	}

	// Borrowed hours keep their time of day and land on the requested date.
	origin := solar.Midnight()
	at := func(hours float64) time.Time {
		return origin.Add(time.Duration(hours * float64(time.Hour)))
	}
	today := day.today

	pt.Dhuhr = Time{At: at(own.today.Transit), Valid: true, Resolution: Normal}

	pt.Sunrise, pt.Maghrib, pt.Asr = absent(), absent(), absent()
	if today.HasSunrise {
		pt.Sunrise = Time{At: at(today.Sunrise), Valid: true, Resolution: source}
	}
	if today.HasSunset {
		pt.Maghrib = Time{At: at(today.Sunset), Valid: true, Resolution: source}
	}
	if h, ok := today.Afternoon(params.Madhab.ShadowLength()); ok {
		pt.Asr = Time{At: at(h), Valid: true, Resolution: source}
	}

	fajrHours, fajrOK := today.HourAngle(-params.FajrAngle, false)
	ishaHours, ishaOK := today.HourAngle(-params.IshaAngle, true)
	fajr, isha := at(fajrHours), at(ishaHours)

	if day.valid() {
		bounds := nightBounds{
			params:   params,
			latitude: day.coords.latitude,
			date:     day.date,
			sunrise:  at(today.Sunrise),
			sunset:   at(today.Sunset),
			night:    time.Duration((24 + day.tomorrow.Sunrise - today.Sunset) * float64(time.Hour)),
		}
		pt.Fajr = bounds.fajr(fajr, fajrOK)
		pt.Isha = bounds.isha(isha, ishaOK)
		if source == PolarCircle {
			pt.Fajr.Resolution, pt.Isha.Resolution = PolarCircle, PolarCircle
		}
	} else {
		// No night to take a portion of: keep raw crossings only.
		pt.Fajr, pt.Isha = absent(), absent()
		if fajrOK {
			pt.Fajr = Time{At: fajr, Valid: true, Resolution: Normal}
		}
		if ishaOK {
			pt.Isha = Time{At: isha, Valid: true, Resolution: Normal}
		}
	}

	if params.IshaInterval > 0 {
		pt.Isha = absent()
		if pt.Maghrib.Valid {
			pt.Isha = pt.Maghrib
			pt.Isha.At = pt.Maghrib.At.Add(time.Duration(params.IshaInterval) * time.Minute)
		}
	}

	loc := date.Location()
	pt.Fajr = finalize(pt.Fajr, params.adjustment(Fajr), loc)
	pt.Sunrise = finalize(pt.Sunrise, params.adjustment(Sunrise), loc)
	pt.Dhuhr = finalize(pt.Dhuhr, params.adjustment(Dhuhr), loc)
	pt.Asr = finalize(pt.Asr, params.adjustment(Asr), loc)
	pt.Maghrib = finalize(pt.Maghrib, params.adjustment(Maghrib), loc)
	pt.Isha = finalize(pt.Isha, params.adjustment(Isha), loc)

	// Near the polar night the shadow angle is reached only moments from
	// noon; an Asr that cannot be ordered between Dhuhr and Maghrib is dropped.
	if pt.Asr.Valid && (!pt.Asr.At.After(pt.Dhuhr.At) || (pt.Maghrib.Valid && !pt.Asr.At.Before(pt.Maghrib.At))) {
		pt.Asr = absent()
	}
	return pt
}

// solarDate returns the UTC date whose transit falls on the local date, and
// how many days it lies after date. The two differ near the date line.
func solarDate(date CivilDate, coords Coordinates) (CivilDate, int) {
	st := astronomy.NewSolarTime(date.Year, int(date.Month), date.Day, coords.latitude, coords.longitude)
	loc := date.Location()
	transit := date.Midnight().Add(time.Duration(st.Transit * float64(time.Hour))).In(loc)
	start := time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, loc)
	shift := 0
	switch {
	case transit.Before(start):
		shift = 1
	case !transit.Before(start.AddDate(0, 0, 1)):
		shift = -1
	}
	return date.AddDays(shift), shift
}

// finalize rounds to the nearest minute and then applies the adjustment.
func finalize(t Time, minutes int, loc *time.Location) Time {
	if !t.Valid {
		return t
	}
	t.At = t.At.Round(time.Minute).Add(time.Duration(minutes) * time.Minute).In(loc)
	return t
}

// nightMarkers splits the night from Maghrib to the next day's Fajr.
func nightMarkers(maghrib, nextFajr Time, loc *time.Location) (middle, lastThird Time) {
	if !maghrib.Valid || !nextFajr.Valid {
		return absent(), absent()
	}
	night := nextFajr.At.Sub(maghrib.At)
	res := Resolution(max(int(maghrib.Resolution), int(nextFajr.Resolution)))
	middle = Time{At: maghrib.At.Add(night / 2).Round(time.Minute).In(loc), Valid: true, Resolution: res}
	lastThird = Time{At: maghrib.At.Add(night * 2 / 3).Round(time.Minute).In(loc), Valid: true, Resolution: res}
	return middle, lastThird
}

// TimeFor returns the entry for p.
func (pt PrayerTimes) TimeFor(p Prayer) Time {
	switch p {
	case Fajr:
		return pt.Fajr
	case Sunrise:
		return pt.Sunrise
	case Dhuhr:
		return pt.Dhuhr
	case Asr:
		return pt.Asr
	case Maghrib:
		return pt.Maghrib
	case Isha:
		return pt.Isha
	case Midnight:
		return pt.MiddleOfTheNight
	case LastThird:
		return pt.LastThirdOfTheNight
	}
	return absent()
}

// CurrentPrayer returns the latest of the six daily times at or before at.
// ok is false before Fajr.
func (pt PrayerTimes) CurrentPrayer(at time.Time) (Prayer, bool) {
	for i := len(DailyPrayers) - 1; i >= 0; i-- {
		p := DailyPrayers[i]
		if t := pt.TimeFor(p); t.Valid && !t.At.After(at) {
			return p, true
		}
	}
	return 0, false
}

// NextPrayer returns the first of the six daily times after at. ok is false
// after Isha.
func (pt PrayerTimes) NextPrayer(at time.Time) (Prayer, bool) {
	for _, p := range DailyPrayers {
		if t := pt.TimeFor(p); t.Valid && t.At.After(at) {
			return p, true
		}
	}
	return 0, false
}

// SolarDeclination is the sun's declination on the resolved date, in degrees.
func (pt PrayerTimes) SolarDeclination() float64 {
	d := pt.ResolvedDate
	st := astronomy.NewSolarTime(d.Year, int(d.Month), d.Day, pt.ResolvedCoordinates.latitude, pt.ResolvedCoordinates.longitude)
	return math.Round(st.Declination()*1e4) / 1e4
}
