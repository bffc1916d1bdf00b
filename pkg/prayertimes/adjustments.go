package prayertimes

// Adjustments are signed minute offsets per prayer.
type Adjustments struct {
	Fajr    int `json:"fajr,omitempty"`
	Sunrise int `json:"sunrise,omitempty"`
	Dhuhr   int `json:"dhuhr,omitempty"`
	Asr     int `json:"asr,omitempty"`
	Maghrib int `json:"maghrib,omitempty"`
	Isha    int `json:"isha,omitempty"`
}

// For returns the offset for p. The night markers are never adjusted.
func (a Adjustments) For(p Prayer) int {
	switch p {
	case Fajr:
		return a.Fajr
	case Sunrise:
		return a.Sunrise
	case Dhuhr:
		return a.Dhuhr
	case Asr:
		return a.Asr
	case Maghrib:
		return a.Maghrib
	case Isha:
		return a.Isha
	}
	return 0
}

// With returns a copy with p's offset set to minutes.
func (a Adjustments) With(p Prayer, minutes int) Adjustments {
	switch p {
	case Fajr:
		a.Fajr = minutes
	case Sunrise:
		a.Sunrise = minutes
	case Dhuhr:
		a.Dhuhr = minutes
	case Asr:
		a.Asr = minutes
	case Maghrib:
		a.Maghrib = minutes
	case Isha:
		a.Isha = minutes
	}
	return a
}

// IsZero reports whether no prayer is adjusted.
func (a Adjustments) IsZero() bool {
	return a == Adjustments{}
}
