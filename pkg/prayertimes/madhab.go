package prayertimes

import (
	"fmt"
	"strings"
)

// Madhab selects the Asr shadow rule.
type Madhab int

const (
	// Shafi: Asr when an object's shadow equals its height plus its noon shadow.
	Shafi Madhab = iota
	// Hanafi: Asr when the shadow is twice the height plus the noon shadow.
	Hanafi
)

// ShadowLength is the Asr shadow multiplier.
func (m Madhab) ShadowLength() float64 {
	if m == Hanafi {
		return 2
	}
	return 1
}

func (m Madhab) String() string {
	switch m {
	case Shafi:
		return "shafi"
	case Hanafi:
		return "hanafi"
	default:
		return fmt.Sprintf("Madhab(%d)", int(m))
	}
}

func (m Madhab) valid() bool {
	return m == Shafi || m == Hanafi
}

// ParseMadhab accepts "shafi" or "hanafi" in any case.
func ParseMadhab(s string) (Madhab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shafi", "standard":
		return Shafi, nil
	case "hanafi":
		return Hanafi, nil
	}
	return 0, fmt.Errorf("unknown madhab %q: must be shafi or hanafi", s)
}
