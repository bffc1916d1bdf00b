package prayertimes

import (
	"fmt"
	"strings"

	"github.com/smokyabdulrahman/prayercalc/internal/astronomy"
)

// Twilight selects which evening twilight bounds Isha where a method uses
// seasonal twilight tables (the Moonsighting Committee).
type Twilight int

const (
	// Red twilight (shafaq ahmer).
	Red Twilight = iota
	// White twilight (shafaq abyad), which ends later.
	White
)

func (t Twilight) String() string {
	switch t {
	case Red:
		return "red"
	case White:
		return "white"
	default:
		return fmt.Sprintf("Twilight(%d)", int(t))
	}
}

func (t Twilight) valid() bool {
	return t == Red || t == White
}

func (t Twilight) shafaq() astronomy.Shafaq {
	if t == White {
		return astronomy.ShafaqAbyad
	}
	return astronomy.ShafaqAhmer
}

// ParseTwilight accepts "red" or "white".
func ParseTwilight(s string) (Twilight, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return Red, nil
	case "white":
		return White, nil
	}
	return 0, fmt.Errorf("unknown twilight %q: must be red or white", s)
}
