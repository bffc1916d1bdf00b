package prayertimes

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinates is matched by every coordinate validation error.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// InvalidCoordinatesError reports a latitude or longitude outside its range.
type InvalidCoordinatesError struct {
	Latitude  float64
	Longitude float64
	Reason    string
}

func (e *InvalidCoordinatesError) Error() string {
	return fmt.Sprintf("invalid coordinates (%v, %v): %s", e.Latitude, e.Longitude, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidCoordinates) report true.
func (e *InvalidCoordinatesError) Is(target error) bool {
	return target == ErrInvalidCoordinates
}

// Coordinates is a validated latitude/longitude pair in degrees.
// North and east are positive.
type Coordinates struct {
	latitude  float64
	longitude float64
}

// NewCoordinates validates latitude in [-90, 90] and longitude in [-180, 180].
func NewCoordinates(latitude, longitude float64) (Coordinates, error) {
	switch {
	case math.IsNaN(latitude) || math.IsNaN(longitude):
		return Coordinates{}, &InvalidCoordinatesError{latitude, longitude, "not a number"}
	case latitude < -90 || latitude > 90:
		return Coordinates{}, &InvalidCoordinatesError{latitude, longitude, "latitude must be between -90 and 90"}
	case longitude < -180 || longitude > 180:
		return Coordinates{}, &InvalidCoordinatesError{latitude, longitude, "longitude must be between -180 and 180"}
	}
	return Coordinates{latitude: latitude, longitude: longitude}, nil
}

// MustCoordinates is like NewCoordinates but panics on invalid input.
// It is meant for package-level reference locations.
func MustCoordinates(latitude, longitude float64) Coordinates {
	c, err := NewCoordinates(latitude, longitude)
	if err != nil {
		panic(err)
	}
	return c
}

// Latitude in degrees.
func (c Coordinates) Latitude() float64 { return c.latitude }

// Longitude in degrees.
func (c Coordinates) Longitude() float64 { return c.longitude }

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.latitude, c.longitude)
}

// withLatitude is used by the polar resolvers; callers keep lat within range.
func (c Coordinates) withLatitude(lat float64) Coordinates {
	return Coordinates{latitude: lat, longitude: c.longitude}
}
