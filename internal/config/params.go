package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // IANA names must resolve without a system zoneinfo

	"github.com/smokyabdulrahman/prayercalc/pkg/prayertimes"
)

// ErrNoCoordinates is returned by Coordinates when latitude or longitude is unset.
var ErrNoCoordinates = errors.New("latitude and longitude are not configured")

// Parameters builds engine parameters from the configured method and overrides.
func (c *Config) Parameters() (prayertimes.Parameters, error) {
	cfg := c.WithDefaults()

	method, err := prayertimes.ParseMethod(cfg.Method)
	if err != nil {
		return prayertimes.Parameters{}, err
	}
	madhab, err := prayertimes.ParseMadhab(cfg.Madhab)
	if err != nil {
		return prayertimes.Parameters{}, err
	}

	var opts []prayertimes.Option
	if cfg.Twilight != "" {
		tw, err := prayertimes.ParseTwilight(cfg.Twilight)
		if err != nil {
			return prayertimes.Parameters{}, err
		}
		opts = append(opts, prayertimes.WithTwilight(tw))
	}
	if cfg.HighLatitudeRule != "" {
		r, err := prayertimes.ParseHighLatitudeRule(cfg.HighLatitudeRule)
		if err != nil {
			return prayertimes.Parameters{}, err
		}
		opts = append(opts, prayertimes.WithHighLatitudeRule(r))
	}
	if cfg.PolarResolution != "" {
		r, err := prayertimes.ParsePolarCircleResolution(cfg.PolarResolution)
		if err != nil {
			return prayertimes.Parameters{}, err
		}
		opts = append(opts, prayertimes.WithPolarCircleResolution(r))
	}
	if cfg.FajrAngle != nil {
		opts = append(opts, prayertimes.WithFajrAngle(*cfg.FajrAngle))
	}
	if cfg.IshaAngle != nil {
		opts = append(opts, prayertimes.WithIshaAngle(*cfg.IshaAngle))
	}
	if cfg.IshaInterval != nil {
		opts = append(opts, prayertimes.WithIshaInterval(*cfg.IshaInterval))
	}
	if cfg.Adjustments != "" {
		adj, err := ParseAdjustments(cfg.Adjustments)
		if err != nil {
			return prayertimes.Parameters{}, err
		}
		opts = append(opts, prayertimes.WithAdjustments(adj))
	}

	return prayertimes.NewParameters(method, madhab, opts...)
}

// Coordinates returns the configured position, or ErrNoCoordinates.
func (c *Config) Coordinates() (prayertimes.Coordinates, error) {
	if c.Latitude == nil || c.Longitude == nil {
		return prayertimes.Coordinates{}, ErrNoCoordinates
	}
	return prayertimes.NewCoordinates(*c.Latitude, *c.Longitude)
}

// Location resolves the configured timezone. Unset means the system zone.
func (c *Config) Location() (*time.Location, error) {
	return ParseTimezone(c.Timezone)
}

// TimeLayout returns the Go layout for the configured time format.
func (c *Config) TimeLayout() string {
	if c.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// PrayerList returns the configured prayers, or the six daily ones.
func (c *Config) PrayerList() ([]prayertimes.Prayer, error) {
	if c.Prayers == "" {
		return append([]prayertimes.Prayer(nil), prayertimes.DailyPrayers...), nil
	}
	return ParsePrayers(c.Prayers)
}

// ParseTimezone accepts an IANA name, "local", "UTC" or a fixed offset such
// as "+03:00" or "-0430".
func ParseTimezone(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "local":
		return time.Local, nil
	case "utc", "z":
		return time.UTC, nil
	}
	if s[0] == '+' || s[0] == '-' {
		return parseOffset(s)
	}
	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s, err)
	}
	return loc, nil
}

func parseOffset(s string) (*time.Location, error) {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	body := strings.ReplaceAll(s[1:], ":", "")
	if len(body) == 2 {
		body += "00"
	}
	if len(body) != 4 {
		return nil, fmt.Errorf("invalid timezone offset %q", s)
	}
	h, errH := strconv.Atoi(body[:2])
	m, errM := strconv.Atoi(body[2:])
	if errH != nil || errM != nil || h > 14 || m > 59 {
		return nil, fmt.Errorf("invalid timezone offset %q", s)
	}
	offset := sign * (h*3600 + m*60)
	return time.FixedZone("UTC"+s, offset), nil
}

// ParseAdjustments parses "fajr=2,isha=-1" into minute offsets.
func ParseAdjustments(s string) (prayertimes.Adjustments, error) {
	var adj prayertimes.Adjustments
	if strings.TrimSpace(s) == "" {
		return adj, nil
	}
	for _, part := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return adj, fmt.Errorf("invalid adjustment %q: want name=minutes", part)
		}
		p, err := prayertimes.ParsePrayer(strings.TrimSpace(name))
		if err != nil || p > prayertimes.Isha {
			return adj, fmt.Errorf("invalid adjustment %q: %q cannot be adjusted", part, name)
		}
		minutes, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return adj, fmt.Errorf("invalid adjustment %q: minutes must be an integer", part)
		}
		adj = adj.With(p, minutes)
	}
	return adj, nil
}

// ParsePrayers parses a comma-separated list of prayer names.
func ParsePrayers(s string) ([]prayertimes.Prayer, error) {
	var out []prayertimes.Prayer
	for _, name := range strings.Split(s, ",") {
		p, err := prayertimes.ParsePrayer(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("invalid prayer name %q in prayers list", strings.TrimSpace(name))
		}
		out = append(out, p)
	}
	return out, nil
}
