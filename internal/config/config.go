// Package config provides persistent configuration for the prayer-times CLI.
//
// Configuration is stored as JSON at ~/.config/prayer-times/config.json
// (XDG-compliant). The merge priority is: CLI flags > environment > config
// file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/smokyabdulrahman/prayercalc/pkg/prayertimes"
)

const (
	configDirName  = "prayer-times"
	configFileName = "config.json"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"latitude", "longitude", "timezone",
	"method", "madhab", "twilight",
	"high_latitude_rule", "polar_resolution",
	"fajr_angle", "isha_angle", "isha_interval",
	"adjustments",
	"time_format",
	"prayers",
	"cache_dir",
	"listen",
}

// Config holds all user-configurable settings. Empty strings and nil pointers
// mean "not set"; pointers distinguish an explicit 0 from unset.
type Config struct {
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Timezone         string   `json:"timezone,omitempty"` // IANA name, "local" or "+03:00"
	Method           string   `json:"method,omitempty"`
	Madhab           string   `json:"madhab,omitempty"`
	Twilight         string   `json:"twilight,omitempty"`
	HighLatitudeRule string   `json:"high_latitude_rule,omitempty"`
	PolarResolution  string   `json:"polar_resolution,omitempty"`
	FajrAngle        *float64 `json:"fajr_angle,omitempty"`
	IshaAngle        *float64 `json:"isha_angle,omitempty"`
	IshaInterval     *int     `json:"isha_interval,omitempty"`
	Adjustments      string   `json:"adjustments,omitempty"` // "fajr=2,isha=-1"
	TimeFormat       string   `json:"time_format,omitempty"` // "12h" or "24h"
	Prayers          string   `json:"prayers,omitempty"`     // comma-separated list
	CacheDir         string   `json:"cache_dir,omitempty"`
	Listen           string   `json:"listen,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	return Config{
		Method:     prayertimes.MuslimWorldLeague.String(),
		Madhab:     prayertimes.Shafi.String(),
		TimeFormat: "24h",
		Listen:     ":8080",
	}
}

// WithDefaults fills every unset field from Defaults.
func (c Config) WithDefaults() Config {
	d := Defaults()
	if c.Method == "" {
		c.Method = d.Method
	}
	if c.Madhab == "" {
		c.Madhab = d.Madhab
	}
	if c.TimeFormat == "" {
		c.TimeFormat = d.TimeFormat
	}
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	return c
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk. A missing file yields an empty Config.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set parses value for key and stores it. Enum values are stored in their
// canonical spelling.
func (c *Config) Set(key, value string) error {
	switch key {
	case "latitude":
		v, err := parseRange(key, value, -90, 90)
		if err != nil {
			return err
		}
		c.Latitude = &v
	case "longitude":
		v, err := parseRange(key, value, -180, 180)
		if err != nil {
			return err
		}
		c.Longitude = &v
	case "timezone":
		if _, err := ParseTimezone(value); err != nil {
			return err
		}
		c.Timezone = value
	case "method":
		m, err := prayertimes.ParseMethod(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: %w", value, err)
		}
		c.Method = m.String()
	case "madhab", "school":
		m, err := prayertimes.ParseMadhab(value)
		if err != nil {
			return fmt.Errorf("invalid madhab %q: %w", value, err)
		}
		c.Madhab = m.String()
	case "twilight":
		tw, err := prayertimes.ParseTwilight(value)
		if err != nil {
			return fmt.Errorf("invalid twilight %q: %w", value, err)
		}
		c.Twilight = tw.String()
	case "high_latitude_rule":
		r, err := prayertimes.ParseHighLatitudeRule(value)
		if err != nil {
			return fmt.Errorf("invalid high_latitude_rule %q: %w", value, err)
		}
		c.HighLatitudeRule = r.String()
	case "polar_resolution":
		r, err := prayertimes.ParsePolarCircleResolution(value)
		if err != nil {
			return fmt.Errorf("invalid polar_resolution %q: %w", value, err)
		}
		c.PolarResolution = r.String()
	case "fajr_angle":
		v, err := parseRange(key, value, 0, 89.99)
		if err != nil {
			return err
		}
		c.FajrAngle = &v
	case "isha_angle":
		v, err := parseRange(key, value, 0, 89.99)
		if err != nil {
			return err
		}
		c.IshaAngle = &v
	case "isha_interval":
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid isha_interval %q: must be a non-negative integer", value)
		}
		c.IshaInterval = &v
	case "adjustments":
		if _, err := ParseAdjustments(value); err != nil {
			return err
		}
		c.Adjustments = value
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "prayers":
		if _, err := ParsePrayers(value); err != nil {
			return err
		}
		c.Prayers = value
	case "cache_dir":
		c.CacheDir = value
	case "listen":
		c.Listen = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}
	return nil
}

// Get returns the string value of a config key, or "" when it is unset.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "latitude":
		return formatFloat(c.Latitude), nil
	case "longitude":
		return formatFloat(c.Longitude), nil
	case "timezone":
		return c.Timezone, nil
	case "method":
		return c.Method, nil
	case "madhab":
		return c.Madhab, nil
	case "twilight":
		return c.Twilight, nil
	case "high_latitude_rule":
		return c.HighLatitudeRule, nil
	case "polar_resolution":
		return c.PolarResolution, nil
	case "fajr_angle":
		return formatFloat(c.FajrAngle), nil
	case "isha_angle":
		return formatFloat(c.IshaAngle), nil
	case "isha_interval":
		if c.IshaInterval == nil {
			return "", nil
		}
		return strconv.Itoa(*c.IshaInterval), nil
	case "adjustments":
		return c.Adjustments, nil
	case "time_format":
		return c.TimeFormat, nil
	case "prayers":
		return c.Prayers, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "listen":
		return c.Listen, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

func parseRange(key, value string, lo, hi float64) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) {
		return 0, fmt.Errorf("invalid %s %q: must be a number", key, value)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("invalid %s %q: must be between %g and %g", key, value, lo, hi)
	}
	return v, nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
