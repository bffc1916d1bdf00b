package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. PRAYER_TIMES_METHOD.
const EnvPrefix = "PRAYER_TIMES"

// Env mirrors the config keys as PRAYER_TIMES_* environment variables.
type Env struct {
	Latitude         string `envconfig:"LATITUDE"`
	Longitude        string `envconfig:"LONGITUDE"`
	Timezone         string `envconfig:"TIMEZONE"`
	Method           string `envconfig:"METHOD"`
	Madhab           string `envconfig:"MADHAB"`
	Twilight         string `envconfig:"TWILIGHT"`
	HighLatitudeRule string `envconfig:"HIGH_LATITUDE_RULE"`
	PolarResolution  string `envconfig:"POLAR_RESOLUTION"`
	FajrAngle        string `envconfig:"FAJR_ANGLE"`
	IshaAngle        string `envconfig:"ISHA_ANGLE"`
	IshaInterval     string `envconfig:"ISHA_INTERVAL"`
	Adjustments      string `envconfig:"ADJUSTMENTS"`
	TimeFormat       string `envconfig:"TIME_FORMAT"`
	Prayers          string `envconfig:"PRAYERS"`
	CacheDir         string `envconfig:"CACHE_DIR"`
	Listen           string `envconfig:"LISTEN"`
}

func (e Env) values() map[string]string {
	return map[string]string{
		"latitude":           e.Latitude,
		"longitude":          e.Longitude,
		"timezone":           e.Timezone,
		"method":             e.Method,
		"madhab":             e.Madhab,
		"twilight":           e.Twilight,
		"high_latitude_rule": e.HighLatitudeRule,
		"polar_resolution":   e.PolarResolution,
		"fajr_angle":         e.FajrAngle,
		"isha_angle":         e.IshaAngle,
		"isha_interval":      e.IshaInterval,
		"adjustments":        e.Adjustments,
		"time_format":        e.TimeFormat,
		"prayers":            e.Prayers,
		"cache_dir":          e.CacheDir,
		"listen":             e.Listen,
	}
}

// ApplyEnv overlays PRAYER_TIMES_* variables onto c. Values are validated the
// same way `config set` validates them.
func (c *Config) ApplyEnv() error {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	values := env.values()
	for _, key := range ValidKeys {
		value := values[key]
		if value == "" {
			continue
		}
		if err := c.Set(key, value); err != nil {
			return fmt.Errorf("%s_%s: %w", EnvPrefix, strings.ToUpper(key), err)
		}
	}
	return nil
}

// LoadDotEnv loads variables from path into the process environment without
// overriding ones already set. A missing file is not an error unless
// required is true.
func LoadDotEnv(path string, required bool) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !required && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}
