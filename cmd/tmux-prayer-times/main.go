package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/prayercalc/internal/cli"
	"github.com/smokyabdulrahman/prayercalc/internal/config"
	"github.com/smokyabdulrahman/prayercalc/internal/prayer"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

// now is replaced in tests.
var now = time.Now

// flagKeys maps command-line flags onto config keys. Flags override the
// shared prayer-times config file and PRAYER_TIMES_* environment.
var flagKeys = map[string]string{
	"latitude":           "latitude",
	"longitude":          "longitude",
	"timezone":           "timezone",
	"method":             "method",
	"madhab":             "madhab",
	"twilight":           "twilight",
	"high-latitude-rule": "high_latitude_rule",
	"polar-resolution":   "polar_resolution",
	"fajr-angle":         "fajr_angle",
	"isha-angle":         "isha_angle",
	"isha-interval":      "isha_interval",
	"adjustments":        "adjustments",
	"time-format":        "time_format",
	"prayers":            "prayers",
	"cache-dir":          "cache_dir",
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("tmux-prayer-times", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	// Location flags
	fs.Float64("latitude", 0, "Latitude for prayer time calculation")
	fs.Float64("longitude", 0, "Longitude for prayer time calculation")
	fs.String("timezone", "", "Display timezone: IANA name, local, UTC or an offset like +03:00")

	// Calculation flags
	fs.String("method", "", "Calculation method key (see --list-methods)")
	fs.String("madhab", "", "Asr madhab: shafi or hanafi")
	fs.String("twilight", "", "Isha twilight for the Moonsighting Committee method: red or white")
	fs.String("high-latitude-rule", "", "twilight_angle, middle_of_the_night or seventh_of_the_night")
	fs.String("polar-resolution", "", "unresolved, nearest_place, nearest_day or umm_al_qura")
	fs.Float64("fajr-angle", 0, "Override the method's Fajr angle")
	fs.Float64("isha-angle", 0, "Override the method's Isha angle")
	fs.Int("isha-interval", 0, "Minutes after Maghrib for Isha; 0 uses the Isha angle")
	fs.String("adjustments", "", "Minute offsets, e.g. fajr=2,isha=-1")

	// Display flags
	format := fs.String("format", prayer.FormatNameAndTime, cli.FormatHelp)
	fs.String("time-format", "24h", "Time format: 12h or 24h")
	fs.String("prayers", "", "Comma-separated list of prayers to track (default: Fajr,Sunrise,Dhuhr,Asr,Maghrib,Isha)")

	// Cache flags
	fs.String("cache-dir", "", "Cache directory for the detected location (default: ~/.cache/prayer-times/)")

	// Info flags
	showVersion := fs.Bool("version", false, "Print version and exit")
	listMethods := fs.Bool("list-methods", false, "Print supported calculation methods and exit")
	verbose := fs.BoolP("verbose", "v", false, "Log debug details to stderr")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "tmux-prayer-times %s\n", version)
		return 0
	}

	if *listMethods {
		cli.PrintMethods(stdout)
		return 0
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).Level(level).With().Timestamp().Logger()

	cfg, err := loadConfig(fs)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	line, err := cli.StatusLine(context.Background(), cfg, now(), *format, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	fmt.Fprint(stdout, line)
	return 0
}

// loadConfig merges flags > environment > config file > defaults.
func loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	var setErr error
	fs.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || setErr != nil {
			return
		}
		if err := cfg.Set(key, f.Value.String()); err != nil {
			setErr = fmt.Errorf("--%s: %w", f.Name, err)
		}
	})
	if setErr != nil {
		return nil, setErr
	}

	merged := cfg.WithDefaults()
	return &merged, nil
}
