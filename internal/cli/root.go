package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/prayercalc/internal/config"
)

// Global flags shared across all subcommands.
var (
	FlagLatitude         float64
	FlagLongitude        float64
	FlagTimezone         string
	FlagMethod           string
	FlagMadhab           string
	FlagTwilight         string
	FlagHighLatitudeRule string
	FlagPolarResolution  string
	FlagFajrAngle        float64
	FlagIshaAngle        float64
	FlagIshaInterval     int
	FlagAdjustments      string
	FlagDate             string
	FlagJSON             bool
	FlagCacheDir         string
	FlagTimeFormat       string
	FlagVerbose          bool
	FlagEnvFile          string
)

// flagKeys maps persistent flags onto the config keys they override.
var flagKeys = []struct{ flag, key string }{
	{"latitude", "latitude"},
	{"longitude", "longitude"},
	{"timezone", "timezone"},
	{"method", "method"},
	{"madhab", "madhab"},
	{"twilight", "twilight"},
	{"high-latitude-rule", "high_latitude_rule"},
	{"polar-resolution", "polar_resolution"},
	{"fajr-angle", "fajr_angle"},
	{"isha-angle", "isha_angle"},
	{"isha-interval", "isha_interval"},
	{"adjustments", "adjustments"},
	{"time-format", "time_format"},
	{"cache-dir", "cache_dir"},
}

// loadedConfig holds the file and environment config loaded during
// PersistentPreRunE. Available to all subcommand handlers.
var loadedConfig *config.Config

// logger is configured from --verbose before any subcommand runs.
var logger = zerolog.Nop()

// nowFunc is replaced in tests.
var nowFunc = time.Now

// NewRootCmd creates the root command for the prayer-times CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "prayer-times",
		Short:   "Islamic prayer times CLI",
		Long:    "Computes Islamic prayer times locally from the sun's position.\nNo network access is needed once a location is configured.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(cmd, FlagVerbose)

			envFile := FlagEnvFile
			if envFile == "" {
				envFile = ".env"
			}
			if err := config.LoadDotEnv(envFile, flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "env-file")); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.ApplyEnv(); err != nil {
				return err
			}
			loadedConfig = cfg
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.StringVar(&FlagTimezone, "timezone", "", "Display timezone: IANA name, local, UTC or an offset like +03:00")
	pf.StringVar(&FlagMethod, "method", "", "Calculation method (see 'methods')")
	pf.StringVar(&FlagMadhab, "madhab", "", "Asr madhab: shafi or hanafi")
	pf.StringVar(&FlagTwilight, "twilight", "", "Isha twilight for the Moonsighting Committee method: red or white")
	pf.StringVar(&FlagHighLatitudeRule, "high-latitude-rule", "", "twilight_angle, middle_of_the_night or seventh_of_the_night")
	pf.StringVar(&FlagPolarResolution, "polar-resolution", "", "unresolved, nearest_place, nearest_day or umm_al_qura")
	pf.Float64Var(&FlagFajrAngle, "fajr-angle", 0, "Override the method's Fajr angle")
	pf.Float64Var(&FlagIshaAngle, "isha-angle", 0, "Override the method's Isha angle")
	pf.IntVar(&FlagIshaInterval, "isha-interval", 0, "Minutes after Maghrib for Isha; 0 uses the Isha angle")
	pf.StringVar(&FlagAdjustments, "adjustments", "", "Minute offsets, e.g. fajr=2,isha=-1")
	pf.StringVar(&FlagDate, "date", "", "Date to compute as YYYY-MM-DD (default: today)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/prayer-times/)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.BoolVarP(&FlagVerbose, "verbose", "v", false, "Log debug details to stderr")
	pf.StringVar(&FlagEnvFile, "env-file", "", "Load PRAYER_TIMES_* variables from this file (default: .env if present)")

	// Register subcommands.
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newQiblaCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

// PrintVersion prints the version string in the expected format.
func PrintVersion(version string) string {
	return fmt.Sprintf("prayer-times %s\n", version)
}

func newLogger(cmd *cobra.Command, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen, NoColor: os.Getenv("NO_COLOR") != ""}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > environment > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if loadedConfig != nil {
		cfg = *loadedConfig
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	for _, fk := range flagKeys {
		if !flagWasSet(flags, root, fk.flag) {
			continue
		}
		f := flags.Lookup(fk.flag)
		if f == nil {
			f = root.Lookup(fk.flag)
		}
		if err := cfg.Set(fk.key, f.Value.String()); err != nil {
			return nil, fmt.Errorf("--%s: %w", fk.flag, err)
		}
	}

	cfg = cfg.WithDefaults()
	return &cfg, nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
