package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayercalc/internal/config"
	"github.com/smokyabdulrahman/prayercalc/pkg/prayertimes"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the current configuration.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  prayer-times config set latitude 36.8065\n  prayer-times config set longitude 10.1815\n  prayer-times config set method tunisia\n  prayer-times config set polar_resolution nearest_day\n  prayer-times config set adjustments fajr=2,isha=-1\n  prayer-times config set time_format 12h\n  prayer-times config set prayers Fajr,Dhuhr,Asr,Maghrib,Isha",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		RunE:  runConfigPath,
	})

	return cmd
}

// runConfigShow displays the configuration file's contents.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		display := val
		if display == "" {
			display = "(not set)"
		}
		// Add a descriptive label for the method.
		if key == "method" && val != "" {
			display = formatMethodValue(val)
		}
		fmt.Fprintf(out, "  %-20s %s\n", key, display)
	}
	return nil
}

// runConfigSet sets a config key to the given value.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	stored, _ := cfg.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, stored)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// formatMethodValue adds the method description to its key.
func formatMethodValue(val string) string {
	m, err := prayertimes.ParseMethod(val)
	if err != nil {
		return val
	}
	return fmt.Sprintf("%s (%s)", val, m.Description())
}

// formatIsha describes how a preset computes Isha.
func formatIsha(p prayertimes.Preset) string {
	if p.IshaInterval > 0 {
		return fmt.Sprintf("%d min", p.IshaInterval)
	}
	return formatAngle(p.IshaAngle)
}

func formatAngle(deg float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", deg), ".0") + "°"
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the table of supported calculation methods with their twilight angles.",
		RunE: func(cmd *cobra.Command, args []string) error {
			PrintMethods(cmd.OutOrStdout())
			return nil
		},
	}
}

// PrintMethods writes the table of calculation method presets.
func PrintMethods(w io.Writer) {
	fmt.Fprintln(w, "Supported calculation methods:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-14s %-6s %-7s %s\n", "Key", "Fajr", "Isha", "Name")
	fmt.Fprintf(w, "  %-14s %-6s %-7s %s\n", "───", "────", "────", "────")
	for _, m := range prayertimes.Methods() {
		p := m.Preset()
		fmt.Fprintf(w, "  %-14s %-6s %-7s %s\n", m, formatAngle(p.FajrAngle), formatIsha(p), m.Description())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use --method <key> to select a calculation method.")
	fmt.Fprintf(w, "If omitted, %s is used.\n", config.Defaults().Method)
}

// compassPoints are the 16 wind-rose directions, clockwise from north.
var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// compassPoint names the 16-point direction closest to bearing.
func compassPoint(bearing float64) string {
	idx := int(math.Round(bearing/22.5)) % len(compassPoints)
	return compassPoints[idx]
}

type qiblaJSON struct {
	Location todayJSONLocation `json:"location"`
	Bearing  float64           `json:"bearing"`
	Compass  string            `json:"compass"`
}

func newQiblaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "qibla",
		Short: "Show the Qibla direction",
		Long:  "Print the great-circle bearing from your location to the Kaaba, in degrees clockwise from true north.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig(cmd)
			if err != nil {
				return err
			}
			s, err := newSession(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			bearing := prayertimes.Qibla(s.coords)
			out := cmd.OutOrStdout()
			if FlagJSON {
				return writeJSON(out, qiblaJSON{
					Location: locationJSON(s),
					Bearing:  math.Round(bearing*100) / 100,
					Compass:  compassPoint(bearing),
				})
			}
			fmt.Fprintf(out, "Qibla from %s: %.2f° (%s)\n", s.label, bearing, compassPoint(bearing))
			return nil
		},
	}
}
