package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayercalc/internal/config"
	"github.com/smokyabdulrahman/prayercalc/internal/prayer"
)

var (
	flagFormat  string
	flagPrayers string
)

// FormatHelp documents the --format flag shared with the status-bar binary.
const FormatHelp = "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, short-name-and-time, short-name-and-remaining, full, or a custom Go template (e.g. '{{.Name}} in {{.Remaining}}'). Template fields: .Name, .ShortName, .Time, .Remaining, .Hours, .Minutes, .Marker, .Resolution"

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown.\nThis is the same line tmux-prayer-times prints.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, FormatHelp)
	cmd.Flags().StringVar(&flagPrayers, "prayers", "", "Comma-separated list of prayers to track (overrides config)")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	// Priority: --prayers flag > config > defaults.
	if cmd.Flags().Changed("prayers") && flagPrayers != "" {
		if err := cfg.Set("prayers", flagPrayers); err != nil {
			return err
		}
	}

	line, err := StatusLine(cmd.Context(), cfg, nowFunc(), flagFormat, logger)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), line)
	return nil
}

// StatusLine formats the first prayer after now according to mode. When every
// tracked prayer of the day has passed it looks at tomorrow's schedule.
func StatusLine(ctx context.Context, cfg *config.Config, now time.Time, mode string, log zerolog.Logger) (string, error) {
	selected, err := cfg.PrayerList()
	if err != nil {
		return "", err
	}
	s, err := newSession(ctx, cfg, log)
	if err != nil {
		return "", err
	}

	// Re-anchor "now" to the display timezone so the civil date is right
	// when it differs from the system zone.
	now = now.In(s.loc)

	prayers := prayer.FromSchedule(s.compute(now), selected, s.loc)
	next := prayer.NextPrayer(prayers, now)
	if next == nil {
		tomorrow := prayer.FromSchedule(s.compute(now.AddDate(0, 0, 1)), selected, s.loc)
		next = prayer.NextPrayer(tomorrow, now)
	}

	if next == nil {
		// Nothing tracked occurs today or tomorrow, e.g. Isha in a polar
		// summer without a resolution configured.
		if len(prayers) > 0 {
			last := prayers[len(prayers)-1]
			return last.Name + " " + prayer.NoTime, nil
		}
		return "", errors.New("could not determine next prayer")
	}

	return prayer.FormatOutput(*next, now, mode, cfg.TimeLayout()), nil
}
