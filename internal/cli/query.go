package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayercalc/internal/display"
	"github.com/smokyabdulrahman/prayercalc/internal/prayer"
	"github.com/smokyabdulrahman/prayercalc/pkg/prayertimes"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long:  "Query a specific prayer time for today, or across multiple days with --days.\n\nValid prayer names: Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha, Midnight, LastThird",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	p, err := prayertimes.ParsePrayer(args[0])
	if err != nil {
		return err
	}

	// Determine number of days.
	days := 1
	switch flagQueryDays {
	case "":
	case "week":
		days = 7
	case "month":
		days = 30
	default:
		if days, err = parseDays(flagQueryDays); err != nil {
			return fmt.Errorf("invalid --days value %q: must be a positive integer, 'week', or 'month'", flagQueryDays)
		}
	}

	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newSession(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	now := nowFunc().In(s.loc)
	start, err := s.today(now)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	selected := []prayertimes.Prayer{p}

	if days == 1 {
		pt := s.compute(start)
		entry := prayer.FromSchedule(pt, selected, s.loc)[0]
		if FlagJSON {
			single := queryJSONSingle{
				Prayer:     jsonKey(entry.Name),
				Resolution: entry.Resolution.String(),
				Date:       pt.Date.String(),
			}
			if entry.Valid {
				single.Time = entry.Time.Format(cfg.TimeLayout())
			}
			return writeJSON(out, single)
		}
		fmt.Fprintf(out, "%s %s\n", entry.Name, displayTime(entry, cfg.TimeLayout()))
		return nil
	}

	schedules, err := s.computeDays(cmd.Context(), start, days)
	if err != nil {
		return err
	}
	if FlagJSON {
		return printQueryJSON(out, s, schedules, p)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Boldf("%s Times (%d Days)", p, days))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.label)
	fmt.Fprintln(out)
	fmt.Fprint(out, scheduleTable(s, schedules, selected, now).Render())
	fmt.Fprintln(out)
	return nil
}

type queryJSONSingle struct {
	Prayer     string `json:"prayer"`
	Time       string `json:"time,omitempty"`
	Resolution string `json:"resolution"`
	Date       string `json:"date"`
}

type queryJSONMulti struct {
	Location todayJSONLocation `json:"location"`
	Prayer   string            `json:"prayer"`
	Days     []queryJSONDay    `json:"days"`
}

type queryJSONDay struct {
	Date       string `json:"date"`
	Time       string `json:"time,omitempty"`
	Resolution string `json:"resolution"`
}

func printQueryJSON(w io.Writer, s *session, schedules []prayertimes.PrayerTimes, p prayertimes.Prayer) error {
	out := queryJSONMulti{
		Location: locationJSON(s),
		Prayer:   jsonKey(p.String()),
		Days:     make([]queryJSONDay, 0, len(schedules)),
	}
	layout := s.cfg.TimeLayout()
	for _, pt := range schedules {
		entry := prayer.FromSchedule(pt, []prayertimes.Prayer{p}, s.loc)[0]
		day := queryJSONDay{Date: pt.Date.String(), Resolution: entry.Resolution.String()}
		if entry.Valid {
			day.Time = entry.Time.Format(layout)
		}
		out.Days = append(out.Days, day)
	}
	return writeJSON(w, out)
}
