package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayercalc/internal/display"
	"github.com/smokyabdulrahman/prayercalc/internal/prayer"
	"github.com/smokyabdulrahman/prayercalc/pkg/prayertimes"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'. Display a grid of prayer times for 7 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'. Display a grid of prayer times for 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// maxDays bounds list and query so a typo cannot compute years of schedules.
const maxDays = 366

// parseDays parses a positive day count.
func parseDays(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxDays {
		return 0, fmt.Errorf("invalid number of days: %q (must be between 1 and %d)", s, maxDays)
	}
	return n, nil
}

// runList is the handler for the list subcommand.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := parseDays(args[0])
		if err != nil {
			return err
		}
		days = n
	}

	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	selected, err := cfg.PrayerList()
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

	schedules, err := s.computeDays(cmd.Context(), start, days)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printListJSON(out, s, schedules, selected)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Boldf("Prayer Times (%d Days)", days))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", s.label)
	fmt.Fprintln(out)

	fmt.Fprint(out, scheduleTable(s, schedules, selected, now).Render())
	fmt.Fprintln(out)
	return nil
}

// scheduleTable builds one row per day with a column per selected prayer.
// Today's row is highlighted and a legend explains any markers.
func scheduleTable(s *session, schedules []prayertimes.PrayerTimes, selected []prayertimes.Prayer, now time.Time) *display.Table {
	headers := []string{"Date"}
	for _, p := range selected {
		headers = append(headers, p.String())
	}
	tbl := display.NewTable(headers)

	today := prayertimes.NewCivilDate(now).String()
	layout := s.cfg.TimeLayout()
	var all []prayer.Prayer
	for i, pt := range schedules {
		prayers := prayer.FromSchedule(pt, selected, s.loc)
		all = append(all, prayers...)

		row := []string{pt.Date.Midnight().Format("Mon 02 Jan")}
		for _, p := range prayers {
			row = append(row, displayTime(p, layout))
		}
		tbl.AddRow(row)

		if pt.Date.String() == today {
			tbl.SetHighlightRow(i)
		}
	}
	tbl.SetFooter(prayer.Legend(all))
	return tbl
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location todayJSONLocation `json:"location"`
	Method   string            `json:"method"`
	Days     []listJSONDay     `json:"days"`
}

type listJSONDay struct {
	Date    string                `json:"date"`
	Timings map[string]timingJSON `json:"timings"`
}

func printListJSON(w io.Writer, s *session, schedules []prayertimes.PrayerTimes, selected []prayertimes.Prayer) error {
	out := listJSONOutput{
		Location: locationJSON(s),
		Method:   s.params.Method.String(),
		Days:     make([]listJSONDay, 0, len(schedules)),
	}
	layout := s.cfg.TimeLayout()
	for _, pt := range schedules {
		out.Days = append(out.Days, listJSONDay{
			Date:    pt.Date.String(),
			Timings: timingsJSON(prayer.FromSchedule(pt, selected, s.loc), layout),
		})
	}
	return writeJSON(w, out)
}
