package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayercalc/internal/display"
	"github.com/smokyabdulrahman/prayercalc/internal/prayer"
	"github.com/smokyabdulrahman/prayercalc/pkg/prayertimes"
)

func runToday(cmd *cobra.Command, args []string) error {
	// Get merged config (CLI flags > env > config file > defaults).
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
	day, err := s.today(now)
	if err != nil {
		return err
	}

	pt := s.compute(day)
	prayers := prayer.FromSchedule(pt, selected, s.loc)

	current := prayer.CurrentPrayer(prayers, now)
	next := prayer.NextPrayer(prayers, now)

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printTodayJSON(out, s, pt, prayers, current, next, now)
	}

	printTodayRich(out, s, day, prayers, current, next, now)
	return nil
}

// printTodayRich renders the colored terminal output for the day's schedule.
func printTodayRich(w io.Writer, s *session, day time.Time, prayers []prayer.Prayer, current, next *prayer.Prayer, now time.Time) {
	layout := s.cfg.TimeLayout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", s.label)
	fmt.Fprintf(w, "  %s\n", s.loc)
	fmt.Fprintf(w, "  %s\n", formatGregorianDate(day))
	fmt.Fprintf(w, "  %s\n", display.Dim(s.params.Method.Description()))
	fmt.Fprintln(w)

	// Find the max prayer name length for alignment.
	maxNameLen := 0
	for _, p := range prayers {
		maxNameLen = max(maxNameLen, utf8.RuneCountInString(p.Name))
	}

	for _, p := range prayers {
		line := fmt.Sprintf("  %s  %s", padRight(p.Name, maxNameLen), displayTime(p, layout))

		switch {
		case !p.Valid:
			fmt.Fprintln(w, display.Dim(line))
		case current != nil && p.Name == current.Name:
			fmt.Fprintln(w, display.Dim(line))
		case next != nil && p.Name == next.Name:
			remaining := prayer.FormatRemaining(prayer.TimeRemaining(p, now))
			suffix := fmt.Sprintf("  <- next in %s", remaining)
			fmt.Fprintln(w, display.Accent(line)+display.Accent(suffix))
		default:
			fmt.Fprintln(w, line)
		}
	}

	if legend := prayer.Legend(prayers); legend != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", display.Dim(legend))
	}
	fmt.Fprintln(w)
}

// displayTime renders a prayer's clock time with its resolution marker, or
// the placeholder when the time does not exist.
func displayTime(p prayer.Prayer, layout string) string {
	if !p.Valid {
		return prayer.NoTime
	}
	return p.Time.Format(layout) + prayer.Marker(p.Resolution)
}

// formatGregorianDate returns a formatted Gregorian date string.
func formatGregorianDate(day time.Time) string {
	return day.Format("Mon 02 Jan 2006")
}

// padRight pads a string to the given width with spaces.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// jsonKey is the lowercase key a prayer uses in JSON output.
func jsonKey(name string) string {
	if name == prayertimes.LastThird.String() {
		return "last_third"
	}
	return strings.ToLower(name)
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location todayJSONLocation     `json:"location"`
	Date     string                `json:"date"`
	Method   string                `json:"method"`
	Madhab   string                `json:"madhab"`
	Timings  map[string]timingJSON `json:"timings"`
	Current  string                `json:"current,omitempty"`
	Next     *todayJSONNext        `json:"next,omitempty"`
}

type todayJSONLocation struct {
	Label     string  `json:"label"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type timingJSON struct {
	Time       string `json:"time,omitempty"`
	Resolution string `json:"resolution"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

func locationJSON(s *session) todayJSONLocation {
	return todayJSONLocation{
		Label:     s.label,
		Timezone:  s.loc.String(),
		Latitude:  s.coords.Latitude(),
		Longitude: s.coords.Longitude(),
	}
}

func timingsJSON(prayers []prayer.Prayer, layout string) map[string]timingJSON {
	timings := make(map[string]timingJSON, len(prayers))
	for _, p := range prayers {
		t := timingJSON{Resolution: p.Resolution.String()}
		if p.Valid {
			t.Time = p.Time.Format(layout)
		}
		timings[jsonKey(p.Name)] = t
	}
	return timings
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(w io.Writer, s *session, pt prayertimes.PrayerTimes, prayers []prayer.Prayer, current, next *prayer.Prayer, now time.Time) error {
	layout := s.cfg.TimeLayout()
	out := todayJSON{
		Location: locationJSON(s),
		Date:     pt.Date.String(),
		Method:   s.params.Method.String(),
		Madhab:   s.params.Madhab.String(),
		Timings:  timingsJSON(prayers, layout),
	}

	if current != nil {
		out.Current = jsonKey(current.Name)
	}
	if next != nil {
		out.Next = &todayJSONNext{
			Prayer:    jsonKey(next.Name),
			Time:      next.Time.Format(layout),
			Remaining: prayer.FormatRemaining(prayer.TimeRemaining(*next, now)),
		}
	}

	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
