package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayercalc/internal/api"
	"github.com/smokyabdulrahman/prayercalc/internal/display"
	"github.com/smokyabdulrahman/prayercalc/internal/prayer"
	"github.com/smokyabdulrahman/prayercalc/pkg/prayertimes"
)

var (
	flagAPIURL    string
	flagTolerance int
	flagNoCache   bool
	flagStrict    bool
)

// comparedPrayers are the entries compare checks against the reference.
var comparedPrayers = []prayertimes.Prayer{
	prayertimes.Fajr, prayertimes.Sunrise, prayertimes.Dhuhr, prayertimes.Asr,
	prayertimes.Maghrib, prayertimes.Isha, prayertimes.Midnight, prayertimes.LastThird,
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare local times with the Al Adhan API",
		Long:  "Compute the day's schedule locally and fetch the same day from api.aladhan.com with equivalent settings,\nthen print the per-prayer difference in minutes.",
		Args:  cobra.NoArgs,
		RunE:  runCompare,
	}

	cmd.Flags().StringVar(&flagAPIURL, "api-url", "", "Al Adhan API base URL (default: https://api.aladhan.com/v1)")
	cmd.Flags().IntVar(&flagTolerance, "tolerance", 1, "Differences up to this many minutes are shown as agreeing")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Always fetch a fresh reference response")
	cmd.Flags().BoolVar(&flagStrict, "strict", false, "Exit with an error when any difference exceeds --tolerance")

	return cmd
}

// comparison is one row of the compare output.
type comparison struct {
	Prayer    string `json:"prayer"`
	Local     string `json:"local,omitempty"`
	Reference string `json:"reference,omitempty"`
	Delta     *int   `json:"delta_minutes,omitempty"`
	local     prayer.Prayer
}

type compareJSON struct {
	Location        todayJSONLocation `json:"location"`
	Date            string            `json:"date"`
	Hijri           string            `json:"hijri,omitempty"`
	Method          string            `json:"method"`
	ReferenceMethod string            `json:"reference_method"`
	Tolerance       int               `json:"tolerance"`
	Prayers         []comparison      `json:"prayers"`
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
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

	q := api.QueryFor(s.params)
	resp, err := s.reference(cmd.Context(), day, q)
	if err != nil {
		return err
	}

	rows, worst, err := compareSchedules(pt, resp, s.loc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		err = writeJSON(out, compareJSON{
			Location:        locationJSON(s),
			Date:            pt.Date.String(),
			Hijri:           resp.Data.Date.Hijri.Format(),
			Method:          s.params.Method.String(),
			ReferenceMethod: resp.Data.Meta.Method.Name,
			Tolerance:       flagTolerance,
			Prayers:         rows,
		})
	} else {
		printCompare(out, s, pt, resp, rows)
	}
	if err != nil {
		return err
	}

	if flagStrict && worst > flagTolerance {
		return fmt.Errorf("largest difference is %d minutes, above the tolerance of %d", worst, flagTolerance)
	}
	return nil
}

// reference returns Al Adhan's schedule for day, from the cache when possible.
func (s *session) reference(ctx context.Context, day time.Time, q api.Query) (*api.Response, error) {
	lat, lon := s.coords.Latitude(), s.coords.Longitude()
	if s.cache != nil && !flagNoCache {
		if resp := s.cache.LoadReference(day, lat, lon, q); resp != nil {
			s.logger.Debug().Str("date", day.Format("2006-01-02")).Msg("reference cache hit")
			return resp, nil
		}
	}

	client := api.NewClient(s.logger)
	if flagAPIURL != "" {
		client.BaseURL = flagAPIURL
	}
	resp, err := client.FetchTimings(ctx, day, lat, lon, q)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SaveReference(day, lat, lon, q, resp); err != nil {
			s.logger.Warn().Err(err).Msg("could not cache reference response")
		}
	}
	return resp, nil
}

// compareSchedules lines up the local schedule with the reference response
// and returns the rows plus the largest absolute difference in minutes among
// the six daily times.
func compareSchedules(pt prayertimes.PrayerTimes, resp *api.Response, loc *time.Location) ([]comparison, int, error) {
	refLoc := resp.Data.Meta.Location()
	y, m, d := pt.Date.Year, pt.Date.Month, pt.Date.Day
	local := prayer.FromSchedule(pt, comparedPrayers, loc)

	rows := make([]comparison, 0, len(local))
	worst := 0
	for i, lp := range local {
		row := comparison{Prayer: jsonKey(lp.Name), local: lp}

		ref, err := resp.Data.Timings.At(jsonKey(lp.Name), y, m, d, refLoc)
		if err != nil {
			return nil, 0, fmt.Errorf("reference %s: %w", lp.Name, err)
		}
		if lp.Valid {
			row.Local = lp.Time.Format("15:04")
			// Night markers fall after midnight; put the reference on
			// the same side of it as the local time.
			switch diff := lp.Time.Sub(ref); {
			case diff > 12*time.Hour:
				ref = ref.AddDate(0, 0, 1)
			case diff < -12*time.Hour:
				ref = ref.AddDate(0, 0, -1)
			}
			delta := int(math.Round(lp.Time.Sub(ref).Minutes()))
			row.Delta = &delta
			// Al Adhan's night markers are measured from sunset to
			// sunrise, so only the daily times count towards worst.
			if i < len(prayertimes.DailyPrayers) {
				worst = max(worst, abs(delta))
			}
		}
		row.Reference = ref.In(loc).Format("15:04")
		rows = append(rows, row)
	}
	return rows, worst, nil
}

func printCompare(w io.Writer, s *session, pt prayertimes.PrayerTimes, resp *api.Response, rows []comparison) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Local vs Al Adhan"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", s.label)
	fmt.Fprintf(w, "  %s\n", formatGregorianDate(pt.Date.Midnight()))
	if hijri := resp.Data.Date.Hijri.Format(); hijri != "" {
		fmt.Fprintf(w, "  %s\n", hijri)
	}
	fmt.Fprintf(w, "  %s\n", display.Dim(fmt.Sprintf("%s vs %s", s.params.Method.Description(), resp.Data.Meta.Method.Name)))
	fmt.Fprintln(w)

	tbl := display.NewTable([]string{"Prayer", "Local", "Al Adhan", "Diff"})
	for _, r := range rows {
		diff := prayer.NoRemaining
		if r.Delta != nil {
			diff = display.Delta(*r.Delta, flagTolerance)
		}
		tbl.AddRow([]string{r.local.Name, displayTime(r.local, "15:04"), r.Reference, diff})
	}
	tbl.SetFooter(fmt.Sprintf("differences in minutes, local minus reference; tolerance %d", flagTolerance))
	fmt.Fprint(w, tbl.Render())
	fmt.Fprintln(w)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
