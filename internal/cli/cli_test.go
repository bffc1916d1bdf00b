package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/smokyabdulrahman/prayercalc/internal/api"
	"github.com/smokyabdulrahman/prayercalc/internal/display"
)

// tunisArgs locate the reference schedule: Tunis on 2022-08-01 at UTC+1.
var tunisArgs = []string{
	"--latitude", "36.8065", "--longitude", "10.1815",
	"--method", "tunisia", "--timezone", "+01:00",
}

func TestMain(m *testing.M) {
	// Keep the developer's own config and environment out of the tests.
	dir, err := os.MkdirTemp("", "prayer-times-cli")
	if err != nil {
		panic(err)
	}
	os.Setenv("XDG_CONFIG_HOME", dir)
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, "PRAYER_TIMES_") {
			os.Unsetenv(name)
		}
	}
	display.SetEnabled(false)

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// execute runs the root command in-process with a clock fixed at now. A
// fresh cache directory is used unless args name one.
func execute(t *testing.T, now time.Time, args ...string) (string, error) {
	t.Helper()

	prevNow := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = prevNow })

	if !slices.Contains(args, "--cache-dir") {
		args = append([]string{"--cache-dir", t.TempDir()}, args...)
	}

	var out, logs bytes.Buffer
	cmd := NewRootCmd("v1.2.3-test")
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// morning is 11:00 in Tunis, between Sunrise and Dhuhr.
var morning = time.Date(2022, 8, 1, 10, 0, 0, 0, time.UTC)

func tunis(args ...string) []string {
	return append(append([]string{}, tunisArgs...), args...)
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

// TestVersionFlag verifies that --version prints the version string.
func TestVersionFlag(t *testing.T) {
	out, err := execute(t, morning, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	got := strings.TrimSpace(out)
	want := "prayer-times version v1.2.3-test"
	if got != want {
		t.Errorf("--version = %q, want %q", got, want)
	}
}

func TestPrintVersion(t *testing.T) {
	if got := PrintVersion("v1.0.0"); got != "prayer-times v1.0.0\n" {
		t.Errorf("PrintVersion() = %q", got)
	}
}

// TestHelpFlag verifies that --help shows the expected subcommands.
func TestHelpFlag(t *testing.T) {
	out, err := execute(t, morning, "--help")
	if err != nil {
		t.Fatalf("--help failed: %v", err)
	}
	for _, sub := range []string{"next", "list", "week", "month", "query", "qibla", "compare", "serve", "config", "methods"} {
		if !strings.Contains(out, sub) {
			t.Errorf("--help output missing subcommand %q", sub)
		}
	}
}

func TestInvalidFlagValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown method", []string{"--latitude", "0", "--longitude", "0", "--method", "jafari"}, "--method"},
		{"latitude out of range", []string{"--latitude", "95", "--longitude", "0"}, "--latitude"},
		{"bad timezone", []string{"--latitude", "0", "--longitude", "0", "--timezone", "Mars/Olympus"}, "--timezone"},
		{"bad date", tunis("--date", "2022/08/01"), "--date"},
		{"adjusting a night marker", tunis("--adjustments", "midnight=5"), "--adjustments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, morning, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// today (default)
// ---------------------------------------------------------------------------

func TestToday_Rich(t *testing.T) {
	out, err := execute(t, morning, tunis("--date", "2022-08-01")...)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"36.8065, 10.1815",
		"UTC+01:00",
		"Mon 01 Aug 2022",
		"Tunisia",
		"  Fajr     03:44\n",
		"  Sunrise  05:25\n",
		"  Dhuhr    12:26  <- next in 1h 26m\n",
		"  Asr      16:14\n",
		"  Maghrib  19:26\n",
		"  Isha     21:07\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "high-latitude") {
		t.Errorf("no legend expected at Tunis:\n%s", out)
	}
}

func TestToday_JSON(t *testing.T) {
	out, err := execute(t, morning, tunis("--json", "--date", "2022-08-01")...)
	if err != nil {
		t.Fatal(err)
	}

	var got todayJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}

	want := map[string]timingJSON{
		"fajr":    {Time: "03:44", Resolution: "normal"},
		"sunrise": {Time: "05:25", Resolution: "normal"},
		"dhuhr":   {Time: "12:26", Resolution: "normal"},
		"asr":     {Time: "16:14", Resolution: "normal"},
		"maghrib": {Time: "19:26", Resolution: "normal"},
		"isha":    {Time: "21:07", Resolution: "normal"},
	}
	if diff := cmp.Diff(want, got.Timings); diff != "" {
		t.Errorf("timings mismatch (-want +got):\n%s", diff)
	}
	if got.Date != "2022-08-01" || got.Method != "tunisia" || got.Madhab != "shafi" {
		t.Errorf("date/method/madhab = %s/%s/%s", got.Date, got.Method, got.Madhab)
	}
	if got.Current != "sunrise" {
		t.Errorf("current = %q, want sunrise", got.Current)
	}
	if got.Next == nil || got.Next.Prayer != "dhuhr" || got.Next.Remaining != "1h 26m" {
		t.Errorf("next = %+v, want dhuhr in 1h 26m", got.Next)
	}
	if got.Location.Timezone != "UTC+01:00" {
		t.Errorf("timezone = %q", got.Location.Timezone)
	}
}

func TestToday_TimeFormat12h(t *testing.T) {
	out, err := execute(t, morning, tunis("--date", "2022-08-01", "--time-format", "12h")...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Isha     9:07 PM") {
		t.Errorf("expected 12h times:\n%s", out)
	}
}

func TestToday_PolarDay(t *testing.T) {
	midsummer := time.Date(2022, 6, 21, 10, 0, 0, 0, time.UTC)
	base := []string{"--latitude", "80", "--longitude", "0", "--timezone", "UTC", "--date", "2022-06-21"}

	out, err := execute(t, midsummer, base...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "  Isha     --:--") {
		t.Errorf("unresolved Isha should show a placeholder:\n%s", out)
	}

	out, err = execute(t, midsummer, append(base, "--polar-resolution", "nearest_day")...)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "--:--") {
		t.Errorf("nearest_day should fill every time:\n%s", out)
	}
	if !strings.Contains(out, "^ borrowed from nearest day/place") {
		t.Errorf("legend missing:\n%s", out)
	}
}

// ---------------------------------------------------------------------------
// next
// ---------------------------------------------------------------------------

func TestNext(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		args []string
		want string
	}{
		{"default format", morning, nil, "Dhuhr 12:26 (1h 26m)"},
		{"name and time", morning, []string{"--format", "name-and-time"}, "Dhuhr 12:26"},
		{"short name", morning, []string{"--format", "short-name-and-remaining"}, "D 1h 26m"},
		{"tracked prayers", morning, []string{"--format", "name-and-time", "--prayers", "Fajr,Isha"}, "Isha 21:07"},
		{"template", morning, []string{"--format", "{{.Name}} at {{.Time}}"}, "Dhuhr at 12:26"},
		{"rolls over to tomorrow", time.Date(2022, 8, 1, 21, 0, 0, 0, time.UTC), []string{"--format", "{{.Name}}"}, "Fajr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.now, tunis(append([]string{"next"}, tt.args...)...)...)
			if err != nil {
				t.Fatal(err)
			}
			if out != tt.want {
				t.Errorf("next = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestNext_NothingLeft(t *testing.T) {
	midsummer := time.Date(2022, 6, 21, 10, 0, 0, 0, time.UTC)
	out, err := execute(t, midsummer, "next", "--latitude", "80", "--longitude", "0", "--timezone", "UTC", "--prayers", "Isha", "--format", "name-and-time")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Isha --:--" {
		t.Errorf("next = %q, want %q", out, "Isha --:--")
	}
}

// ---------------------------------------------------------------------------
// list, week, month, query
// ---------------------------------------------------------------------------

func TestList_Table(t *testing.T) {
	out, err := execute(t, morning, tunis("list", "3", "--date", "2022-08-01")...)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Prayer Times (3 Days)", "Date", "Fajr", "Isha", "Mon 01 Aug", "Tue 02 Aug", "Wed 03 Aug"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Thu 04 Aug") {
		t.Errorf("list 3 printed a fourth day:\n%s", out)
	}
}

func TestList_JSONDays(t *testing.T) {
	tests := []struct {
		args []string
		want int
	}{
		{[]string{"list"}, 7},
		{[]string{"list", "2"}, 2},
		{[]string{"week"}, 7},
		{[]string{"month"}, 30},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, "_"), func(t *testing.T) {
			out, err := execute(t, morning, tunis(append(tt.args, "--json", "--date", "2022-08-01")...)...)
			if err != nil {
				t.Fatal(err)
			}
			var got listJSONOutput
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if len(got.Days) != tt.want {
				t.Fatalf("got %d days, want %d", len(got.Days), tt.want)
			}
			if got.Days[0].Date != "2022-08-01" {
				t.Errorf("first day = %s", got.Days[0].Date)
			}
			if got.Days[0].Timings["isha"].Time != "21:07" {
				t.Errorf("first isha = %+v", got.Days[0].Timings["isha"])
			}
			last := time.Date(2022, 8, tt.want, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
			if got.Days[len(got.Days)-1].Date != last {
				t.Errorf("last day = %s, want %s", got.Days[len(got.Days)-1].Date, last)
			}
		})
	}
}

func TestList_InvalidDays(t *testing.T) {
	for _, arg := range []string{"0", "-3", "abc", "1000"} {
		t.Run(arg, func(t *testing.T) {
			if _, err := execute(t, morning, tunis("list", "--", arg)...); err == nil {
				t.Errorf("list %s should fail", arg)
			}
		})
	}
}

func TestQuery(t *testing.T) {
	out, err := execute(t, morning, tunis("query", "fajr", "--date", "2022-08-01")...)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Fajr 03:44\n" {
		t.Errorf("query fajr = %q", out)
	}

	out, err = execute(t, morning, tunis("query", "isha", "--days", "week", "--json", "--date", "2022-08-01")...)
	if err != nil {
		t.Fatal(err)
	}
	var got queryJSONMulti
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Prayer != "isha" || len(got.Days) != 7 || got.Days[0].Time != "21:07" {
		t.Errorf("query isha --days week = %+v", got)
	}

	out, err = execute(t, morning, tunis("query", "lastthird", "--json", "--date", "2022-08-01")...)
	if err != nil {
		t.Fatal(err)
	}
	var single queryJSONSingle
	if err := json.Unmarshal([]byte(out), &single); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if single.Prayer != "last_third" || single.Time == "" {
		t.Errorf("query lastthird = %+v", single)
	}
}

func TestQuery_Invalid(t *testing.T) {
	if _, err := execute(t, morning, tunis("query", "tahajjud")...); err == nil {
		t.Error("unknown prayer should fail")
	}
	if _, err := execute(t, morning, tunis("query", "fajr", "--days", "fortnight")...); err == nil {
		t.Error("invalid --days should fail")
	}
}

// ---------------------------------------------------------------------------
// qibla, methods
// ---------------------------------------------------------------------------

func TestQibla(t *testing.T) {
	args := []string{"qibla", "--latitude", "40.7128", "--longitude=-74.0059", "--timezone", "UTC"}
	out, err := execute(t, morning, args...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "58.48° (ENE)") {
		t.Errorf("qibla = %q", out)
	}

	out, err = execute(t, morning, append(args, "--json")...)
	if err != nil {
		t.Fatal(err)
	}
	var got qiblaJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Bearing != 58.48 || got.Compass != "ENE" {
		t.Errorf("qibla JSON = %+v", got)
	}
}

// TestMethodsSubcommand verifies that 'methods' prints calculation methods.
func TestMethodsSubcommand(t *testing.T) {
	out, err := execute(t, morning, "methods")
	if err != nil {
		t.Fatalf("methods failed: %v", err)
	}
	for _, m := range []string{
		"Muslim World League",
		"Umm al-Qura University, Makkah",
		"Islamic Society of North America",
		"moonsighting",
		"90 min",
		"19.5°",
	} {
		if !strings.Contains(out, m) {
			t.Errorf("methods output missing %q", m)
		}
	}
}

// ---------------------------------------------------------------------------
// config
// ---------------------------------------------------------------------------

func TestConfigCommands(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	out, err := execute(t, morning, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), filepath.Join("prayer-times", "config.json")) {
		t.Errorf("config path = %q", out)
	}

	out, err = execute(t, morning, "config", "set", "method", "Umm_Al_Qura")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Set method = ummalqura\n" {
		t.Errorf("config set = %q", out)
	}

	out, err = execute(t, morning, "config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "ummalqura (Umm al-Qura University, Makkah)") {
		t.Errorf("config show missing method:\n%s", out)
	}
	if !strings.Contains(out, "latitude             (not set)") {
		t.Errorf("config show missing unset latitude:\n%s", out)
	}

	if _, err := execute(t, morning, "config", "set", "city", "Riyadh"); err == nil {
		t.Error("unknown key should fail")
	}

	if _, err := execute(t, morning, "config", "reset"); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, morning, "config")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "ummalqura") {
		t.Errorf("config reset left the method behind:\n%s", out)
	}
}

func TestConfigPrecedence(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, args := range [][]string{
		{"config", "set", "latitude", "36.8065"},
		{"config", "set", "longitude", "10.1815"},
		{"config", "set", "timezone", "+01:00"},
		{"config", "set", "method", "tunisia"},
	} {
		if _, err := execute(t, morning, args...); err != nil {
			t.Fatal(err)
		}
	}

	method := func(args ...string) string {
		t.Helper()
		out, err := execute(t, morning, append([]string{"--json", "--date", "2022-08-01"}, args...)...)
		if err != nil {
			t.Fatal(err)
		}
		var got todayJSON
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		return got.Method
	}

	if got := method(); got != "tunisia" {
		t.Errorf("file only: method = %s, want tunisia", got)
	}

	t.Setenv("PRAYER_TIMES_METHOD", "karachi")
	if got := method(); got != "karachi" {
		t.Errorf("env over file: method = %s, want karachi", got)
	}
	if got := method("--method", "isna"); got != "isna" {
		t.Errorf("flag over env: method = %s, want isna", got)
	}
}

func TestEnvFile(t *testing.T) {
	// Register cleanup for the variable the file sets, then make sure it
	// starts out unset so the file can provide it.
	t.Setenv("PRAYER_TIMES_MADHAB", "")
	os.Unsetenv("PRAYER_TIMES_MADHAB")

	path := filepath.Join(t.TempDir(), "prayer.env")
	if err := os.WriteFile(path, []byte("PRAYER_TIMES_MADHAB=hanafi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, morning, tunis("--json", "--env-file", path)...)
	if err != nil {
		t.Fatal(err)
	}
	var got todayJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Madhab != "hanafi" {
		t.Errorf("madhab = %s, want hanafi from the env file", got.Madhab)
	}

	if _, err := execute(t, morning, tunis("--env-file", filepath.Join(t.TempDir(), "missing.env"))...); err == nil {
		t.Error("an explicit --env-file that does not exist should fail")
	}
}

// ---------------------------------------------------------------------------
// compare
// ---------------------------------------------------------------------------

func referenceServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/timings/01-08-2022" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("method"); got != "18" {
			t.Errorf("method = %s, want 18 (Tunisia)", got)
		}
		resp := api.Response{
			Code:   200,
			Status: "OK",
			Data: api.Data{
				Timings: api.Timings{
					Fajr: "03:44", Sunrise: "05:25", Dhuhr: "12:26", Asr: "16:14",
					Maghrib: "19:27", Isha: "21:10", Midnight: "00:25", Lastthird: "02:12",
				},
				Date: api.DateInfo{Hijri: api.HijriDate{
					Day: "3", Month: api.HijriMonth{Number: 1, En: "Muḥarram"}, Year: "1444",
				}},
				Meta: api.Meta{Timezone: "Africa/Tunis", Method: api.MethodInfo{ID: 18, Name: "Tunisia"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompare(t *testing.T) {
	var hits atomic.Int32
	srv := referenceServer(t, &hits)

	cacheDir := t.TempDir()
	args := tunis("compare", "--api-url", srv.URL, "--date", "2022-08-01", "--json", "--cache-dir", cacheDir)
	out, err := execute(t, morning, args...)
	if err != nil {
		t.Fatal(err)
	}

	var got compareJSON
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.Hijri != "3 Muḥarram 1444 AH" || got.ReferenceMethod != "Tunisia" {
		t.Errorf("hijri/method = %q/%q", got.Hijri, got.ReferenceMethod)
	}

	deltas := map[string]int{}
	for _, row := range got.Prayers {
		if row.Delta != nil {
			deltas[row.Prayer] = *row.Delta
		}
	}
	for prayer, want := range map[string]int{"fajr": 0, "sunrise": 0, "dhuhr": 0, "asr": 0, "maghrib": -1, "isha": -3} {
		if deltas[prayer] != want {
			t.Errorf("%s delta = %d, want %d", prayer, deltas[prayer], want)
		}
	}
	if len(got.Prayers) != 8 {
		t.Errorf("got %d rows, want 8", len(got.Prayers))
	}

	// The second run is served from the cache.
	if _, err := execute(t, morning, args...); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("reference fetched %d times, want 1", hits.Load())
	}

	if _, err := execute(t, morning, append(args, "--no-cache")...); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("--no-cache should refetch, hits = %d", hits.Load())
	}
}

func TestCompare_StrictAndTable(t *testing.T) {
	var hits atomic.Int32
	srv := referenceServer(t, &hits)

	out, err := execute(t, morning, tunis("compare", "--api-url", srv.URL, "--date", "2022-08-01")...)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Local vs Al Adhan", "3 Muḥarram 1444 AH", "Al Adhan", "Maghrib", "-3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	_, err = execute(t, morning, tunis("compare", "--api-url", srv.URL, "--date", "2022-08-01", "--strict")...)
	if err == nil || !strings.Contains(err.Error(), "3 minutes") {
		t.Errorf("--strict error = %v, want the 3 minute Isha difference", err)
	}
	if _, err := execute(t, morning, tunis("compare", "--api-url", srv.URL, "--date", "2022-08-01", "--strict", "--tolerance", "3")...); err != nil {
		t.Errorf("--strict within tolerance: %v", err)
	}
}

func TestCompare_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := execute(t, morning, tunis("compare", "--api-url", srv.URL, "--date", "2022-08-01")...)
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("error = %v, want the API status", err)
	}
}
