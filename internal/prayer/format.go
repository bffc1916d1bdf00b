package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Format constants for display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// Placeholders shown for a prayer that has no time.
const (
	NoTime      = "--:--"
	NoRemaining = "--"
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name       string // "Asr"
	ShortName  string // "A"
	Time       string // "15:02" or "3:02 PM"
	Remaining  string // "2h 15m"
	Hours      int
	Minutes    int
	Marker     string // "*" high latitude, "^" borrowed, "" otherwise
	Resolution string // "normal", "high_latitude", "polar_circle", "unresolved"
}

// FormatOutput formats a prayer for display according to mode.
// timeFormat should be "15:04" for 24h or "3:04 PM" for 12h.
//
// If mode contains "{{", it is treated as a custom Go template string over
// FormatData, e.g. "{{.Name}} in {{.Remaining}}" -> "Asr in 2h 15m".
func FormatOutput(p Prayer, now time.Time, mode string, timeFormat string) string {
	data := FormatData{
		Name:       p.Name,
		ShortName:  ShortNames[p.Name],
		Time:       NoTime,
		Remaining:  NoRemaining,
		Marker:     Marker(p.Resolution),
		Resolution: p.Resolution.String(),
	}
	if p.Valid {
		d := TimeRemaining(p, now)
		data.Time = p.Time.Format(timeFormat) + data.Marker
		data.Remaining = FormatRemaining(d)
		data.Hours = int(d.Hours())
		data.Minutes = int(d.Minutes()) % 60
	}

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, data)
	}

	switch mode {
	case FormatTimeRemaining:
		return data.Remaining
	case FormatNextPrayerTime:
		return data.Time
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", data.Name, data.Remaining)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", data.ShortName, data.Time)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", data.ShortName, data.Remaining)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", data.Name, data.Time, data.Remaining)
	default:
		return fmt.Sprintf("%s %s", data.Name, data.Time)
	}
}

func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	return buf.String()
}
