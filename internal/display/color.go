// Package display renders colored terminal output with raw ANSI codes.
//
// Color is off when NO_COLOR is set or stdout is not a terminal, and forced
// on by FORCE_COLOR.
package display

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	fgGray = "\033[90m"
)

var enabled bool

func init() {
	enabled = shouldEnable()
}

func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetEnabled overrides the auto-detected color state.
func SetEnabled(b bool) {
	enabled = b
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return enabled
}

func wrap(code, text string) string {
	if !enabled {
		return text
	}
	return code + text + reset
}

// Bold wraps text in bold.
func Bold(text string) string { return wrap(bold, text) }

// Dim wraps text in dim, used for prayers already passed.
func Dim(text string) string { return wrap(dim, text) }

// Red wraps text in red.
func Red(text string) string { return wrap(red, text) }

// Green wraps text in green.
func Green(text string) string { return wrap(green, text) }

// Yellow wraps text in yellow.
func Yellow(text string) string { return wrap(yellow, text) }

// Cyan wraps text in cyan.
func Cyan(text string) string { return wrap(cyan, text) }

// Gray wraps text in gray.
func Gray(text string) string { return wrap(fgGray, text) }

// Accent highlights the next prayer (bold cyan).
func Accent(text string) string {
	if !enabled {
		return text
	}
	return bold + cyan + text + reset
}

// Boldf formats and bolds a string.
func Boldf(format string, a ...any) string {
	return Bold(fmt.Sprintf(format, a...))
}

// Delta colors a minute difference: green within tolerance, yellow within
// twice the tolerance, red beyond.
func Delta(minutes, tolerance int) string {
	text := fmt.Sprintf("%+d", minutes)
	abs := minutes
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs <= tolerance:
		return Green(text)
	case abs <= 2*tolerance:
		return Yellow(text)
	default:
		return Red(text)
	}
}
