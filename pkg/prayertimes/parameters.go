package prayertimes

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameters is wrapped by every Parameters validation error.
var ErrInvalidParameters = errors.New("invalid parameters")

// Parameters is everything besides date and place that shapes a schedule.
type Parameters struct {
	Method                Method
	FajrAngle             float64
	IshaAngle             float64
	IshaInterval          int // minutes after Maghrib; wins over IshaAngle when non-zero
	Madhab                Madhab
	Twilight              Twilight
	HighLatitudeRule      HighLatitudeRule
	PolarCircleResolution PolarCircleResolution
	Adjustments           Adjustments
	MethodAdjustments     Adjustments
}

// Option overrides a preset value.
type Option func(*Parameters)

// WithFajrAngle sets the sun's depression angle for Fajr.
func WithFajrAngle(deg float64) Option {
	return func(p *Parameters) { p.FajrAngle = deg }
}

// WithIshaAngle sets the sun's depression angle for Isha.
func WithIshaAngle(deg float64) Option {
	return func(p *Parameters) { p.IshaAngle = deg }
}

// WithIshaInterval places Isha a fixed number of minutes after Maghrib.
// Zero falls back to the Isha angle.
func WithIshaInterval(minutes int) Option {
	return func(p *Parameters) { p.IshaInterval = minutes }
}

// WithTwilight selects the twilight used by the Moonsighting Committee Isha.
func WithTwilight(t Twilight) Option {
	return func(p *Parameters) { p.Twilight = t }
}

// WithHighLatitudeRule sets how Fajr and Isha are bounded at high latitudes.
func WithHighLatitudeRule(r HighLatitudeRule) Option {
	return func(p *Parameters) { p.HighLatitudeRule = r }
}

// WithPolarCircleResolution sets the fallback for days without sunrise or sunset.
func WithPolarCircleResolution(r PolarCircleResolution) Option {
	return func(p *Parameters) { p.PolarCircleResolution = r }
}

// WithAdjustments replaces all user adjustments.
func WithAdjustments(a Adjustments) Option {
	return func(p *Parameters) { p.Adjustments = a }
}

// WithAdjustment sets the user adjustment for a single prayer.
func WithAdjustment(prayer Prayer, minutes int) Option {
	return func(p *Parameters) { p.Adjustments = p.Adjustments.With(prayer, minutes) }
}

// NewParameters starts from the method's preset and applies opts in order.
func NewParameters(method Method, madhab Madhab, opts ...Option) (Parameters, error) {
	if !method.valid() {
		return Parameters{}, fmt.Errorf("%w: unknown method %d", ErrInvalidParameters, int(method))
	}
	preset := method.Preset()
	p := Parameters{
		Method:            method,
		FajrAngle:         preset.FajrAngle,
		IshaAngle:         preset.IshaAngle,
		IshaInterval:      preset.IshaInterval,
		Madhab:            madhab,
		Twilight:          Red,
		HighLatitudeRule:  preset.HighLatitudeRule,
		MethodAdjustments: preset.Adjustments,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// Validate checks angle ranges and enum values.
func (p Parameters) Validate() error {
	var errs []error
	if !p.Method.valid() {
		errs = append(errs, fmt.Errorf("unknown method %d", int(p.Method)))
	}
	if !validAngle(p.FajrAngle) {
		errs = append(errs, fmt.Errorf("fajr angle %v must be in [0, 90)", p.FajrAngle))
	}
	if !validAngle(p.IshaAngle) {
		errs = append(errs, fmt.Errorf("isha angle %v must be in [0, 90)", p.IshaAngle))
	}
	if p.IshaInterval < 0 {
		errs = append(errs, fmt.Errorf("isha interval %d must not be negative", p.IshaInterval))
	}
	if !p.Madhab.valid() {
		errs = append(errs, fmt.Errorf("unknown madhab %d", int(p.Madhab)))
	}
	if !p.Twilight.valid() {
		errs = append(errs, fmt.Errorf("unknown twilight %d", int(p.Twilight)))
	}
	if !p.HighLatitudeRule.valid() {
		errs = append(errs, fmt.Errorf("unknown high latitude rule %d", int(p.HighLatitudeRule)))
	}
	if !p.PolarCircleResolution.valid() {
		errs = append(errs, fmt.Errorf("unknown polar circle resolution %d", int(p.PolarCircleResolution)))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidParameters, errors.Join(errs...))
}

func validAngle(deg float64) bool {
	return !math.IsNaN(deg) && deg >= 0 && deg < 90
}

// NightPortions returns the fractions of the night that bound Fajr and Isha
// under the high-latitude rule.
func (p Parameters) NightPortions() (fajr, isha float64) {
	switch p.HighLatitudeRule {
	case MiddleOfTheNight:
		return 1.0 / 2, 1.0 / 2
	case SeventhOfTheNight:
		return 1.0 / 7, 1.0 / 7
	default:
		return p.FajrAngle / 60, p.IshaAngle / 60
	}
}

// adjustment is the total minute offset applied to p.
func (p Parameters) adjustment(prayer Prayer) int {
	return p.Adjustments.For(prayer) + p.MethodAdjustments.For(prayer)
}
