package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/smokyabdulrahman/prayercalc/internal/cache"
	"github.com/smokyabdulrahman/prayercalc/internal/config"
	"github.com/smokyabdulrahman/prayercalc/internal/geo"
	"github.com/smokyabdulrahman/prayercalc/pkg/prayertimes"
)

// session is everything a command needs to compute and render schedules.
type session struct {
	cfg    *config.Config
	coords prayertimes.Coordinates
	params prayertimes.Parameters
	loc    *time.Location
	label  string
	cache  *cache.Cache
	logger zerolog.Logger
}

// detectLocation is replaced in tests.
var detectLocation = geo.DetectLocation

// newSession resolves the location, timezone and parameters for cfg.
// Location priority: config (flags, env, file) > cached geolocation > IP
// auto-detect.
func newSession(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*session, error) {
	params, err := cfg.Parameters()
	if err != nil {
		return nil, err
	}

	c, err := cache.New(cfg.CacheDir)
	if err != nil {
		// Cache init failure is non-fatal; we just skip caching.
		log.Warn().Err(err).Msg("cache disabled")
		c = nil
	}

	s := &session{cfg: cfg, params: params, cache: c, logger: log}

	var detectedTZ string
	coords, err := cfg.Coordinates()
	switch {
	case err == nil:
		s.coords = coords
		s.label = coords.String()
	case errors.Is(err, config.ErrNoCoordinates):
		found, err := s.lookupLocation(ctx)
		if err != nil {
			return nil, err
		}
		if s.coords, err = found.Coordinates(); err != nil {
			return nil, err
		}
		s.label = found.Label()
		if s.label == "" {
			s.label = s.coords.String()
		}
		detectedTZ = found.Timezone
	default:
		return nil, err
	}

	switch {
	case cfg.Timezone != "":
		s.loc, err = cfg.Location()
	case detectedTZ != "":
		s.loc, err = time.LoadLocation(detectedTZ)
	default:
		s.loc = time.Local
	}
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	log.Debug().
		Stringer("coordinates", s.coords).
		Str("timezone", s.loc.String()).
		Str("method", params.Method.String()).
		Msg("session resolved")
	return s, nil
}

func (s *session) lookupLocation(ctx context.Context) (*geo.Location, error) {
	if s.cache != nil {
		if cached := s.cache.LoadGeo(); cached != nil {
			s.logger.Debug().Str("location", cached.Label()).Msg("using cached geolocation")
			return cached, nil
		}
	}

	detected, err := detectLocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("no location specified and auto-detection failed: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SaveGeo(detected); err != nil {
			s.logger.Warn().Err(err).Msg("could not cache geolocation")
		}
	}
	return detected, nil
}

// today returns the day to compute: --date when given, otherwise now in the
// session's timezone.
func (s *session) today(now time.Time) (time.Time, error) {
	if FlagDate == "" {
		return now.In(s.loc), nil
	}
	day, err := time.ParseInLocation("2006-01-02", FlagDate, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", FlagDate)
	}
	return day, nil
}

// compute runs the engine for the civil date of day in the session's zone.
func (s *session) compute(day time.Time) prayertimes.PrayerTimes {
	day = day.In(s.loc)
	date := prayertimes.NewCivilDate(time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, s.loc))
	return prayertimes.Compute(date, s.coords, s.params)
}

// computeDays computes n consecutive days starting at start, concurrently.
func (s *session) computeDays(ctx context.Context, start time.Time, n int) ([]prayertimes.PrayerTimes, error) {
	out := make([]prayertimes.PrayerTimes, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := 0; i < n; i++ {
		i := i
		day := start.AddDate(0, 0, i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = s.compute(day)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
