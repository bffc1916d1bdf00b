package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayercalc/internal/config"
	"github.com/smokyabdulrahman/prayercalc/pkg/prayertimes"
)

// queryKeys are the config keys a request may override.
var queryKeys = []string{
	"latitude", "longitude", "timezone",
	"method", "madhab", "twilight",
	"high_latitude_rule", "polar_resolution",
	"fajr_angle", "isha_angle", "isha_interval",
	"adjustments",
}

// Handler serves prayer times computed by the local engine.
type Handler struct {
	defaults config.Config
	logger   zerolog.Logger
	metrics  *Metrics
	now      func() time.Time
}

// New constructs a handler. defaults supplies every parameter a request
// leaves out.
func New(defaults config.Config, logger zerolog.Logger, metrics *Metrics) *Handler {
	return &Handler{
		defaults: defaults,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Register mounts the API endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/timings", h.HandleTimings)
	r.Get("/v1/qibla", h.HandleQibla)
	r.Get("/v1/methods", h.HandleMethods)
	r.Get("/healthz", h.HandleHealth)
}

type coordinatesJSON struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func coordinatesOf(c prayertimes.Coordinates) coordinatesJSON {
	return coordinatesJSON{Latitude: c.Latitude(), Longitude: c.Longitude()}
}

type timeJSON struct {
	Time       *time.Time `json:"time"`
	Resolution string     `json:"resolution"`
}

func timeOf(t prayertimes.Time, loc *time.Location) timeJSON {
	out := timeJSON{Resolution: t.Resolution.String()}
	if at, ok := t.Get(); ok {
		at = at.In(loc)
		out.Time = &at
	}
	return out
}

type timingsJSON struct {
	Fajr      timeJSON `json:"fajr"`
	Sunrise   timeJSON `json:"sunrise"`
	Dhuhr     timeJSON `json:"dhuhr"`
	Asr       timeJSON `json:"asr"`
	Maghrib   timeJSON `json:"maghrib"`
	Isha      timeJSON `json:"isha"`
	Midnight  timeJSON `json:"midnight"`
	LastThird timeJSON `json:"last_third"`
}

// TimingsResponse is the body of GET /v1/timings.
type TimingsResponse struct {
	Date                string          `json:"date"`
	Timezone            string          `json:"timezone"`
	Coordinates         coordinatesJSON `json:"coordinates"`
	Method              string          `json:"method"`
	Madhab              string          `json:"madhab"`
	HighLatitudeRule    string          `json:"high_latitude_rule"`
	PolarResolution     string          `json:"polar_resolution"`
	ResolvedDate        string          `json:"resolved_date"`
	ResolvedCoordinates coordinatesJSON `json:"resolved_coordinates"`
	SolarDeclination    float64         `json:"solar_declination"`
	Timings             timingsJSON     `json:"timings"`
}

// HandleTimings handles GET /v1/timings.
func (h *Handler) HandleTimings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.requestConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	coords, err := cfg.Coordinates()
	if err != nil {
		if errors.Is(err, config.ErrNoCoordinates) {
			err = errors.New("latitude and longitude are required")
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}
	params, err := cfg.Parameters()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	loc := time.UTC
	if cfg.Timezone != "" {
		if loc, err = cfg.Location(); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	day := h.now().In(loc)
	if s := r.URL.Query().Get("date"); s != "" {
		if day, err = time.ParseInLocation("2006-01-02", s, loc); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s))
			return
		}
	}
	date := prayertimes.NewCivilDate(day)

	pt := prayertimes.Compute(date, coords, params)
	h.metrics.IncrementComputation(params.Method.String(), worstResolution(pt).String())
	h.logger.Debug().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("date", date.String()).
		Stringer("coordinates", coords).
		Str("method", params.Method.String()).
		Msg("schedule computed")

	writeJSON(w, http.StatusOK, TimingsResponse{
		Date:                date.String(),
		Timezone:            loc.String(),
		Coordinates:         coordinatesOf(coords),
		Method:              params.Method.String(),
		Madhab:              params.Madhab.String(),
		HighLatitudeRule:    params.HighLatitudeRule.String(),
		PolarResolution:     params.PolarCircleResolution.String(),
		ResolvedDate:        pt.ResolvedDate.String(),
		ResolvedCoordinates: coordinatesOf(pt.ResolvedCoordinates),
		SolarDeclination:    pt.SolarDeclination(),
		Timings: timingsJSON{
			Fajr:      timeOf(pt.Fajr, loc),
			Sunrise:   timeOf(pt.Sunrise, loc),
			Dhuhr:     timeOf(pt.Dhuhr, loc),
			Asr:       timeOf(pt.Asr, loc),
			Maghrib:   timeOf(pt.Maghrib, loc),
			Isha:      timeOf(pt.Isha, loc),
			Midnight:  timeOf(pt.MiddleOfTheNight, loc),
			LastThird: timeOf(pt.LastThirdOfTheNight, loc),
		},
	})
}

// QiblaResponse is the body of GET /v1/qibla.
type QiblaResponse struct {
	Coordinates coordinatesJSON `json:"coordinates"`
	Bearing     float64         `json:"bearing"`
}

// HandleQibla handles GET /v1/qibla.
func (h *Handler) HandleQibla(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.requestConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	coords, err := cfg.Coordinates()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, QiblaResponse{
		Coordinates: coordinatesOf(coords),
		Bearing:     prayertimes.Qibla(coords),
	})
}

// MethodResponse describes one calculation method preset.
type MethodResponse struct {
	Key          string  `json:"key"`
	Description  string  `json:"description"`
	FajrAngle    float64 `json:"fajr_angle"`
	IshaAngle    float64 `json:"isha_angle"`
	IshaInterval int     `json:"isha_interval"`
}

// HandleMethods handles GET /v1/methods.
func (h *Handler) HandleMethods(w http.ResponseWriter, r *http.Request) {
	methods := prayertimes.Methods()
	out := make([]MethodResponse, 0, len(methods))
	for _, m := range methods {
		p := m.Preset()
		out = append(out, MethodResponse{
			Key:          m.String(),
			Description:  m.Description(),
			FajrAngle:    p.FajrAngle,
			IshaAngle:    p.IshaAngle,
			IshaInterval: p.IshaInterval,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestConfig overlays the request's query parameters on the defaults.
func (h *Handler) requestConfig(r *http.Request) (config.Config, error) {
	cfg := h.defaults
	q := r.URL.Query()
	for _, key := range queryKeys {
		if !q.Has(key) {
			continue
		}
		if err := cfg.Set(key, q.Get(key)); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// worstResolution is the least direct resolution among the six daily times.
func worstResolution(pt prayertimes.PrayerTimes) prayertimes.Resolution {
	worst := prayertimes.Normal
	for _, p := range prayertimes.DailyPrayers {
		worst = max(worst, pt.TimeFor(p).Resolution)
	}
	return worst
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
