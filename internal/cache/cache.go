// Package cache stores Al Adhan reference responses and the last detected
// location on disk. Computed schedules are never cached.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smokyabdulrahman/prayercalc/internal/api"
	"github.com/smokyabdulrahman/prayercalc/internal/geo"
)

const (
	referenceCacheFile = "reference_%s.json"
	geoCacheFile       = "geolocation.json"
	geoTTL             = 24 * time.Hour
)

// Cache is a directory of JSON files.
type Cache struct {
	dir string
}

// ReferenceEntry is one cached Al Adhan response.
type ReferenceEntry struct {
	Date     string       `json:"date"` // YYYY-MM-DD
	Query    api.Query    `json:"query"`
	Response api.Response `json:"response"`
}

// GeoEntry is a detected location and when it was detected.
type GeoEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// DefaultDir returns ~/.cache/prayer-times.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "prayer-times"), nil
}

// New creates a Cache rooted at dir, or at DefaultDir when dir is empty.
func New(dir string) (*Cache, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

func referenceKey(date string, lat, lon float64, q api.Query) string {
	raw := fmt.Sprintf("%s|%.6f|%.6f|%d|%s|%d|%d|%s", date, lat, lon,
		q.Method, q.MethodSettings, q.School, q.LatitudeAdjustment, q.Tune)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8])
}

func (c *Cache) referencePath(date string, lat, lon float64, q api.Query) string {
	return filepath.Join(c.dir, fmt.Sprintf(referenceCacheFile, referenceKey(date, lat, lon, q)))
}

// LoadReference returns the cached response for the request, or nil when it
// is missing, unreadable or for another day.
func (c *Cache) LoadReference(date time.Time, lat, lon float64, q api.Query) *api.Response {
	dateStr := date.Format("2006-01-02")
	data, err := os.ReadFile(c.referencePath(dateStr, lat, lon, q))
	if err != nil {
		return nil
	}

	var entry ReferenceEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}
	if entry.Date != dateStr || entry.Query != q {
		return nil
	}
	return &entry.Response
}

// SaveReference writes resp to the cache.
func (c *Cache) SaveReference(date time.Time, lat, lon float64, q api.Query, resp *api.Response) error {
	dateStr := date.Format("2006-01-02")
	entry := ReferenceEntry{Date: dateStr, Query: q, Response: *resp}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := os.WriteFile(c.referencePath(dateStr, lat, lon, q), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// LoadGeo returns the cached location, or nil when it is missing or older
// than 24 hours.
func (c *Cache) LoadGeo() *geo.Location {
	data, err := os.ReadFile(filepath.Join(c.dir, geoCacheFile))
	if err != nil {
		return nil
	}

	var entry GeoEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}
	if time.Since(entry.CachedAt) > geoTTL {
		return nil
	}
	return &entry.Location
}

// SaveGeo writes loc to the cache.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	entry := GeoEntry{Location: *loc, CachedAt: time.Now()}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal geo cache: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, geoCacheFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}
	return nil
}
