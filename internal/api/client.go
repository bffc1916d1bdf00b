// Package api talks to the Al Adhan prayer times API. The local engine does
// not depend on it; it is used to cross-check computed schedules.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// Client fetches reference timings from Al Adhan.
type Client struct {
	httpClient *http.Client
	logger     zerolog.Logger
	// BaseURL is exported so tests can point it at an httptest server.
	BaseURL string
}

// NewClient returns a client with a 10 second timeout.
func NewClient(logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger.With().Str("component", "aladhan").Logger(),
		BaseURL:    defaultBaseURL,
	}
}

// FetchTimings fetches the reference schedule for one date and place.
func (c *Client) FetchTimings(ctx context.Context, date time.Time, lat, lon float64, q Query) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, date.Format("02-01-2006"))

	params := q.values()
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 6, 64))

	return c.doRequest(ctx, endpoint, params)
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	c.logger.Debug().Str("url", reqURL).Msg("requesting reference timings")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building API request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp Response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	if apiResp.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", apiResp.Code, apiResp.Status)
	}

	c.logger.Debug().
		Int("method", apiResp.Data.Meta.Method.ID).
		Str("timezone", apiResp.Data.Meta.Timezone).
		Msg("reference timings received")
	return &apiResp, nil
}
