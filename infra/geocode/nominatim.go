// Package geocode resolves place names through the Nominatim (OSM) API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/evtrip/planner/core/model"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Nominatim queries the Nominatim search endpoint.
type Nominatim struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// Option configures the client.
type Option func(*Nominatim)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option { return func(n *Nominatim) { n.baseURL = u } }

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(n *Nominatim) { n.client = c } }

// New creates a Nominatim geocoder. The user agent is mandatory per the
// Nominatim usage policy.
func New(userAgent string, opts ...Option) *Nominatim {
	n := &Nominatim{
		client:    &http.Client{Timeout: 10 * time.Second},
		baseURL:   defaultBaseURL,
		userAgent: userAgent,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a free-text place name to coordinates. It returns an error
// when the service is unreachable or the place is unknown.
func (n *Nominatim) Geocode(ctx context.Context, place string) (model.Coordinates, error) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return model.Coordinates{}, err
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("nominatim request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return model.Coordinates{}, fmt.Errorf("nominatim status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return model.Coordinates{}, fmt.Errorf("nominatim decode: %w", err)
	}
	if len(results) == 0 {
		return model.Coordinates{}, fmt.Errorf("location not found: %s", place)
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("nominatim latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("nominatim longitude: %w", err)
	}
	return model.Coordinates{Lat: lat, Lon: lon}, nil
}
