// Package elevation samples altitudes from the Open-Elevation API and derives
// cumulative climb figures from them.
package elevation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evtrip/planner/core/model"
)

const (
	defaultBaseURL = "https://api.open-elevation.com"

	// maxRoutePoints bounds how many geometry points are sent per lookup.
	maxRoutePoints = 40
	// profilePoints is the straight-line sample count between endpoints.
	profilePoints = 11
)

// Client queries the Open-Elevation lookup endpoint. It serves both the
// route-geometry ascent used by the base formula and the coarse endpoint
// profile consumed by the adjustment layer.
type Client struct {
	client  *http.Client
	baseURL string
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.client = h } }

// New creates an Open-Elevation client.
func New(opts ...Option) *Client {
	c := &Client{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultBaseURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type lookupResponse struct {
	Results []struct {
		Elevation float64 `json:"elevation"`
	} `json:"results"`
}

// Gain returns the cumulative positive elevation change along the route
// geometry, thinned to at most maxRoutePoints samples.
func (c *Client) Gain(ctx context.Context, geometry []model.Coordinates) (float64, error) {
	if len(geometry) < 2 {
		return 0, nil
	}
	step := len(geometry) / maxRoutePoints
	if step < 1 {
		step = 1
	}
	var pts []model.Coordinates
	for i := 0; i < len(geometry); i += step {
		pts = append(pts, geometry[i])
	}
	elevs, err := c.lookup(ctx, pts)
	if err != nil {
		return 0, err
	}
	return cumulativeGain(elevs), nil
}

// ProfileGain samples a straight line between the endpoints and returns the
// cumulative positive elevation change of that profile.
func (c *Client) ProfileGain(ctx context.Context, start, end model.Coordinates) (float64, error) {
	pts := make([]model.Coordinates, profilePoints)
	for i := range pts {
		f := float64(i) / float64(profilePoints-1)
		pts[i] = model.Coordinates{
			Lat: start.Lat + (end.Lat-start.Lat)*f,
			Lon: start.Lon + (end.Lon-start.Lon)*f,
		}
	}
	elevs, err := c.lookup(ctx, pts)
	if err != nil {
		return 0, err
	}
	return cumulativeGain(elevs), nil
}

func (c *Client) lookup(ctx context.Context, pts []model.Coordinates) ([]float64, error) {
	locs := make([]string, len(pts))
	for i, p := range pts {
		locs[i] = fmt.Sprintf("%f,%f", p.Lat, p.Lon)
	}
	u := c.baseURL + "/api/v1/lookup?locations=" + url.QueryEscape(strings.Join(locs, "|"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevation request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevation status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("elevation decode: %w", err)
	}
	if len(body.Results) == 0 {
		return nil, fmt.Errorf("elevation: empty result set")
	}
	out := make([]float64, len(body.Results))
	for i, r := range body.Results {
		out[i] = r.Elevation
	}
	return out, nil
}

// cumulativeGain sums positive altitude deltas, ignoring descents.
func cumulativeGain(elevs []float64) float64 {
	var gain float64
	for i := 1; i < len(elevs); i++ {
		if d := elevs[i] - elevs[i-1]; d > 0 {
			gain += d
		}
	}
	return gain
}
