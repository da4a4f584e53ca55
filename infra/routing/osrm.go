// Package routing fetches driving routes from an OSRM server.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/evtrip/planner/core/model"
)

const defaultBaseURL = "https://router.project-osrm.org"

// OSRM queries the OSRM route service for the driving profile.
type OSRM struct {
	client  *http.Client
	baseURL string
}

// Option configures the client.
type Option func(*OSRM)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option { return func(o *OSRM) { o.baseURL = u } }

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(o *OSRM) { o.client = c } }

// New creates an OSRM client.
func New(opts ...Option) *OSRM {
	o := &OSRM{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"` // meters
		Duration float64 `json:"duration"` // seconds
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
	} `json:"routes"`
}

// Route fetches the fastest driving route between two points. Distances are
// converted to kilometers and durations to hours.
func (o *OSRM) Route(ctx context.Context, start, end model.Coordinates) (model.Route, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		o.baseURL, start.Lon, start.Lat, end.Lon, end.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Route{}, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return model.Route{}, fmt.Errorf("osrm request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return model.Route{}, fmt.Errorf("osrm status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.Route{}, fmt.Errorf("osrm decode: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return model.Route{}, fmt.Errorf("osrm: no route (code %q)", body.Code)
	}

	r := body.Routes[0]
	route := model.Route{
		DistanceKm: r.Distance / 1000,
		DurationH:  r.Duration / 3600,
	}
	for _, c := range r.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		route.Geometry = append(route.Geometry, model.Coordinates{Lat: c[1], Lon: c[0]})
	}
	return route, nil
}
