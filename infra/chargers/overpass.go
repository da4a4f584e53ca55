// Package chargers finds charging stations through the Overpass (OSM) API.
package chargers

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

const defaultBaseURL = "https://overpass-api.de"

// Overpass queries OSM charging_station nodes around a point.
type Overpass struct {
	client  *http.Client
	baseURL string
}

// Option configures the client.
type Option func(*Overpass)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option { return func(o *Overpass) { o.baseURL = u } }

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(o *Overpass) { o.client = c } }

// New creates an Overpass client.
func New(opts ...Option) *Overpass {
	o := &Overpass{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type overpassResponse struct {
	Elements []struct {
		Lat  float64           `json:"lat"`
		Lon  float64           `json:"lon"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// Nearby lists charging stations within radiusKm of the point.
func (o *Overpass) Nearby(ctx context.Context, at model.Coordinates, radiusKm float64) ([]model.ChargingStation, error) {
	query := fmt.Sprintf(`[out:json];node["amenity"="charging_station"](around:%d,%f,%f);out;`,
		int(radiusKm*1000), at.Lat, at.Lon)

	form := url.Values{}
	form.Set("data", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/interpreter", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass status %d", resp.StatusCode)
	}

	var body overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("overpass decode: %w", err)
	}

	stations := make([]model.ChargingStation, 0, len(body.Elements))
	for _, e := range body.Elements {
		name := e.Tags["name"]
		if name == "" {
			name = "Charging Station"
		}
		stations = append(stations, model.ChargingStation{
			Name:     name,
			Lat:      e.Lat,
			Lon:      e.Lon,
			Operator: e.Tags["operator"],
		})
	}
	return stations, nil
}
