// Package weather reads current conditions from the Open-Meteo API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/evtrip/planner/core/model"
	"github.com/evtrip/planner/core/plan"
)

const defaultBaseURL = "https://api.open-meteo.com"

// OpenMeteo queries the forecast endpoint for current conditions. No API key
// is required.
type OpenMeteo struct {
	client  *http.Client
	baseURL string
}

// Option configures the client.
type Option func(*OpenMeteo)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option { return func(o *OpenMeteo) { o.baseURL = u } }

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(o *OpenMeteo) { o.client = c } }

// New creates an Open-Meteo client.
func New(opts ...Option) *OpenMeteo {
	o := &OpenMeteo{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// Current returns the conditions at the given point.
func (o *OpenMeteo) Current(ctx context.Context, at model.Coordinates) (plan.Weather, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(at.Lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,wind_speed_10m")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return plan.Weather{}, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return plan.Weather{}, fmt.Errorf("open-meteo request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return plan.Weather{}, fmt.Errorf("open-meteo status %d", resp.StatusCode)
	}

	var body forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return plan.Weather{}, fmt.Errorf("open-meteo decode: %w", err)
	}
	return plan.Weather{
		TemperatureC: body.Current.Temperature,
		WindSpeedKmh: body.Current.WindSpeed,
		HumidityPct:  body.Current.Humidity,
	}, nil
}
