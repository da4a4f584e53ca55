package plan

import (
	"context"

	"github.com/evtrip/planner/core/model"
)

// Geocoder resolves a free-text place name into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (model.Coordinates, error)
}

// Router fetches a driving route between two points.
type Router interface {
	Route(ctx context.Context, start, end model.Coordinates) (model.Route, error)
}

// ElevationSource samples altitude along the route geometry and returns the
// cumulative elevation gain in meters. It feeds the base formula's ascent term.
type ElevationSource interface {
	Gain(ctx context.Context, geometry []model.Coordinates) (float64, error)
}

// TerrainSource samples a coarse straight-line profile between the endpoints.
// It feeds the adjustment layer's elevation factor and is deliberately kept
// separate from ElevationSource: the two readings come from different
// samplings and may disagree.
type TerrainSource interface {
	ProfileGain(ctx context.Context, start, end model.Coordinates) (float64, error)
}

// Weather is a current-conditions snapshot at a point.
type Weather struct {
	TemperatureC float64
	WindSpeedKmh float64
	HumidityPct  float64
}

// WeatherSource reports current conditions at a point.
type WeatherSource interface {
	Current(ctx context.Context, at model.Coordinates) (Weather, error)
}

// TrafficSource reports the congestion factor for a trip, in [0,1].
type TrafficSource interface {
	Congestion(ctx context.Context, start, end model.Coordinates) (float64, error)
}

// ChargerFinder lists charging stations around a point.
type ChargerFinder interface {
	Nearby(ctx context.Context, at model.Coordinates, radiusKm float64) ([]model.ChargingStation, error)
}
