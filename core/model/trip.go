package model

import (
	"time"

	"github.com/evtrip/planner/core/energy"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Route is a driving route returned by the routing service.
type Route struct {
	DistanceKm float64       `json:"distance_km"`
	DurationH  float64       `json:"duration_h"`
	Geometry   []Coordinates `json:"geometry,omitempty"`
}

// AvgSpeedKmh derives the mean speed of the route, 0 when duration is unknown.
func (r Route) AvgSpeedKmh() float64 {
	if r.DurationH <= 0 {
		return 0
	}
	return r.DistanceKm / r.DurationH
}

// ChargingStation is a charger near the route, as reported by the lookup
// service.
type ChargingStation struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Operator string  `json:"operator,omitempty"`
}

// TripRequest is one trip-planning request.
type TripRequest struct {
	Start       string    `json:"start"`
	End         string    `json:"end"`
	Vehicle     Vehicle   `json:"vehicle"`
	DriveMode   DriveMode `json:"drive_mode"`
	SoCStart    float64   `json:"soc_start"` // fraction in [0,1]
	HVACOn      bool      `json:"hvac_on"`
	ReserveFrac float64   `json:"reserve_frac"`
}

// TripPlan is the computed plan handed back to the UI.
type TripPlan struct {
	ID          string            `json:"id"`
	Request     TripRequest       `json:"request"`
	StartCoords Coordinates       `json:"start_coords"`
	EndCoords   Coordinates       `json:"end_coords"`
	Route       Route             `json:"route"`
	AscentM     float64           `json:"ascent_m"`
	// CongestionFactor is the traffic reading used for the estimate, nil
	// when the source was unavailable.
	CongestionFactor *float64          `json:"congestion_factor,omitempty"`
	Estimate         energy.Estimate   `json:"estimate"`
	Chargers         []ChargingStation `json:"chargers,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// BatteryUsedPct returns the adjusted consumption as a share of usable
// capacity, in percent.
func (p TripPlan) BatteryUsedPct() float64 {
	if p.Request.Vehicle.UsableKWh <= 0 {
		return 0
	}
	return p.Estimate.AdjustedKWh / p.Request.Vehicle.UsableKWh * 100
}

// SoCEnd projects the state of charge at arrival, clamped at 0.
func (p TripPlan) SoCEnd() float64 {
	if p.Request.Vehicle.UsableKWh <= 0 {
		return 0
	}
	end := p.Request.SoCStart - p.Estimate.AdjustedKWh/p.Request.Vehicle.UsableKWh
	if end < 0 {
		end = 0
	}
	return end
}

// NeedsCharging reports whether the trip exceeds the energy on board at
// departure.
func (p TripPlan) NeedsCharging() bool {
	return p.Estimate.AdjustedKWh > p.Request.Vehicle.AvailableKWh(p.Request.SoCStart)
}
