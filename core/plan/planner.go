// Package plan orchestrates the external sources and the energy model into a
// full trip plan. Mandatory steps (geocoding, routing) fail the plan; every
// optional source degrades to an unavailable reading so an estimate is always
// produced.
package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/evtrip/planner/core/energy"
	"github.com/evtrip/planner/core/logger"
	"github.com/evtrip/planner/core/model"
)

// PlanComputed is published on the event bus after each successful plan.
type PlanComputed struct {
	Plan model.TripPlan
}

// SourceDegraded is published when an optional source fails and the plan
// proceeds without its reading.
type SourceDegraded struct {
	Source string
	Err    error
}

// Bus is the subset of the event bus the planner needs.
type Bus interface {
	Publish(any)
}

// Planner wires the external sources into the energy model.
type Planner struct {
	geocoder  Geocoder
	router    Router
	elevation ElevationSource
	terrain   TerrainSource
	weather   WeatherSource
	traffic   TrafficSource
	chargers  ChargerFinder
	bus       Bus
	log       logger.Logger

	// ChargerRadiusKm bounds the charger lookup around the destination.
	ChargerRadiusKm float64
}

// New creates a Planner. Geocoder and router are mandatory; the remaining
// sources may be nil and are then treated as permanently unavailable.
func New(g Geocoder, r Router, elev ElevationSource, terr TerrainSource, w WeatherSource, t TrafficSource, c ChargerFinder, bus Bus, log logger.Logger) (*Planner, error) {
	if g == nil || r == nil {
		return nil, fmt.Errorf("geocoder and router are required")
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Planner{
		geocoder:        g,
		router:          r,
		elevation:       elev,
		terrain:         terr,
		weather:         w,
		traffic:         t,
		chargers:        c,
		bus:             bus,
		log:             log,
		ChargerRadiusKm: 30,
	}, nil
}

// Plan computes a trip plan for the request.
func (p *Planner) Plan(ctx context.Context, req model.TripRequest) (model.TripPlan, error) {
	if err := req.Vehicle.Validate(); err != nil {
		return model.TripPlan{}, fmt.Errorf("vehicle: %w", err)
	}

	start, err := p.geocoder.Geocode(ctx, req.Start)
	if err != nil {
		return model.TripPlan{}, fmt.Errorf("geocode start %q: %w", req.Start, err)
	}
	end, err := p.geocoder.Geocode(ctx, req.End)
	if err != nil {
		return model.TripPlan{}, fmt.Errorf("geocode end %q: %w", req.End, err)
	}

	route, err := p.router.Route(ctx, start, end)
	if err != nil {
		return model.TripPlan{}, fmt.Errorf("route: %w", err)
	}

	ascentM, _ := p.readAscent(ctx, route.Geometry).Get()
	cond := p.readConditions(ctx, start, end)
	base := energy.EstimateBaseEnergy(energy.TripParameters{
		DistanceKm:    route.DistanceKm,
		AvgSpeedKmh:   route.AvgSpeedKmh(),
		AscentM:       ascentM,
		VehicleMassKg: req.Vehicle.MassKg,
		BaseWhPerKm:   req.Vehicle.BaseWhPerKm * req.DriveMode.Multiplier(),
		HVACOn:        req.HVACOn,
		ReserveFrac:   req.ReserveFrac,
	})

	tp := model.TripPlan{
		ID:          uuid.NewString(),
		Request:     req,
		StartCoords: start,
		EndCoords:   end,
		Route:       route,
		AscentM:     ascentM,
		Estimate:    energy.AdjustForConditions(base, cond),
		CreatedAt:   time.Now().UTC(),
	}
	if c, ok := cond.CongestionFactor.Get(); ok {
		tp.CongestionFactor = &c
	}

	if p.chargers != nil {
		stations, err := p.chargers.Nearby(ctx, end, p.ChargerRadiusKm)
		if err != nil {
			p.degrade("chargers", err)
		} else {
			tp.Chargers = stations
		}
	}

	if p.bus != nil {
		p.bus.Publish(PlanComputed{Plan: tp})
	}
	return tp, nil
}

// degrade records an optional-source failure without failing the plan.
func (p *Planner) degrade(source string, err error) {
	p.log.Warnf("%s source: %v", source, err)
	if p.bus != nil {
		p.bus.Publish(SourceDegraded{Source: source, Err: err})
	}
}

func (p *Planner) readAscent(ctx context.Context, geom []model.Coordinates) energy.Reading {
	if p.elevation == nil || len(geom) == 0 {
		return energy.Unavailable()
	}
	gain, err := p.elevation.Gain(ctx, geom)
	if err != nil {
		p.degrade("elevation", err)
		return energy.Unavailable()
	}
	return energy.Available(gain)
}

func (p *Planner) readConditions(ctx context.Context, start, end model.Coordinates) energy.Conditions {
	var cond energy.Conditions
	if p.terrain != nil {
		gain, err := p.terrain.ProfileGain(ctx, start, end)
		if err != nil {
			p.degrade("terrain", err)
		} else {
			cond.ElevationGainM = energy.Available(gain)
		}
	}
	if p.weather != nil {
		w, err := p.weather.Current(ctx, start)
		if err != nil {
			p.degrade("weather", err)
		} else {
			cond.TemperatureC = energy.Available(w.TemperatureC)
			cond.WindSpeedKmh = energy.Available(w.WindSpeedKmh)
			cond.HumidityPct = energy.Available(w.HumidityPct)
		}
	}
	if p.traffic != nil {
		c, err := p.traffic.Congestion(ctx, start, end)
		if err != nil {
			p.degrade("traffic", err)
		} else {
			cond.CongestionFactor = energy.Available(c)
		}
	}
	return cond
}

// nopLogger keeps a logger-less Planner safe to use.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
