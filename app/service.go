// Package app wires the configured sources, stores and sinks into a running
// service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apitrips "github.com/evtrip/planner/api/trips"
	apiusers "github.com/evtrip/planner/api/users"
	"github.com/evtrip/planner/config"
	coremetrics "github.com/evtrip/planner/core/metrics"
	"github.com/evtrip/planner/core/plan"
	"github.com/evtrip/planner/core/session"
	"github.com/evtrip/planner/infra/chargers"
	"github.com/evtrip/planner/infra/elevation"
	"github.com/evtrip/planner/infra/geocode"
	"github.com/evtrip/planner/infra/logger"
	"github.com/evtrip/planner/infra/metrics"
	"github.com/evtrip/planner/infra/mqtt"
	"github.com/evtrip/planner/infra/routing"
	"github.com/evtrip/planner/infra/store"
	"github.com/evtrip/planner/infra/traffic"
	"github.com/evtrip/planner/infra/weather"
	"github.com/evtrip/planner/internal/eventbus"
)

// Service holds the assembled application.
type Service struct {
	Planner  *plan.Planner
	Sessions session.Store

	cfg       *config.Config
	bus       *eventbus.Bus
	store     *store.SQLiteStore
	telemetry *mqtt.TelemetrySubscriber
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	bus := eventbus.New()
	sessions := session.NewMemoryStore()

	geocoder := newGeocoder(cfg.Sources)
	router := newRouter(cfg.Sources)

	var elev plan.ElevationSource
	var terr plan.TerrainSource
	if !cfg.Sources.ElevationOff {
		c := newElevation(cfg.Sources)
		elev, terr = c, c
	}
	var wsrc plan.WeatherSource
	if !cfg.Sources.WeatherOff {
		wsrc = newWeather(cfg.Sources)
	}
	var tsrc plan.TrafficSource
	if !cfg.Sources.TrafficOff {
		tsrc = traffic.New()
	}
	var csrc plan.ChargerFinder
	if !cfg.Sources.ChargersOff {
		csrc = newChargers(cfg.Sources)
	}

	planner, err := plan.New(geocoder, router, elev, terr, wsrc, tsrc, csrc, bus, logg)
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	planner.ChargerRadiusKm = cfg.Sources.ChargerRadiusKm

	svc := &Service{Planner: planner, Sessions: sessions, cfg: cfg, bus: bus, log: logg}

	if cfg.Store.Enabled {
		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		svc.store = db
	}

	if sink := buildSink(cfg.Metrics); sink != nil {
		metrics.StartEventCollector(bus, sink)
	}

	if cfg.MQTT.Enabled {
		sub, err := mqtt.NewTelemetrySubscriber(cfg.MQTT.Config, func(userID string, soc float64) {
			sessions.SetSoC(userID, soc)
		})
		if err != nil {
			return nil, fmt.Errorf("mqtt telemetry: %w", err)
		}
		svc.telemetry = sub
	}

	return svc, nil
}

func buildSink(cfg config.MetricsConfig) coremetrics.Sink {
	var sinks []coremetrics.Sink
	if cfg.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			logger.New("metrics").Errorf("prom sink: %v", err)
		} else {
			sinks = append(sinks, sink)
		}
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
	}
	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	default:
		return metrics.NewMultiSink(sinks...)
	}
}

func newGeocoder(cfg config.SourcesConfig) *geocode.Nominatim {
	var opts []geocode.Option
	if cfg.GeocodeURL != "" {
		opts = append(opts, geocode.WithBaseURL(cfg.GeocodeURL))
	}
	return geocode.New(cfg.GeocodeUserAgent, opts...)
}

func newRouter(cfg config.SourcesConfig) *routing.OSRM {
	var opts []routing.Option
	if cfg.RoutingURL != "" {
		opts = append(opts, routing.WithBaseURL(cfg.RoutingURL))
	}
	return routing.New(opts...)
}

func newElevation(cfg config.SourcesConfig) *elevation.Client {
	var opts []elevation.Option
	if cfg.ElevationURL != "" {
		opts = append(opts, elevation.WithBaseURL(cfg.ElevationURL))
	}
	return elevation.New(opts...)
}

func newWeather(cfg config.SourcesConfig) *weather.OpenMeteo {
	var opts []weather.Option
	if cfg.WeatherURL != "" {
		opts = append(opts, weather.WithBaseURL(cfg.WeatherURL))
	}
	return weather.New(opts...)
}

func newChargers(cfg config.SourcesConfig) *chargers.Overpass {
	var opts []chargers.Option
	if cfg.ChargersURL != "" {
		opts = append(opts, chargers.WithBaseURL(cfg.ChargersURL))
	}
	return chargers.New(opts...)
}

// Run serves the API until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	apitrips.NewHandler(s.Planner, s.Sessions, s.store, logger.New("api-trips")).Register(mux)
	if s.store != nil {
		apiusers.NewHandler(s.store, logger.New("api-users")).Register(mux)
	}

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Infof("listening on %s", s.cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.telemetry != nil {
		s.telemetry.Close()
	}
	s.bus.Close()
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
