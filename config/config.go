// Package config loads the service configuration from a YAML or JSON file
// with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/evtrip/planner/infra/mqtt"
)

type Config struct {
	Server  ServerConfig  `json:"server"`
	Sources SourcesConfig `json:"sources"`
	Store   StoreConfig   `json:"store"`
	MQTT    MQTTConfig    `json:"mqtt"`
	Metrics MetricsConfig `json:"metrics"`
}

// ServerConfig holds the API listener settings.
type ServerConfig struct {
	Addr string `json:"addr"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// SourcesConfig configures the external data sources. Optional sources can be
// disabled; geocoding and routing cannot.
type SourcesConfig struct {
	GeocodeUserAgent string  `json:"geocode_user_agent"`
	GeocodeURL       string  `json:"geocode_url"`
	RoutingURL       string  `json:"routing_url"`
	ElevationURL     string  `json:"elevation_url"`
	ElevationOff     bool    `json:"elevation_disabled"`
	WeatherURL       string  `json:"weather_url"`
	WeatherOff       bool    `json:"weather_disabled"`
	TrafficOff       bool    `json:"traffic_disabled"`
	ChargersURL      string  `json:"chargers_url"`
	ChargersOff      bool    `json:"chargers_disabled"`
	ChargerRadiusKm  float64 `json:"charger_radius_km"`
}

func (c *SourcesConfig) SetDefaults() {
	if c.GeocodeUserAgent == "" {
		c.GeocodeUserAgent = "ev-trip-planner"
	}
	if c.ChargerRadiusKm <= 0 {
		c.ChargerRadiusKm = 30
	}
}

// StoreConfig configures the user and trip-history database.
type StoreConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

func (c *StoreConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "planner.db"
	}
}

func (c StoreConfig) Validate() error {
	if c.Enabled && c.Path == "" {
		return fmt.Errorf("store path is required")
	}
	return nil
}

// MQTTConfig wraps the broker settings with an enable switch.
type MQTTConfig struct {
	Enabled     bool `json:"enabled"`
	mqtt.Config `json:",squash"`
}

func (c MQTTConfig) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	return nil
}

// MetricsConfig configures the metric sinks.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}

func (c MetricsConfig) Validate() error {
	if c.InfluxEnabled && c.InfluxURL == "" {
		return fmt.Errorf("influx url is required")
	}
	return nil
}

// Load reads the configuration at path.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. EV_SERVER__ADDR=:9000
	if err := k.Load(env.Provider("EV_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ev_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.SetDefaults()
	cfg.Sources.SetDefaults()
	cfg.Store.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
