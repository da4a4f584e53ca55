// Package mqtt subscribes to live vehicle telemetry over MQTT. Vehicles (or
// their telematics gateways) publish state-of-charge updates which feed the
// per-user session store, so a plan recomputation starts from the real SoC.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/evtrip/planner/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker         string `json:"broker"`
	ClientID       string `json:"client_id"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	TelemetryTopic string `json:"telemetry_topic"` // e.g. "ev/+/soc"
	QoS            byte   `json:"qos"`
	ConnectTimeout int    `json:"connect_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TelemetryTopic == "" {
		c.TelemetryTopic = "ev/+/soc"
	}
	if c.ClientID == "" {
		c.ClientID = "ev-planner"
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10
	}
}

// SoCHandler receives a user id and a state of charge in [0,1].
type SoCHandler func(userID string, soc float64)

// pahoClient is the subset of the Paho API the subscriber uses.
type pahoClient interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// TelemetrySubscriber forwards SoC updates from the broker to a handler.
type TelemetrySubscriber struct {
	cli     pahoClient
	topic   string
	qos     byte
	handler SoCHandler
	log     logger.Logger
	timeout time.Duration
}

// NewTelemetrySubscriber connects to the broker and subscribes to the
// telemetry topic.
func NewTelemetrySubscriber(cfg Config, handler SoCHandler) (*TelemetrySubscriber, error) {
	cfg.SetDefaults()
	if cfg.Broker == "" {
		return nil, fmt.Errorf("broker is required")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true)

	sub := &TelemetrySubscriber{
		cli:     newMQTTClient(opts),
		topic:   cfg.TelemetryTopic,
		qos:     cfg.QoS,
		handler: handler,
		log:     logger.New("mqtt-telemetry"),
		timeout: time.Duration(cfg.ConnectTimeout) * time.Second,
	}

	tok := sub.cli.Connect()
	if !tok.WaitTimeout(sub.timeout) {
		return nil, fmt.Errorf("mqtt connect timeout")
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	stok := sub.cli.Subscribe(sub.topic, sub.qos, sub.onMessage)
	if !stok.WaitTimeout(sub.timeout) {
		return nil, fmt.Errorf("mqtt subscribe timeout")
	}
	if err := stok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt subscribe: %w", err)
	}
	return sub, nil
}

func (s *TelemetrySubscriber) onMessage(_ paho.Client, msg paho.Message) {
	id, ok := userFromTopic(msg.Topic())
	if !ok {
		s.log.Warnf("telemetry on unexpected topic %q", msg.Topic())
		return
	}
	soc, err := parseSoC(msg.Payload())
	if err != nil {
		s.log.Warnf("telemetry payload on %q: %v", msg.Topic(), err)
		return
	}
	s.handler(id, soc)
}

// Close disconnects from the broker.
func (s *TelemetrySubscriber) Close() {
	s.cli.Disconnect(250)
}

// userFromTopic extracts the id segment from "ev/<id>/soc".
func userFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// parseSoC accepts either a bare number or a {"soc": x} JSON object. Values
// above 1 are interpreted as percentages.
func parseSoC(payload []byte) (float64, error) {
	var soc float64
	if v, err := strconv.ParseFloat(strings.TrimSpace(string(payload)), 64); err == nil {
		soc = v
	} else {
		var body struct {
			SoC *float64 `json:"soc"`
		}
		if err := json.Unmarshal(payload, &body); err != nil || body.SoC == nil {
			return 0, fmt.Errorf("unparseable soc payload %q", payload)
		}
		soc = *body.SoC
	}
	if soc > 1 {
		soc /= 100
	}
	if soc < 0 || soc > 1 {
		return 0, fmt.Errorf("soc %v out of range", soc)
	}
	return soc, nil
}
