package report

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/muurk/mipow/internal/bulb"
	"github.com/muurk/mipow/internal/config"
	"github.com/muurk/mipow/internal/identity"
	"github.com/muurk/mipow/internal/logging"
)

// Connection constants
const (
	defaultConnectTimeout    = 10 * time.Second
	defaultPublishTimeout    = 5 * time.Second
	defaultDisconnectQuiesce = 250 // milliseconds
	defaultTopicPrefix       = "mipow"
	maxQoS                   = 2
)

// Publisher errors
var (
	ErrNoBroker         = errors.New("mqtt: no broker configured")
	ErrInvalidQoS       = errors.New("mqtt: qos must be 0, 1 or 2")
	ErrConnectionFailed = errors.New("mqtt: connection failed")
	ErrPublishFailed    = errors.New("mqtt: publish failed")
)

// mqttClient is the part of the paho client the publisher needs.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

// Publisher sends one retained-or-not JSON document per bulb to
// <prefix>/<address>/state.
type Publisher struct {
	client mqttClient
	prefix string
	qos    byte
	retain bool
}

func buildClientOptions(cfg *config.MQTT) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)

	clientID := cfg.ClientID
	if clientID == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "host"
		}
		clientID = "mipow-" + host
	}
	opts.SetClientID(clientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	// One-shot publisher: nothing to resume on the broker
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectTimeout(defaultConnectTimeout)
	return opts
}

// Connect opens a connection to the configured broker.
func Connect(cfg *config.MQTT) (*Publisher, error) {
	if cfg == nil || cfg.Broker == "" {
		return nil, ErrNoBroker
	}
	if cfg.QoS > maxQoS {
		return nil, ErrInvalidQoS
	}

	client := pahomqtt.NewClient(buildClientOptions(cfg))
	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	logging.Debug("Connected to MQTT broker", zap.String("broker", cfg.Broker))
	return newPublisher(client, cfg), nil
}

func newPublisher(client mqttClient, cfg *config.MQTT) *Publisher {
	prefix := strings.Trim(cfg.TopicPrefix, "/")
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	return &Publisher{client: client, prefix: prefix, qos: cfg.QoS, retain: cfg.Retain}
}

// Topic returns the state topic of a bulb, e.g. mipow/4c24986dace6/state.
func (p *Publisher) Topic(addr identity.Address) string {
	return p.prefix + "/" + strings.ToLower(strings.ReplaceAll(addr.String(), ":", "")) + "/state"
}

// Publish sends the JSON document of r.
func (p *Publisher) Publish(r bulb.DeviceReport) error {
	payload, err := MarshalDevice(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	topic := p.Topic(r.Address)
	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	logging.Device(r.Address.String()).Info("Published report", zap.String("topic", topic))
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(defaultDisconnectQuiesce)
}
