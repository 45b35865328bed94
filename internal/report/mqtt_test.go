package report

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/mipow/internal/bulb"
	"github.com/muurk/mipow/internal/config"
	"github.com/muurk/mipow/internal/protocol"
)

type fakeToken struct {
	completed bool
	err       error
}

func (t *fakeToken) Wait() bool                     { return t.completed }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.completed }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	token        *fakeToken
	messages     []published
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token {
	c.messages = append(c.messages, published{topic, qos, retained, payload.([]byte)})
	return c.token
}

func (c *fakeClient) Disconnect(uint) {
	c.disconnected = true
}

func TestPublishSendsReportJSON(t *testing.T) {
	client := &fakeClient{token: &fakeToken{completed: true}}
	p := newPublisher(client, &config.MQTT{TopicPrefix: "/home/bulbs/", QoS: 1, Retain: true})

	r := bulb.NewReport(testAddr)
	r.Color = bulb.Available(protocol.Color{Blue: 255})
	require.NoError(t, p.Publish(*r))
	p.Close()

	require.Len(t, client.messages, 1)
	msg := client.messages[0]
	assert.Equal(t, "home/bulbs/11223344ace6/state", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retained)
	assert.True(t, client.disconnected)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(msg.payload, &doc))
	assert.Equal(t, "11:22:33:44:AC:E6", doc["address"])
	assert.Equal(t, "WRGB(0,0,0,255)", doc["color"].(map[string]any)["color_str"])
}

func TestPublishDefaultTopicPrefix(t *testing.T) {
	p := newPublisher(&fakeClient{}, &config.MQTT{})
	assert.Equal(t, "mipow/11223344ace6/state", p.Topic(testAddr))
}

func TestPublishFailures(t *testing.T) {
	tests := []struct {
		name  string
		token *fakeToken
	}{
		{"timeout", &fakeToken{completed: false}},
		{"broker error", &fakeToken{completed: true, err: errors.New("not authorized")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPublisher(&fakeClient{token: tt.token}, &config.MQTT{})
			err := p.Publish(*bulb.NewReport(testAddr))
			assert.ErrorIs(t, err, ErrPublishFailed)
		})
	}
}

func TestConnectValidatesConfig(t *testing.T) {
	_, err := Connect(nil)
	assert.ErrorIs(t, err, ErrNoBroker)

	_, err = Connect(&config.MQTT{})
	assert.ErrorIs(t, err, ErrNoBroker)

	_, err = Connect(&config.MQTT{Broker: "tcp://localhost:1883", QoS: 3})
	assert.ErrorIs(t, err, ErrInvalidQoS)
}

func TestBuildClientOptions(t *testing.T) {
	opts := buildClientOptions(&config.MQTT{
		Broker:   "tcp://broker.local:1883",
		ClientID: "livingroom",
		Username: "mipow",
		Password: "s3cret",
	})
	require.Len(t, opts.Servers, 1)
	assert.Equal(t, "tcp://broker.local:1883", opts.Servers[0].String())
	assert.Equal(t, "livingroom", opts.ClientID)
	assert.Equal(t, "mipow", opts.Username)
	assert.Equal(t, "s3cret", opts.Password)
	assert.True(t, opts.CleanSession)
	assert.False(t, opts.AutoReconnect)

	opts = buildClientOptions(&config.MQTT{Broker: "tcp://broker.local:1883"})
	assert.True(t, strings.HasPrefix(opts.ClientID, "mipow-"))
	assert.Empty(t, opts.Username)
}
