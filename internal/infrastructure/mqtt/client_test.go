package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/oxsim-core/internal/infrastructure/config"
)

// testConfig points at a local Mosquitto. Tests that need it skip when it
// is not running.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "oxsim-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func connectOrSkip(t *testing.T) *Client {
	t.Helper()
	c, err := Connect(testConfig())
	if err != nil {
		t.Skipf("no MQTT broker at 127.0.0.1:1883: %v", err)
	}
	t.Cleanup(func() { c.Close() }) //nolint:errcheck // Test cleanup
	return c
}

// =============================================================================
// Offline Tests
// =============================================================================

func TestSessionClientID(t *testing.T) {
	a := sessionClientID("rig")
	b := sessionClientID("rig")

	if !strings.HasPrefix(a, "rig-") || len(a) != len("rig-")+clientIDSuffixLen {
		t.Errorf("sessionClientID() = %q", a)
	}
	if a == b {
		t.Error("sessionClientID() returned the same ID twice")
	}
	if got := sessionClientID(""); !strings.HasPrefix(got, "oxsim-") {
		t.Errorf("sessionClientID(\"\") = %q, want oxsim- prefix", got)
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.MQTTAuthConfig{Username: "sim", Password: "pw"}

	opts := buildClientOptions(cfg, "oxsim-abc")
	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://127.0.0.1:1883" {
		t.Errorf("Servers = %v", opts.Servers)
	}
	if opts.ClientID != "oxsim-abc" || opts.Username != "sim" || opts.Password != "pw" {
		t.Errorf("identity = %q %q %q", opts.ClientID, opts.Username, opts.Password)
	}
	if !opts.AutoReconnect || opts.MaxReconnectInterval != 5*time.Second {
		t.Errorf("reconnect = %v / %v", opts.AutoReconnect, opts.MaxReconnectInterval)
	}

	cfg.Broker.TLS = true
	opts = buildClientOptions(cfg, "oxsim-abc")
	if opts.Servers[0].Scheme != "ssl" || opts.TLSConfig == nil {
		t.Errorf("TLS options not applied: %v", opts.Servers[0])
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testConfig(), "oxsim-abc")
	configureLWT(opts, "oxsim-abc")

	if !opts.WillEnabled || opts.WillTopic != "oxsim/status" || !opts.WillRetained {
		t.Fatalf("will = %v %q retained=%v", opts.WillEnabled, opts.WillTopic, opts.WillRetained)
	}
	var msg statusMessage
	if err := json.Unmarshal(opts.WillPayload, &msg); err != nil {
		t.Fatalf("will payload: %v", err)
	}
	if msg.Status != "offline" || msg.ClientID != "oxsim-abc" || msg.Reason != "unexpected_disconnect" {
		t.Errorf("will payload = %+v", msg)
	}
}

func TestZeroClient(t *testing.T) {
	c := &Client{}

	if c.IsConnected() {
		t.Error("IsConnected() = true on zero client")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
	if err := c.Publish("oxsim/x", nil, 0, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
}

func TestValidation(t *testing.T) {
	c := &Client{}
	noop := func(string, []byte) error { return nil }

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"publish empty topic", c.Publish("", nil, 1, false), ErrInvalidTopic},
		{"publish bad qos", c.Publish("oxsim/x", nil, 3, false), ErrInvalidQoS},
		{"publish oversized", c.Publish("oxsim/x", make([]byte, maxPayloadSize+1), 0, false), ErrPublishFailed},
		{"subscribe empty topic", c.Subscribe("", 1, noop), ErrInvalidTopic},
		{"subscribe bad qos", c.Subscribe("oxsim/#", 7, noop), ErrInvalidQoS},
		{"subscribe nil handler", c.Subscribe("oxsim/#", 1, nil), ErrSubscribeFailed},
		{"unsubscribe empty topic", c.Unsubscribe(""), ErrInvalidTopic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("error = %v, want %v", tt.err, tt.want)
			}
		})
	}
}

func TestHealthCheckCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := (&Client{}).HealthCheck(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}

// =============================================================================
// Broker Tests
// =============================================================================

func TestConnect_BrokerRefused(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.Port = 19998

	_, err := Connect(cfg)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestBroker_PublishSubscribeRoundtrip(t *testing.T) {
	c := connectOrSkip(t)

	topic := Topics{}.DeviceState("/user/test/" + c.ClientID())
	received := make(chan []byte, 1)
	err := c.Subscribe(topic, 1, func(_ string, payload []byte) error {
		received <- payload
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if !c.HasSubscription(topic) {
		t.Error("HasSubscription() = false after Subscribe")
	}

	if err := c.PublishJSON(topic, map[string]bool{"active": true}, 1, false); err != nil {
		t.Fatalf("PublishJSON() error = %v", err)
	}

	select {
	case got := <-received:
		if string(got) != `{"active":true}` {
			t.Errorf("payload = %s", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("message not received")
	}

	if err := c.Unsubscribe(topic); err != nil {
		t.Errorf("Unsubscribe() error = %v", err)
	}
	if c.HasSubscription(topic) {
		t.Error("HasSubscription() = true after Unsubscribe")
	}
}

func TestBroker_HandlerPanicRecovered(t *testing.T) {
	c := connectOrSkip(t)

	topic := "oxsim/test/panic/" + c.ClientID()
	calls := make(chan struct{}, 2)
	err := c.Subscribe(topic, 1, func(string, []byte) error {
		calls <- struct{}{}
		panic("boom")
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := c.Publish(topic, []byte("x"), 1, false); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		select {
		case <-calls:
		case <-time.After(3 * time.Second):
			t.Fatal("handler not called; delivery stopped after panic")
		}
	}
}

func TestBroker_Close(t *testing.T) {
	c := connectOrSkip(t)

	if err := c.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after Close")
	}
}
