package influxdb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/oxsim-core/internal/infrastructure/config"
	"github.com/nerrad567/oxsim-core/internal/infrastructure/influxdb"
)

// testConfig targets a local dev InfluxDB. Tests that need it skip when it
// is not running.
func testConfig() config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           "http://127.0.0.1:8086",
		Token:         "oxsim-dev-token",
		Org:           "oxsim",
		Bucket:        "rig",
		BatchSize:     50,
		FlushInterval: 1,
	}
}

func connectOrSkip(t *testing.T) *influxdb.Client {
	t.Helper()
	client, err := influxdb.Connect(testConfig())
	if err != nil {
		t.Skipf("InfluxDB not available: %v", err)
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // Test cleanup
	return client
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	_, err := influxdb.Connect(cfg)
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	cfg := testConfig()
	cfg.URL = "http://127.0.0.1:19997"

	_, err := influxdb.Connect(cfg)
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestZeroClient(t *testing.T) {
	var c influxdb.Client

	if c.IsConnected() {
		t.Error("IsConnected() = true on zero client")
	}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
	// Writes and flushes on a closed client are dropped, not panics.
	c.WritePoint(write.NewPoint("device_pose", nil, map[string]any{"px": 1.0}, time.Now()))
	c.WritePoint(nil)
	c.Flush()
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// =============================================================================
// Server Tests
// =============================================================================

func TestHealthCheck(t *testing.T) {
	client := connectOrSkip(t)

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestWriteAndClose(t *testing.T) {
	client := connectOrSkip(t)

	writeErrs := make(chan error, 8)
	client.SetOnError(func(err error) {
		select {
		case writeErrs <- err:
		default:
		}
	})

	client.WritePoint(write.NewPoint("device_pose",
		map[string]string{"device": "/user/head", "profile": "oculus_quest_2"},
		map[string]any{"px": 0.0, "py": 1.6, "pz": 0.0, "active": true},
		time.Now()))
	client.WritePoint(write.NewPoint("input_state",
		map[string]string{"device": "/user/hand/right", "component": "/input/trigger/value"},
		map[string]any{"value": 0.5},
		time.Now()))
	client.Flush()

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close")
	}
	select {
	case err := <-writeErrs:
		if !errors.Is(err, influxdb.ErrWriteFailed) {
			t.Errorf("write error = %v, want ErrWriteFailed", err)
		}
	default:
	}
}
