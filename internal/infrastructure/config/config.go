package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the oxsim simulator.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Simulator SimulatorConfig `yaml:"simulator"`
	Database  DatabaseConfig  `yaml:"database"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Simulator run modes.
const (
	ModeHeadless    = "headless"
	ModeInteractive = "interactive"
)

// SimulatorConfig selects the simulated hardware and the session behaviour.
type SimulatorConfig struct {
	// Device is the profile name, e.g. "oculus_quest_2".
	// Unknown names fall back to the default profile at startup.
	Device string `yaml:"device"`

	// Mode is "headless" or "interactive" (console on stdin).
	Mode string `yaml:"mode"`

	// RestoreOnStart re-applies the latest saved snapshot after startup.
	RestoreOnStart bool `yaml:"restore_on_start"`

	// SnapshotOnShutdown saves the rig state before exiting.
	SnapshotOnShutdown bool `yaml:"snapshot_on_shutdown"`

	// SnapshotRetentionDays prunes older snapshots at startup. 0 keeps all.
	SnapshotRetentionDays int `yaml:"snapshot_retention_days"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`

	// PublishIntervalMS is how often the bridge checks the rig for changes.
	PublishIntervalMS int `yaml:"publish_interval_ms"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// TelemetryConfig contains the pose recorder settings.
type TelemetryConfig struct {
	// RecordIntervalMS is how often every device is sampled into InfluxDB.
	RecordIntervalMS int `yaml:"record_interval_ms"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults), skipped when path is empty
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: OXSIM_SECTION_KEY
// For example: OXSIM_DATABASE_PATH, OXSIM_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file, or "" for defaults only
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails.
//     A missing file wraps fs.ErrNotExist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Simulator: SimulatorConfig{
			Device: "oculus_quest_2",
			Mode:   ModeHeadless,
		},
		Database: DatabaseConfig{
			Path:        "./data/oxsim.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "oxsim",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
			PublishIntervalMS: 100,
		},
		InfluxDB: InfluxDBConfig{
			URL:           "http://localhost:8086",
			Org:           "oxsim",
			Bucket:        "rig",
			BatchSize:     500,
			FlushInterval: 1,
		},
		Telemetry: TelemetryConfig{
			RecordIntervalMS: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: OXSIM_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Simulator
	if v := os.Getenv("OXSIM_DEVICE"); v != "" {
		cfg.Simulator.Device = v
	}
	if v := os.Getenv("OXSIM_MODE"); v != "" {
		cfg.Simulator.Mode = v
	}

	// Database
	if v := os.Getenv("OXSIM_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("OXSIM_MQTT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MQTT.Enabled = b
		}
	}
	if v := os.Getenv("OXSIM_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("OXSIM_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("OXSIM_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("OXSIM_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("OXSIM_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("OXSIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Simulator validation
	if c.Simulator.Device == "" {
		errs = append(errs, "simulator.device is required")
	}
	if c.Simulator.Mode != ModeHeadless && c.Simulator.Mode != ModeInteractive {
		errs = append(errs, "simulator.mode must be headless or interactive")
	}
	if c.Simulator.SnapshotRetentionDays < 0 {
		errs = append(errs, "simulator.snapshot_retention_days must not be negative")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
			errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
		}
		if c.MQTT.PublishIntervalMS <= 0 {
			errs = append(errs, "mqtt.publish_interval_ms must be positive")
		}
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.org and influxdb.bucket are required when influxdb is enabled")
		}
		if c.Telemetry.RecordIntervalMS <= 0 {
			errs = append(errs, "telemetry.record_interval_ms must be positive")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// PublishInterval returns the MQTT state poll interval as a Duration.
func (c *Config) PublishInterval() time.Duration {
	return time.Duration(c.MQTT.PublishIntervalMS) * time.Millisecond
}

// RecordInterval returns the telemetry sample interval as a Duration.
func (c *Config) RecordInterval() time.Duration {
	return time.Duration(c.Telemetry.RecordIntervalMS) * time.Millisecond
}

// SnapshotRetention returns how long snapshots are kept, or 0 to keep all.
func (c *Config) SnapshotRetention() time.Duration {
	return time.Duration(c.Simulator.SnapshotRetentionDays) * 24 * time.Hour
}
