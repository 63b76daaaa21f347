// oxsim - OpenXR Device Simulator
//
// This is the main entry point for the oxsim simulator. It boots a simulated
// XR rig (head-mounted display, controllers and trackers) from a device
// profile and exposes it over:
//   - MQTT, for test harnesses that drive poses and inputs remotely
//   - InfluxDB, for recording pose and input telemetry
//   - An interactive console, for driving the rig by hand
//
// Rig state survives restarts through snapshots stored in SQLite.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	_ "github.com/nerrad567/oxsim-core/migrations"

	"github.com/nerrad567/oxsim-core/internal/bridge"
	"github.com/nerrad567/oxsim-core/internal/console"
	"github.com/nerrad567/oxsim-core/internal/device"
	"github.com/nerrad567/oxsim-core/internal/infrastructure/config"
	"github.com/nerrad567/oxsim-core/internal/infrastructure/database"
	"github.com/nerrad567/oxsim-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/oxsim-core/internal/infrastructure/logging"
	"github.com/nerrad567/oxsim-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/oxsim-core/internal/profile"
	"github.com/nerrad567/oxsim-core/internal/snapshot"
	"github.com/nerrad567/oxsim-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/oxsim.yaml"

// shutdownTimeout bounds the work done after the shutdown signal.
const shutdownTimeout = 5 * time.Second

// options holds the command-line flags. Flags override the config file.
type options struct {
	configPath  string
	device      string
	interactive bool
	migrateDown bool
	version     bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if opts.version {
		fmt.Printf("oxsim %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags parses args into options.
//
// Returns:
//   - options: Parsed flags; configPath defaults to $OXSIM_CONFIG or configs/oxsim.yaml
//   - error: pflag.ErrHelp for -h, or a parse error
func parseFlags(args []string) (options, error) {
	var opts options
	flags := pflag.NewFlagSet("oxsim", pflag.ContinueOnError)
	flags.StringVarP(&opts.configPath, "config", "c", getConfigPath(), "path to the YAML configuration file")
	flags.StringVarP(&opts.device, "device", "d", "", "device profile to simulate (overrides simulator.device)")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "start the interactive console")
	flags.BoolVar(&opts.migrateDown, "migrate-down", false, "roll back the latest database migration and exit")
	flags.BoolVar(&opts.version, "version", false, "print version information and exit")
	if err := flags.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - opts: Parsed command-line flags
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, opts options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bootLog := logging.Default()
	bootLog.Info("starting oxsim", "version", version, "commit", commit, "date", date)

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The console owns stdout in interactive mode.
	interactive := cfg.Simulator.Mode == config.ModeInteractive
	if interactive && (cfg.Logging.Output == "" || strings.EqualFold(cfg.Logging.Output, "stdout")) {
		cfg.Logging.Output = "stderr"
	}
	log, closeLog, err := logging.Open(cfg.Logging, version)
	if err != nil {
		return fmt.Errorf("opening log output: %w", err)
	}
	defer func() {
		if closeErr := closeLog(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "closing log output: %v\n", closeErr)
		}
	}()
	log.Info("configuration loaded",
		"device", cfg.Simulator.Device,
		"mode", cfg.Simulator.Mode,
		"mqtt", cfg.MQTT.Enabled,
		"influxdb", cfg.InfluxDB.Enabled,
	)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	if opts.migrateDown {
		return migrateDown(ctx, db, log)
	}
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	store := snapshot.NewSQLiteRepository(db.DB)
	if retention := cfg.SnapshotRetention(); retention > 0 {
		pruned, pruneErr := store.Prune(ctx, time.Now().Add(-retention))
		if pruneErr != nil {
			log.Warn("pruning snapshots failed", "error", pruneErr)
		} else if pruned > 0 {
			log.Info("pruned old snapshots", "count", pruned)
		}
	}

	engine := device.NewEngine()
	engine.SetLogger(log.Component("engine"))
	if err := engine.Initialize(selectProfile(cfg.Simulator.Device, log)); err != nil {
		return fmt.Errorf("initialising device engine: %w", err)
	}
	defer func() {
		log.Info("shutting down device engine")
		engine.Shutdown()
	}()

	if cfg.Simulator.RestoreOnStart {
		restoreLatest(ctx, engine, store, log)
	}

	// Workers use the MQTT and InfluxDB clients, so every client close
	// stops them first.
	var wg sync.WaitGroup
	stopWorkers := func() {
		cancel()
		wg.Wait()
	}
	defer stopWorkers()

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		var b *bridge.Bridge
		mqttClient, b, err = startBridge(ctx, cfg, engine, &wg, log)
		if err != nil {
			return err
		}
		defer func() {
			stopWorkers()
			if stopErr := b.Stop(); stopErr != nil {
				log.Warn("error stopping MQTT bridge", "error", stopErr)
			}
			log.Info("closing MQTT connection")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
	} else {
		log.Info("MQTT bridge disabled")
	}

	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = startRecorder(ctx, cfg, engine, &wg, log)
		if err != nil {
			return err
		}
		defer func() {
			stopWorkers()
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
	} else {
		log.Info("InfluxDB telemetry disabled")
	}

	subsystems := statusChecks(cfg, db, mqttClient, influxClient)
	if err := healthCheck(ctx, subsystems); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete", "profile", engine.Profile().Name)

	if interactive {
		c := console.New(engine, store, os.Stdout)
		for _, sub := range subsystems {
			c.AddStatus(sub.name, sub.check)
		}
		if err := c.Run(ctx, cancel); err != nil {
			log.Error("console stopped", "error", err)
		}
		cancel()
	}

	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	if cfg.Simulator.SnapshotOnShutdown {
		saveShutdownSnapshot(engine, store, log)
	}

	log.Info("oxsim stopped")
	return nil
}

func getConfigPath() string {
	if path := os.Getenv("OXSIM_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadConfig loads the config file and applies flag overrides. A missing
// file at the default path is not an error: defaults and environment apply.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if errors.Is(err, fs.ErrNotExist) && opts.configPath == defaultConfigPath {
		cfg, err = config.Load("")
	}
	if err != nil {
		return nil, err
	}

	if opts.device != "" {
		cfg.Simulator.Device = opts.device
	}
	if opts.interactive {
		cfg.Simulator.Mode = config.ModeInteractive
	}
	return cfg, nil
}

// selectProfile resolves name, falling back to the default profile.
func selectProfile(name string, log *logging.Logger) *profile.Profile {
	if p, ok := profile.ByName(name); ok {
		return p
	}
	p := profile.Default()
	log.Warn("unknown device profile, using default",
		"requested", name,
		"profile", p.Name,
		"available", profile.Names(),
	)
	return p
}

func restoreLatest(ctx context.Context, engine *device.Engine, store snapshot.Repository, log *logging.Logger) {
	latest, err := store.Latest(ctx)
	if errors.Is(err, snapshot.ErrSnapshotNotFound) {
		log.Info("no snapshot to restore")
		return
	}
	if err != nil {
		log.Warn("loading latest snapshot failed", "error", err)
		return
	}
	if err := snapshot.Restore(engine, latest); err != nil {
		log.Warn("restoring snapshot failed", "id", latest.ID, "error", err)
		return
	}
	log.Info("restored snapshot", "id", latest.ID, "profile", latest.Profile, "label", latest.Label)
}

func saveShutdownSnapshot(engine *device.Engine, store snapshot.Repository, log *logging.Logger) {
	s, err := snapshot.Capture(engine, "shutdown")
	if err != nil {
		log.Warn("capturing shutdown snapshot failed", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := store.Save(ctx, s); err != nil {
		log.Error("saving shutdown snapshot failed", "error", err)
		return
	}
	log.Info("saved shutdown snapshot", "id", s.ID)
}

// startBridge connects to the broker and runs the MQTT bridge until ctx is done.
func startBridge(ctx context.Context, cfg *config.Config, engine *device.Engine, wg *sync.WaitGroup, log *logging.Logger) (*mqtt.Client, *bridge.Bridge, error) {
	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log.Component("mqtt"))
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", client.ClientID(),
	)

	b, err := bridge.New(bridge.Options{
		Client:   client,
		Rig:      engine,
		QoS:      byte(cfg.MQTT.QoS), //nolint:gosec // validated to 0-2 by config
		Interval: cfg.PublishInterval(),
		Logger:   log.Component("bridge"),
	})
	if err == nil {
		err = b.Start()
	}
	if err != nil {
		if closeErr := client.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
		return nil, nil, fmt.Errorf("starting MQTT bridge: %w", err)
	}

	// Retained state may have been lost with the broker; publish everything again.
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected, resyncing rig state")
		b.Resync()
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		if runErr := b.Run(ctx); runErr != nil {
			log.Error("MQTT bridge stopped", "error", runErr)
		}
	}()
	return client, b, nil
}

// startRecorder connects to InfluxDB and samples the rig until ctx is done.
func startRecorder(ctx context.Context, cfg *config.Config, engine *device.Engine, wg *sync.WaitGroup, log *logging.Logger) (*influxdb.Client, error) {
	client, err := influxdb.Connect(cfg.InfluxDB)
	if err != nil {
		return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	client.SetOnError(func(err error) {
		log.Error("InfluxDB write error", "error", err)
	})
	log.Info("InfluxDB connected",
		"url", cfg.InfluxDB.URL,
		"org", cfg.InfluxDB.Org,
		"bucket", cfg.InfluxDB.Bucket,
	)

	recorder := telemetry.NewRecorder(engine, client, cfg.RecordInterval())
	recorder.SetLogger(log.Component("telemetry"))

	wg.Add(1)
	go func() {
		defer wg.Done()
		if runErr := recorder.Run(ctx); runErr != nil {
			log.Error("telemetry recorder stopped", "error", runErr)
		}
	}()
	return client, nil
}

// subsystem is one health-checked service. check backs both the startup
// health check and the console status command.
type subsystem struct {
	name  string
	check console.StatusFunc
}

// statusChecks lists the database and whichever clients are connected.
func statusChecks(cfg *config.Config, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) []subsystem {
	subs := []subsystem{{
		name: "database",
		check: func(ctx context.Context) (string, error) {
			if err := db.HealthCheck(ctx); err != nil {
				return "", err
			}
			applied, pending, err := db.GetMigrationStatus(ctx)
			if err != nil {
				return "", err
			}
			if len(pending) > 0 {
				return "", fmt.Errorf("%d migrations pending", len(pending))
			}
			return fmt.Sprintf("%s, %d migrations applied", db.Path(), len(applied)), nil
		},
	}}

	if mqttClient != nil {
		subs = append(subs, subsystem{
			name: "mqtt",
			check: func(ctx context.Context) (string, error) {
				if err := mqttClient.HealthCheck(ctx); err != nil {
					return "", err
				}
				commands := mqtt.Topics{}.AllCommands()
				if !mqttClient.HasSubscription(commands) {
					return "", fmt.Errorf("not subscribed to %s", commands)
				}
				return mqttClient.ClientID(), nil
			},
		})
	}

	if influxClient != nil {
		subs = append(subs, subsystem{
			name: "influxdb",
			check: func(ctx context.Context) (string, error) {
				if err := influxClient.HealthCheck(ctx); err != nil {
					return "", err
				}
				return cfg.InfluxDB.URL + " bucket " + cfg.InfluxDB.Bucket, nil
			},
		})
	}
	return subs
}

func healthCheck(ctx context.Context, subs []subsystem) error {
	for _, sub := range subs {
		if _, err := sub.check(ctx); err != nil {
			return fmt.Errorf("%s: %w", sub.name, err)
		}
	}
	return nil
}

// migrateDown rolls back the latest migration and reports what remains.
func migrateDown(ctx context.Context, db *database.DB, log *logging.Logger) error {
	if err := db.MigrateDown(ctx); err != nil {
		return fmt.Errorf("rolling back migration: %w", err)
	}
	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("reading migration status: %w", err)
	}
	log.Info("migration rolled back", "applied", len(applied), "pending", len(pending))
	return nil
}
