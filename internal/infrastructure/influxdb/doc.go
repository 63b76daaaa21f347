// Package influxdb records simulator telemetry in InfluxDB v2.
//
// It wraps influxdb-client-go with a non-blocking, batched write API. The
// telemetry recorder samples the rig and writes one point per device pose
// and one per input component; this package only moves the points.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	client.SetOnError(func(err error) { log.Warn("telemetry write failed", "error", err) })
//
//	client.WritePoint(write.NewPoint("device_pose",
//	    map[string]string{"device": "/user/head"},
//	    map[string]any{"px": 0.0, "py": 1.6, "pz": 0.0},
//	    time.Now()))
//
// # Error Handling
//
// Connect and HealthCheck return errors directly. Write failures happen on a
// background goroutine and are reported through SetOnError.
package influxdb
