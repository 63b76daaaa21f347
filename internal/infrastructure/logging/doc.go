// Package logging provides structured logging for oxsim.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the simulator.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, or a file path
//
// The interactive console owns stdout, so oxsim moves stdout logging to
// stderr in interactive mode. A file path keeps the terminal clean entirely.
//
// # Usage
//
//	logger, closeLog, err := logging.Open(cfg.Logging, "1.0.0")
//	if err != nil {
//	    return err
//	}
//	defer closeLog()
//	logger.Component("engine").Info("rig initialized", "profile", "oculus_quest_2")
//
// *Logger satisfies the small Logger interfaces declared by the device,
// bridge, telemetry and mqtt packages.
//
// Never log broker passwords or InfluxDB tokens.
package logging
