package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nerrad567/oxsim-core/internal/infrastructure/config"
)

// ServiceName is attached to every log entry.
const ServiceName = "oxsim"

// Log file permissions. Log lines may carry broker host names and device paths.
const (
	logDirPerm  = 0o750
	logFilePerm = 0o600
)

// Logger embeds *slog.Logger and adds the oxsim default fields.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing to stdout or stderr per cfg.Output. Any other
// output value is treated as stdout; use Open for log files.
//
// Parameters:
//   - cfg: Logging configuration from oxsim.yaml
//   - version: Application version for default field
//
// Returns:
//   - *Logger: Configured logger ready for use
func New(cfg config.LoggingConfig, version string) *Logger {
	if strings.EqualFold(cfg.Output, "stderr") {
		return NewWithWriter(cfg, version, os.Stderr)
	}
	return NewWithWriter(cfg, version, os.Stdout)
}

// Open is New plus file destinations: an output other than stdout or stderr
// is a path, opened for append and created with its directory if missing.
//
// Returns:
//   - *Logger: Configured logger
//   - func() error: Closes the log file; a no-op for stdout and stderr
//   - error: If the log file cannot be opened
func Open(cfg config.LoggingConfig, version string) (*Logger, func() error, error) {
	switch strings.ToLower(cfg.Output) {
	case "", "stdout", "stderr":
		return New(cfg, version), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Output), logDirPerm); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return NewWithWriter(cfg, version, f), f.Close, nil
}

// NewWithWriter is New with an explicit destination. Tests use it to capture
// output.
func NewWithWriter(cfg config.LoggingConfig, version string, output io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", ServiceName),
		slog.String("version", version),
	})
	return &Logger{Logger: slog.New(handler)}
}

// parseLevel converts a string log level to slog.Level.
// Defaults to info if unrecognised.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a new Logger with additional default attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// Component tags every entry with component=name.
//
// Example:
//
//	bridgeLog := logger.Component("bridge")
//	bridgeLog.Info("subscribed") // Includes component=bridge
func (l *Logger) Component(name string) *Logger {
	return l.With("component", name)
}

// Default creates a logger for use before configuration is loaded:
// JSON on stderr at info level.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	}, "dev")
}
