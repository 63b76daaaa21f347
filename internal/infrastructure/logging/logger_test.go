package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nerrad567/oxsim-core/internal/infrastructure/config"
)

func TestNew_Formats(t *testing.T) {
	for _, cfg := range []config.LoggingConfig{
		{Level: "info", Format: "json", Output: "stdout"},
		{Level: "debug", Format: "text", Output: "stderr"},
	} {
		if logger := New(cfg, "1.0.0"); logger == nil {
			t.Fatalf("New(%+v) returned nil", cfg)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := parseLevel(tt.input); result != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNewWithWriter_DefaultFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, "test", &buf)

	logger.Info("rig initialized", "profile", "htc_vive")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if entry["service"] != ServiceName {
		t.Errorf("service = %v, want %s", entry["service"], ServiceName)
	}
	if entry["version"] != "test" {
		t.Errorf("version = %v, want test", entry["version"])
	}
	if entry["msg"] != "rig initialized" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["profile"] != "htc_vive" {
		t.Errorf("profile = %v", entry["profile"])
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LoggingConfig{Level: "warn", Format: "text"}, "test", &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info entry written at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn entry missing")
	}
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.LoggingConfig{Format: "json"}, "1.0.0", &buf)
	child := logger.Component("bridge")

	if child == logger {
		t.Fatal("expected child logger to be different from parent")
	}
	child.Info("connected")
	if !strings.Contains(buf.String(), `"component":"bridge"`) {
		t.Errorf("child output missing component: %s", buf.String())
	}
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("expected non-nil default logger")
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "oxsim.log")
	logger, closeLog, err := Open(config.LoggingConfig{Level: "info", Format: "json", Output: path}, "test")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	logger.Info("console started")
	if err := closeLog(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "console started") {
		t.Errorf("log file missing entry: %s", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != logFilePerm {
		t.Errorf("log file mode = %o, want %o", perm, logFilePerm)
	}
}

func TestOpen_Streams(t *testing.T) {
	for _, output := range []string{"", "stdout", "stderr", "STDERR"} {
		t.Run(output, func(t *testing.T) {
			logger, closeLog, err := Open(config.LoggingConfig{Output: output}, "test")
			if err != nil {
				t.Fatalf("Open(%q) error = %v", output, err)
			}
			if logger == nil {
				t.Fatal("Open() returned nil logger")
			}
			if err := closeLog(); err != nil {
				t.Errorf("close error = %v", err)
			}
		})
	}
}

func TestOpen_BadPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	// A regular file where the directory should be.
	if _, _, err := Open(config.LoggingConfig{Output: filepath.Join(blocker, "oxsim.log")}, "test"); err == nil {
		t.Error("Open() expected error for unusable path")
	}
}
