package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Level != "INFO" {
		t.Errorf("Default level = %q, want %q", config.Level, "INFO")
	}
	if !config.ConsoleEnabled {
		t.Error("Default ConsoleEnabled = false, want true")
	}
	if config.FileEnabled {
		t.Error("Default FileEnabled = true, want false")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("LOG_CONSOLE_FORMAT", "json")
	t.Setenv("LOG_FILE_ENABLED", "true")
	t.Setenv("LOG_FILE_PATH", "/custom/path.log")

	config := DefaultConfig()
	config.ApplyEnv()

	if config.Level != "ERROR" {
		t.Errorf("Level = %q, want %q", config.Level, "ERROR")
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want %q", config.ConsoleFormat, "json")
	}
	if !config.FileEnabled {
		t.Error("FileEnabled = false, want true")
	}
	if config.FilePath != "/custom/path.log" {
		t.Errorf("FilePath = %q, want %q", config.FilePath, "/custom/path.log")
	}
}

func TestInitializeWithJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.ConsoleFormat = "json"
	config.Output = &buf
	if err := Initialize(config); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer func() { logger = nil }()

	Info("chain built", "rooms", 7)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "chain built" {
		t.Errorf("msg = %v, want %q", record["msg"], "chain built")
	}
	if record["rooms"] != float64(7) {
		t.Errorf("rooms = %v, want 7", record["rooms"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Level = "WARN"
	config.Output = &buf
	if err := Initialize(config); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer func() { logger = nil }()

	Debug("hidden debug")
	Infof("hidden %s", "info")
	Warningf("shown %d", 1)
	Always("audit")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("records below WARN should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown 1") {
		t.Errorf("warning missing from output: %q", out)
	}
	if !strings.Contains(out, "ALWAYS") {
		t.Errorf("always record should carry the ALWAYS level: %q", out)
	}
}

func TestMultiHandler(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "gen.log")

	config := DefaultConfig()
	config.Output = &console
	config.FileEnabled = true
	config.FilePath = path
	if err := Initialize(config); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer func() { logger = nil }()

	Error("both sinks")

	if !strings.Contains(console.String(), "both sinks") {
		t.Error("console sink missed the record")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "both sinks") {
		t.Error("file sink missed the record")
	}
}

func TestFileEnabledWithoutPath(t *testing.T) {
	config := DefaultConfig()
	config.FileEnabled = true
	config.FilePath = ""
	if err := Initialize(config); err == nil {
		t.Error("Initialize should reject file output without a path")
	}
}

func TestUninitializedLoggerFallsBack(t *testing.T) {
	logger = nil
	if Logger() == nil {
		t.Fatal("Logger() should never return nil")
	}
	Info("no panic before Initialize")
}
