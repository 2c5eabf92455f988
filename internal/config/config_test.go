package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Generator.Width != 80 || cfg.Generator.Height != 50 {
		t.Errorf("size = %dx%d, want 80x50", cfg.Generator.Width, cfg.Generator.Height)
	}
	if cfg.Generator.Depth != 1 {
		t.Errorf("Depth = %d, want 1", cfg.Generator.Depth)
	}
	if cfg.Generator.History.Enabled {
		t.Error("history should be disabled by default")
	}
	if cfg.Generator.History.Capacity != 200 {
		t.Errorf("History.Capacity = %d, want 200", cfg.Generator.History.Capacity)
	}
	if cfg.Generator.WFC.MaxRetries != 50 {
		t.Errorf("WFC.MaxRetries = %d, want 50", cfg.Generator.WFC.MaxRetries)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry should be disabled by default")
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/delvegen.yaml")
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}
	if cfg.Generator.Width != 80 {
		t.Errorf("Width = %d, want default 80", cfg.Generator.Width)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "delvegen.yaml")
	content := `
generator:
  width: 100
  seed: 1234
  history:
    enabled: true
  wfc:
    max_retries: 5
  max_vault_scan: 400
logging:
  level: DEBUG
database:
  driver: postgres
  postgres:
    host: db.internal
    conn_max_lifetime: 90s
telemetry:
  enabled: true
  endpoint: collector:4318
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"width", cfg.Generator.Width, 100},
		{"height keeps default", cfg.Generator.Height, 50},
		{"seed", cfg.Generator.Seed, int64(1234)},
		{"history enabled", cfg.Generator.History.Enabled, true},
		{"history capacity keeps default", cfg.Generator.History.Capacity, 200},
		{"max retries", cfg.Generator.WFC.MaxRetries, 5},
		{"max vault scan", cfg.Generator.MaxVaultScan, 400},
		{"log level", cfg.Logging.Level, "DEBUG"},
		{"driver", cfg.Database.Driver, "postgres"},
		{"postgres host", cfg.Database.Postgres.Host, "db.internal"},
		{"postgres port keeps default", cfg.Database.Postgres.Port, 5432},
		{"conn max lifetime", cfg.Database.Postgres.ConnMaxLifetime, 90 * time.Second},
		{"telemetry endpoint", cfg.Telemetry.Endpoint, "collector:4318"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("generator: [not: valid"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
	if cfg == nil || cfg.Generator.Width != 80 {
		t.Error("expected default config alongside the error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DELVE_SEED", "77")
	t.Setenv("DELVE_DEPTH", "4")
	t.Setenv("DELVE_WIDTH", "60")
	t.Setenv("DELVE_HEIGHT", "not-a-number")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	t.Setenv("LOG_LEVEL", "WARN")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Generator.Seed != 77 {
		t.Errorf("Seed = %d, want 77", cfg.Generator.Seed)
	}
	if cfg.Generator.Depth != 4 {
		t.Errorf("Depth = %d, want 4", cfg.Generator.Depth)
	}
	if cfg.Generator.Width != 60 {
		t.Errorf("Width = %d, want 60", cfg.Generator.Width)
	}
	if cfg.Generator.Height != 50 {
		t.Errorf("Height = %d, want 50 (invalid value ignored)", cfg.Generator.Height)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Driver = %q, want postgres", cfg.Database.Driver)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Endpoint != "localhost:4318" {
		t.Errorf("Telemetry = %+v, want enabled at localhost:4318", cfg.Telemetry)
	}
	if cfg.Logging.Level != "WARN" {
		t.Errorf("Logging.Level = %q, want WARN", cfg.Logging.Level)
	}
}

func TestResolveSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Seed = 9
	if got := cfg.ResolveSeed(); got != 9 {
		t.Errorf("ResolveSeed() = %d, want 9", got)
	}

	cfg.Generator.Seed = 0
	seed := cfg.ResolveSeed()
	if seed == 0 {
		t.Error("ResolveSeed() should pick a non-zero seed")
	}
	if cfg.Generator.Seed != seed {
		t.Error("ResolveSeed() should store the chosen seed")
	}
}

func TestLevelOptions(t *testing.T) {
	cfg := DefaultConfig()
	opts := cfg.LevelOptions()
	if opts.HistoryCap != 0 {
		t.Errorf("HistoryCap = %d, want 0 with history disabled", opts.HistoryCap)
	}
	if opts.MaxRetries != 50 {
		t.Errorf("MaxRetries = %d, want 50", opts.MaxRetries)
	}

	cfg.Generator.History.Enabled = true
	cfg.Generator.MaxVaultScan = 10
	opts = cfg.LevelOptions()
	if opts.HistoryCap != 200 {
		t.Errorf("HistoryCap = %d, want 200", opts.HistoryCap)
	}
	if opts.MaxVaultScan != 10 {
		t.Errorf("MaxVaultScan = %d, want 10", opts.MaxVaultScan)
	}
}
