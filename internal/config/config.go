package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/delvegen/internal/builder"
	"github.com/lawnchairsociety/delvegen/internal/database"
	"github.com/lawnchairsociety/delvegen/internal/logger"
	"github.com/lawnchairsociety/delvegen/internal/telemetry"
	"github.com/lawnchairsociety/delvegen/internal/wfc"
)

// Config holds every setting of a generation run.
type Config struct {
	Generator GeneratorConfig  `yaml:"generator"`
	Logging   logger.Config    `yaml:"logging"`
	Database  database.Config  `yaml:"database"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// GeneratorConfig holds map generation settings.
type GeneratorConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Seed of zero picks a time based seed at startup
	Seed  int64 `yaml:"seed"`
	Depth int   `yaml:"depth"`

	History HistoryConfig `yaml:"history"`
	WFC     WFCConfig     `yaml:"wfc"`

	// MaxVaultScan caps the room vault first-fit scan. 0 scans every tile.
	MaxVaultScan int `yaml:"max_vault_scan"`
}

// HistoryConfig controls snapshot recording for visualisation.
type HistoryConfig struct {
	Enabled  bool `yaml:"enabled"`
	Capacity int  `yaml:"capacity"`
}

// WFCConfig holds wave function collapse settings.
type WFCConfig struct {
	MaxRetries int `yaml:"max_retries"`
}

// DefaultConfig returns a Config with every value set.
func DefaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Width:  80,
			Height: 50,
			Depth:  1,
			History: HistoryConfig{
				Capacity: 200,
			},
			WFC: WFCConfig{
				MaxRetries: wfc.DefaultMaxRetries,
			},
		},
		Logging:   logger.DefaultConfig(),
		Database:  database.DefaultConfig("data/delvegen.db"),
		Telemetry: telemetry.DefaultConfig(),
	}
}

// LoadConfig loads configuration from a YAML file over the defaults.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// ApplyEnv overrides settings from environment variables. Unparseable
// numbers are ignored.
func (c *Config) ApplyEnv() {
	envInt64("DELVE_SEED", &c.Generator.Seed)
	envInt("DELVE_DEPTH", &c.Generator.Depth)
	envInt("DELVE_WIDTH", &c.Generator.Width)
	envInt("DELVE_HEIGHT", &c.Generator.Height)

	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.Enabled = true
		c.Telemetry.Endpoint = v
	}
	c.Logging.ApplyEnv()
}

// ResolveSeed returns the configured seed, choosing one from the clock when
// it is zero. The chosen seed is stored so the run can be reproduced.
func (c *Config) ResolveSeed() int64 {
	if c.Generator.Seed == 0 {
		c.Generator.Seed = time.Now().UnixNano()
	}
	return c.Generator.Seed
}

// LevelOptions converts the generator section into builder options
func (c *Config) LevelOptions() builder.LevelOptions {
	opts := builder.DefaultLevelOptions()
	if c.Generator.History.Enabled {
		opts.HistoryCap = c.Generator.History.Capacity
	}
	if c.Generator.WFC.MaxRetries > 0 {
		opts.MaxRetries = c.Generator.WFC.MaxRetries
	}
	opts.MaxVaultScan = c.Generator.MaxVaultScan
	return opts
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envInt64(key string, dst *int64) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
