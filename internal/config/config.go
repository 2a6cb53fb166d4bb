package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required for one detection run.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Detectors DetectorsConfig `yaml:"detectors"`
	Sink      SinkConfig      `yaml:"sink"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig configures the transactional store holding sales and incidents.
type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	SalesTable     string        `yaml:"salesTable"`
	IncidentsTable string        `yaml:"incidentsTable"`
	QueryTimeout   time.Duration `yaml:"queryTimeout"`
	MaxOpenConns   int           `yaml:"maxOpenConns"`
	MaxIdleConns   int           `yaml:"maxIdleConns"`
}

// DetectorsConfig holds the tunable thresholds for the detector set.
type DetectorsConfig struct {
	// RevenueDropRatio is the day-over-day revenue drop that fires, as a
	// fraction (0.30 means a 30% drop).
	RevenueDropRatio float64 `yaml:"revenueDropRatio"`
	// RevenueFloor is the minimal plausible daily revenue total.
	RevenueFloor float64 `yaml:"revenueFloor"`
	// VolumeDropRatio is the transaction-count drop that fires.
	VolumeDropRatio float64 `yaml:"volumeDropRatio"`
	// VolumeSevereRatio is the drop magnitude at which a volume drop
	// escalates from medium to high severity.
	VolumeSevereRatio float64 `yaml:"volumeSevereRatio"`
	// DuplicateRepetitions is the same-day repetition count that marks a
	// (customer, amount) group as a duplicate-charge suspect.
	DuplicateRepetitions int `yaml:"duplicateRepetitions"`
}

// SinkConfig configures the optional HTTP incident sink. Empty endpoint
// disables it; the database sink is always on.
type SinkConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"apiKey"`
	Timeout  time.Duration `yaml:"timeout"`
}

// MetricsConfig controls the end-of-run Pushgateway export.
type MetricsConfig struct {
	PushGateway string `yaml:"pushGateway"`
	Job         string `yaml:"job"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SALES_SENTINEL_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			SalesTable:     "sales",
			IncidentsTable: "incidents",
			QueryTimeout:   10 * time.Second,
			MaxOpenConns:   5,
			MaxIdleConns:   2,
		},
		Detectors: DetectorsConfig{
			RevenueDropRatio:     0.30,
			RevenueFloor:         10.0,
			VolumeDropRatio:      0.30,
			VolumeSevereRatio:    0.60,
			DuplicateRepetitions: 3,
		},
		Sink: SinkConfig{Timeout: 5 * time.Second},
		Metrics: MetricsConfig{
			Job: "sales-sentinel",
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("SALES_SENTINEL_SALES_TABLE"); v != "" {
		cfg.Database.SalesTable = v
	}
	if v := os.Getenv("SALES_SENTINEL_INCIDENTS_TABLE"); v != "" {
		cfg.Database.IncidentsTable = v
	}
	if v := os.Getenv("SALES_SENTINEL_SINK_ENDPOINT"); v != "" {
		cfg.Sink.Endpoint = v
	}
	if v := os.Getenv("SALES_SENTINEL_SINK_API_KEY"); v != "" {
		cfg.Sink.APIKey = v
	}
	if v := os.Getenv("SALES_SENTINEL_PUSHGATEWAY"); v != "" {
		cfg.Metrics.PushGateway = v
	}
	if v := os.Getenv("SALES_SENTINEL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SALES_SENTINEL_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
}

// Validate rejects configurations that cannot support a run. A missing
// database URL aborts before any read is attempted.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required (set it in the config file or via DATABASE_URL)")
	}
	if c.Database.SalesTable == "" {
		return fmt.Errorf("database.salesTable is required")
	}
	if c.Database.IncidentsTable == "" {
		return fmt.Errorf("database.incidentsTable is required")
	}
	if c.Detectors.RevenueDropRatio <= 0 || c.Detectors.RevenueDropRatio > 1 {
		return fmt.Errorf("detectors.revenueDropRatio must be in (0, 1]")
	}
	if c.Detectors.VolumeDropRatio <= 0 || c.Detectors.VolumeDropRatio > 1 {
		return fmt.Errorf("detectors.volumeDropRatio must be in (0, 1]")
	}
	if c.Detectors.VolumeSevereRatio < c.Detectors.VolumeDropRatio {
		return fmt.Errorf("detectors.volumeSevereRatio must be >= detectors.volumeDropRatio")
	}
	if c.Detectors.RevenueFloor < 0 {
		return fmt.Errorf("detectors.revenueFloor must not be negative")
	}
	if c.Detectors.DuplicateRepetitions < 2 {
		return fmt.Errorf("detectors.duplicateRepetitions must be at least 2")
	}
	return nil
}
