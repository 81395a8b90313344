package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level process configuration.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Logging LoggingConfig  `yaml:"logging"`
	Loader  LoaderConfig   `yaml:"loader"`
	Metrics MetricsConfig  `yaml:"metrics"`
	Engine  EngineSettings `yaml:"engine"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	MaxBodyBytes    int64         `yaml:"maxBodyBytes"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoaderConfig controls how the startup snapshot is fed to the engine.
type LoaderConfig struct {
	SnapshotPath string `yaml:"snapshotPath"` // JSON or YAML array of items; empty starts with no items
	ChunkSize    int    `yaml:"chunkSize"`    // Items appended per step; the first chunk is indexed synchronously
	Workers      int    `yaml:"workers"`      // Concurrent background jobs
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Missing values fall back to defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	cfg.Engine.ApplyDefaults()
	if problems := cfg.Engine.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid engine settings: %v", problems)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			MaxBodyBytes:    32 << 20,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Loader: LoaderConfig{
			ChunkSize: 1000,
			Workers:   2,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Engine: DefaultEngineSettings(),
	}
}

// applyEnvOverrides reads RS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("RS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("RS_SNAPSHOT_PATH"); v != "" {
		cfg.Loader.SnapshotPath = v
	}
	if v := os.Getenv("RS_LOADER_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Loader.ChunkSize = n
		}
	}
	if v := os.Getenv("RS_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.MaxResults = n
		}
	}
	if v := os.Getenv("RS_SIMILARITY_ALGORITHM"); v != "" {
		cfg.Engine.SimilarityAlgorithm = v
	}
}
