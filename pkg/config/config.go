// Package config loads and validates repeatscan's run configuration from a
// YAML file with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level run configuration for a repeatscan invocation.
type Config struct {
	Repeats RepeatsConfig `yaml:"repeats"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// RepeatsConfig controls the extension engine's search parameters.
type RepeatsConfig struct {
	// MaxLen caps the outer pass loop; a non-converged halt still returns
	// the last non-empty survivor set as "longest".
	MaxLen int `yaml:"maxLen"`
	// Workers bounds the errgroup fan-out over a pass's (s, b) candidate
	// pairs (each candidate's documents are intersected sequentially), and
	// the preflight stat-check pool. 1 disables concurrency.
	Workers int `yaml:"workers"`
	// GallopThreshold is the |B|/|S| ratio at which get_sb_offsets switches
	// from linear to galloping advance of the denser list.
	GallopThreshold float64 `yaml:"gallopThreshold"`
	// ExactUsesNonOverlap selects the corrected exact-match semantics
	// (non-overlapping count) instead of the source-faithful raw list size.
	ExactUsesNonOverlap bool `yaml:"exactUsesNonOverlap"`
	// Verbosity controls how much of the final report is printed: below 2
	// only the summary line, 2 or more adds the matched strings and a
	// metrics dump. Per-pass progress is logged at debug level, independent
	// of this setting.
	Verbosity int `yaml:"verbosity"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls whether the end-of-run metrics summary is emitted.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads a YAML config file (if path is non-empty) and applies
// environment-variable overrides. It returns a Config populated with
// sensible defaults for any value neither file nor environment set.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Repeats: RepeatsConfig{
			MaxLen:              100,
			Workers:             4,
			GallopThreshold:     8.0,
			ExactUsesNonOverlap: false,
			Verbosity:           1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// applyEnvOverrides reads RS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RS_MAX_LEN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Repeats.MaxLen = n
		}
	}
	if v := os.Getenv("RS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Repeats.Workers = n
		}
	}
	if v := os.Getenv("RS_GALLOP_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Repeats.GallopThreshold = f
		}
	}
	if v := os.Getenv("RS_VERBOSITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Repeats.Verbosity = n
		}
	}
	if v := os.Getenv("RS_EXACT_NON_OVERLAP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Repeats.ExactUsesNonOverlap = b
		}
	}
	if v := os.Getenv("RS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("RS_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
}
