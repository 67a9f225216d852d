// Package config provides configuration management for the tabular engine.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/chartkit/tabular/internal/index"
)

// Config holds the tunables the engine consults at its outer surfaces. The
// core operations stay option-driven; this only seeds their defaults.
type Config struct {
	// Type inference
	InferSampleSize int `json:"infer_sample_size" yaml:"infer_sample_size"` // Leading non-null values inspected per column (0 = package default)

	// Date alignment
	RoundFreq string `json:"round_freq" yaml:"round_freq"` // Default rounding/alignment frequency

	// Axis derivation
	AxisPadding   float64 `json:"axis_padding" yaml:"axis_padding"`     // Fraction of the range padded onto open ends
	AxisGridlines int     `json:"axis_gridlines" yaml:"axis_gridlines"` // Target gridline count
	AxisTopExtra  float64 `json:"axis_top_extra" yaml:"axis_top_extra"` // Headroom above the top tick, as a fraction of the span

	// Rolling windows
	RollingMinPeriods int `json:"rolling_min_periods" yaml:"rolling_min_periods"` // Observations required before a window emits a value

	// Diagnostics
	VerboseLogging bool `json:"verbose_logging" yaml:"verbose_logging"` // Enable verbose logging in the CLI and pipeline
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultInferSampleSize   = 10
	DefaultRoundFreq         = "D"
	DefaultAxisPadding       = 0.05
	DefaultAxisGridlines     = 5
	DefaultAxisTopExtra      = 0.002
	DefaultRollingMinPeriods = 1
)

func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values.
func NewConfig() Config {
	return Config{
		InferSampleSize:   DefaultInferSampleSize,
		RoundFreq:         DefaultRoundFreq,
		AxisPadding:       DefaultAxisPadding,
		AxisGridlines:     DefaultAxisGridlines,
		AxisTopExtra:      DefaultAxisTopExtra,
		RollingMinPeriods: DefaultRollingMinPeriods,
		VerboseLogging:    false,
	}
}

// Validate checks the configuration and returns an error when a field is out
// of range.
func (c *Config) Validate() error {
	if c.InferSampleSize <= 0 {
		return fmt.Errorf("InferSampleSize must be positive, got %d", c.InferSampleSize)
	}

	if _, err := index.ParseFreq(c.RoundFreq); err != nil {
		return fmt.Errorf("RoundFreq %q is not a valid frequency: %w", c.RoundFreq, err)
	}

	if c.AxisPadding < 0 || c.AxisPadding >= 1 {
		return fmt.Errorf("AxisPadding must be in [0, 1), got %f", c.AxisPadding)
	}

	if c.AxisGridlines < 2 {
		return fmt.Errorf("AxisGridlines must be at least 2, got %d", c.AxisGridlines)
	}

	if c.AxisTopExtra < 0 || c.AxisTopExtra >= 1 {
		return fmt.Errorf("AxisTopExtra must be in [0, 1), got %f", c.AxisTopExtra)
	}

	if c.RollingMinPeriods < 1 {
		return fmt.Errorf("RollingMinPeriods must be at least 1, got %d", c.RollingMinPeriods)
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in for
// zero values. Boolean fields are left alone so an explicit false survives.
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.InferSampleSize == 0 {
		c.InferSampleSize = defaults.InferSampleSize
	}
	if c.RoundFreq == "" {
		c.RoundFreq = defaults.RoundFreq
	}
	if c.AxisPadding == 0 {
		c.AxisPadding = defaults.AxisPadding
	}
	if c.AxisGridlines == 0 {
		c.AxisGridlines = defaults.AxisGridlines
	}
	if c.AxisTopExtra == 0 {
		c.AxisTopExtra = defaults.AxisTopExtra
	}
	if c.RollingMinPeriods == 0 {
		c.RollingMinPeriods = defaults.RollingMinPeriods
	}

	return c
}

// SetGlobalConfig sets the global configuration.
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration.
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data.
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a JSON or YAML file.
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config.WithDefaults(), nil
}

// LoadFromEnv loads configuration from environment variables, starting from
// the defaults.
func LoadFromEnv() Config {
	config := NewConfig()

	if val := os.Getenv("TABULAR_INFER_SAMPLE_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.InferSampleSize = parsed
		}
	}

	if val := os.Getenv("TABULAR_ROUND_FREQ"); val != "" {
		config.RoundFreq = val
	}

	if val := os.Getenv("TABULAR_AXIS_PADDING"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.AxisPadding = parsed
		}
	}

	if val := os.Getenv("TABULAR_AXIS_GRIDLINES"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.AxisGridlines = parsed
		}
	}

	if val := os.Getenv("TABULAR_AXIS_TOP_EXTRA"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.AxisTopExtra = parsed
		}
	}

	if val := os.Getenv("TABULAR_ROLLING_MIN_PERIODS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.RollingMinPeriods = parsed
		}
	}

	if val := os.Getenv("TABULAR_VERBOSE_LOGGING"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.VerboseLogging = parsed
		}
	}

	return config
}
