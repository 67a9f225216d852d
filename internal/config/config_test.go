package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartkit/tabular/internal/config"
)

func TestConfig_DefaultValues(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, 10, cfg.InferSampleSize)
	assert.Equal(t, "D", cfg.RoundFreq)
	assert.InDelta(t, 0.05, cfg.AxisPadding, 1e-9)
	assert.Equal(t, 5, cfg.AxisGridlines)
	assert.InDelta(t, 0.002, cfg.AxisTopExtra, 1e-9)
	assert.Equal(t, 1, cfg.RollingMinPeriods)
	assert.False(t, cfg.VerboseLogging)
}

func TestConfig_Validation(t *testing.T) {
	tests := []struct {
		name          string
		config        config.Config
		expectedError string
	}{
		{
			name:          "valid config",
			config:        config.NewConfig(),
			expectedError: "",
		},
		{
			name: "non-positive sample size",
			config: config.Config{
				InferSampleSize:   0,
				RoundFreq:         "D",
				AxisGridlines:     5,
				RollingMinPeriods: 1,
			},
			expectedError: "InferSampleSize must be positive, got 0",
		},
		{
			name: "unknown frequency",
			config: config.Config{
				InferSampleSize:   10,
				RoundFreq:         "Q",
				AxisGridlines:     5,
				RollingMinPeriods: 1,
			},
			expectedError: `RoundFreq "Q" is not a valid frequency`,
		},
		{
			name: "padding out of range",
			config: config.Config{
				InferSampleSize:   10,
				RoundFreq:         "D",
				AxisPadding:       1.5,
				AxisGridlines:     5,
				RollingMinPeriods: 1,
			},
			expectedError: "AxisPadding must be in [0, 1)",
		},
		{
			name: "too few gridlines",
			config: config.Config{
				InferSampleSize:   10,
				RoundFreq:         "D",
				AxisGridlines:     1,
				RollingMinPeriods: 1,
			},
			expectedError: "AxisGridlines must be at least 2, got 1",
		},
		{
			name: "zero rolling min periods",
			config: config.Config{
				InferSampleSize: 10,
				RoundFreq:       "D",
				AxisGridlines:   5,
			},
			expectedError: "RollingMinPeriods must be at least 1, got 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectedError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			}
		})
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := config.Config{RoundFreq: "H"}.WithDefaults()

	assert.Equal(t, "H", cfg.RoundFreq)
	assert.Equal(t, 10, cfg.InferSampleSize)
	assert.Equal(t, 5, cfg.AxisGridlines)
	assert.InDelta(t, 0.05, cfg.AxisPadding, 1e-9)
	assert.Equal(t, 1, cfg.RollingMinPeriods)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromJSON(t *testing.T) {
	jsonData := []byte(`{"round_freq": "W", "axis_gridlines": 7, "verbose_logging": true}`)

	cfg, err := config.LoadFromJSON(jsonData)
	require.NoError(t, err)

	assert.Equal(t, "W", cfg.RoundFreq)
	assert.Equal(t, 7, cfg.AxisGridlines)
	assert.True(t, cfg.VerboseLogging)
	// Unset fields are filled from defaults.
	assert.Equal(t, 10, cfg.InferSampleSize)
}

func TestConfig_LoadFromFile(t *testing.T) {
	tmpFile, err := os.CreateTemp(t.TempDir(), "config_test_*.json")
	require.NoError(t, err)

	jsonData := `{
		"round_freq": "M",
		"infer_sample_size": 25
	}`

	_, err = tmpFile.WriteString(jsonData)
	require.NoError(t, err)
	_ = tmpFile.Close()

	cfg, err := config.LoadFromFile(tmpFile.Name())
	require.NoError(t, err)

	assert.Equal(t, "M", cfg.RoundFreq)
	assert.Equal(t, 25, cfg.InferSampleSize)
}

func TestConfig_LoadFromYAML(t *testing.T) {
	tmpFile, err := os.CreateTemp(t.TempDir(), "config_test_*.yaml")
	require.NoError(t, err)

	yamlData := `round_freq: H
axis_padding: 0.1
verbose_logging: true
`

	_, err = tmpFile.WriteString(yamlData)
	require.NoError(t, err)
	_ = tmpFile.Close()

	cfg, err := config.LoadFromFile(tmpFile.Name())
	require.NoError(t, err)

	assert.Equal(t, "H", cfg.RoundFreq)
	assert.InDelta(t, 0.1, cfg.AxisPadding, 1e-9)
	assert.True(t, cfg.VerboseLogging)
}

func TestConfig_UnsupportedFileFormat(t *testing.T) {
	tmpFile, err := os.CreateTemp(t.TempDir(), "config_test_*.toml")
	require.NoError(t, err)
	_ = tmpFile.Close()

	_, err = config.LoadFromFile(tmpFile.Name())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config file format")
}

func TestConfig_LoadFromNonExistentFile(t *testing.T) {
	_, err := config.LoadFromFile("/nonexistent/config.json")
	assert.Error(t, err)
}

func TestConfig_InvalidJSON(t *testing.T) {
	_, err := config.LoadFromJSON([]byte(`{not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing JSON configuration")
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("TABULAR_ROUND_FREQ", "H")
	t.Setenv("TABULAR_AXIS_GRIDLINES", "9")
	t.Setenv("TABULAR_VERBOSE_LOGGING", "true")

	cfg := config.LoadFromEnv()

	assert.Equal(t, "H", cfg.RoundFreq)
	assert.Equal(t, 9, cfg.AxisGridlines)
	assert.True(t, cfg.VerboseLogging)
	// Untouched fields keep their defaults.
	assert.Equal(t, 10, cfg.InferSampleSize)
}

func TestConfig_EnvIgnoresUnparseable(t *testing.T) {
	t.Setenv("TABULAR_AXIS_GRIDLINES", "lots")

	cfg := config.LoadFromEnv()
	assert.Equal(t, 5, cfg.AxisGridlines)
}

func TestGlobalConfig_SetAndGet(t *testing.T) {
	originalConfig := config.GetGlobalConfig()
	defer config.SetGlobalConfig(originalConfig)

	newConfig := config.NewConfig()
	newConfig.RoundFreq = "W"
	newConfig.VerboseLogging = true

	config.SetGlobalConfig(newConfig)
	retrieved := config.GetGlobalConfig()

	assert.Equal(t, "W", retrieved.RoundFreq)
	assert.True(t, retrieved.VerboseLogging)
}
