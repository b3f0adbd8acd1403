// File: internal/config/config_test.go
package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Constructor and Defaults Tests --

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger().Level)
	assert.Equal(t, "scalpel-taint", cfg.Logger().ServiceName)
	assert.Equal(t, 5, cfg.Analysis().MaxHops)
	assert.Equal(t, 5*time.Minute, cfg.Analysis().Timeout)
	assert.Equal(t, 4, cfg.Analysis().Concurrency)
	assert.False(t, cfg.Analysis().AuthenticatedEndpointWeighting)
	assert.Empty(t, cfg.Discovery().RulesFile)
	assert.Equal(t, FormatJSON, cfg.Output().Format)
	assert.Equal(t, "-", cfg.Output().Path)
	assert.NoError(t, cfg.Validate())
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"zero hops", func(c *Config) { c.SetAnalysisMaxHops(0) }, "analysis.max_hops must be at least 1"},
		{"no workers", func(c *Config) { c.SetAnalysisConcurrency(0) }, "analysis.concurrency must be a positive integer"},
		{"negative timeout", func(c *Config) { c.SetAnalysisTimeout(-time.Second) }, "analysis.timeout must not be negative"},
		{"zero timeout disables the deadline", func(c *Config) { c.SetAnalysisTimeout(0) }, ""},
		{"unknown format", func(c *Config) { c.SetOutputFormat("xml") }, `output.format must be one of json, sarif or text, got "xml"`},
		{"sarif", func(c *Config) { c.SetOutputFormat(FormatSARIF) }, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

// -- Factory Function Tests --

func TestNewConfigFromViper(t *testing.T) {
	t.Run("Successful Load from YAML", func(t *testing.T) {
		yamlBytes := []byte(`
database:
  url: "facts.db"
analysis:
  max_hops: 3
  timeout: 30s
discovery:
  request_prefixes: ["ctx.request"]
output:
  format: sarif
`)
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlBytes)))

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, "facts.db", cfg.Database().URL)
		assert.Equal(t, 3, cfg.Analysis().MaxHops)
		assert.Equal(t, 30*time.Second, cfg.Analysis().Timeout)
		assert.Equal(t, []string{"ctx.request"}, cfg.Discovery().RequestPrefixes)
		assert.Equal(t, FormatSARIF, cfg.Output().Format)
		// Defaults survive alongside file values.
		assert.Equal(t, 4, cfg.Analysis().Concurrency)
		assert.Equal(t, "info", cfg.Logger().Level)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("analysis.concurrency", 0)

		cfg, err := NewConfigFromViper(v)
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "analysis.concurrency must be a positive integer")
	})

	t.Run("Environment Variable Binding", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBufferString(`
database:
  url: "from-file.db"
analysis:
  max_hops: 2
`)))

		t.Setenv("SCALPEL_DATABASE_URL", "postgres://envvar/facts")
		t.Setenv("SCALPEL_ANALYSIS_MAX_HOPS", "7")

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)

		assert.Equal(t, "postgres://envvar/facts", cfg.Database().URL, "env overrides the config file")
		assert.Equal(t, 7, cfg.Analysis().MaxHops)
	})
}
