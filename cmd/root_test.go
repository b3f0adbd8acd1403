// File: cmd/root_test.go
package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/scalpel-taint/internal/config"
)

func TestRootCmd_VersionFlag(t *testing.T) {
	out, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestRootCmd_NoArgs(t *testing.T) {
	out, err := executeCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Static taint analysis")
	assert.Contains(t, out, "analyze")
	assert.Contains(t, out, "schema")
}

func TestVersionCmd(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "scalpel-taint "+Version)
}

func TestRootCmd_ConfigErrors(t *testing.T) {
	t.Run("explicit config file must exist", func(t *testing.T) {
		_, err := executeCommandWithConfig(t, filepath.Join(t.TempDir(), "absent.yaml"), "version")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize configuration")
	})

	t.Run("invalid values are rejected before the command runs", func(t *testing.T) {
		path := writeConfig(t, "analysis:\n  max_hops: 0\n")
		_, err := executeCommandWithConfig(t, path, "version")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "analysis.max_hops must be at least 1")
	})
}

func TestGetConfigFromContext(t *testing.T) {
	_, err := getConfigFromContext(context.Background())
	assert.Error(t, err)

	cfg := config.NewDefaultConfig()
	got, err := getConfigFromContext(context.WithValue(context.Background(), configKey, cfg))
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestBindConfigFlags(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{Use: "test"}
		c.Flags().Int("max-hops", 5, "")
		c.Flags().String("unbound", "", "")
		bindFlag(c, "max-hops", "analysis.max_hops")
		return c
	}

	t.Run("changed flags override the config", func(t *testing.T) {
		c := newCmd()
		require.NoError(t, c.Flags().Parse([]string{"--max-hops", "9"}))

		v := viper.New()
		config.SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBufferString("analysis:\n  max_hops: 3\n")))
		require.NoError(t, bindConfigFlags(c, v))

		cfg, err := config.NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, 9, cfg.Analysis().MaxHops)
	})

	t.Run("unchanged flags leave the config alone", func(t *testing.T) {
		c := newCmd()
		require.NoError(t, c.Flags().Parse(nil))

		v := viper.New()
		config.SetDefaults(v)
		v.SetConfigType("yaml")
		require.NoError(t, v.ReadConfig(bytes.NewBufferString("analysis:\n  max_hops: 3\n")))
		require.NoError(t, bindConfigFlags(c, v))

		cfg, err := config.NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Analysis().MaxHops)
	})

	t.Run("unknown flags panic", func(t *testing.T) {
		assert.Panics(t, func() { bindFlag(&cobra.Command{Use: "x"}, "missing", "analysis.max_hops") })
	})
}
