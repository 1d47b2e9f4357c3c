package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/optlib/pricing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	d := Default()
	assert.Equal(t, pricing.DefaultSettings(), d.Pricing)
	assert.Equal(t, "info", d.LogLevel)
	assert.EqualValues(t, 8, d.Precision)
	assert.Equal(t, 4, d.Workers)
	require.NoError(t, d.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "optlib.yaml", `
log_level: debug
precision: 4
workers: 2
distinct_streams: true
pricing:
  mc_paths: 5000
  seed: 9
  antithetic: true
  tree_steps: 250
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Pricing.MCPaths)
	assert.EqualValues(t, 9, cfg.Pricing.Seed)
	assert.True(t, cfg.Pricing.Antithetic)
	assert.Equal(t, 250, cfg.Pricing.TreeSteps)
	assert.Equal(t, pricing.DefaultPDESpaceSteps, cfg.Pricing.PDESpaceSteps)
	assert.EqualValues(t, 4, cfg.Precision)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.DistinctStreams)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPTLIB_PRICING_MC_PATHS", "1234")
	t.Setenv("OPTLIB_WORKERS", "8")

	path := writeFile(t, "optlib.json", `{"workers": 3, "pricing": {"mc_paths": 10}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.Pricing.MCPaths)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	bad := writeFile(t, "bad.yaml", "workers: 0\n")
	_, err = Load(bad)
	assert.ErrorContains(t, err, "workers must be >= 1")

	lvl := writeFile(t, "lvl.yaml", "log_level: loud\n")
	_, err = Load(lvl)
	assert.ErrorContains(t, err, "log_level")
}
