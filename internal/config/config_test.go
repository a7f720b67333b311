package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Taxonomy.Driver)
	assert.Equal(t, "taxonomy.db", cfg.Taxonomy.SQLitePath)
	assert.Equal(t, "restock.db", cfg.Store.SQLitePath)
	assert.Equal(t, 1, cfg.Match.YearTolerance)
	assert.Equal(t, 4, cfg.Match.WideYearTolerance)
	assert.InDelta(t, 4, cfg.Match.Pressure.ConfidenceFloor, 0.001)
	assert.Equal(t, 2, cfg.Match.Pressure.MinPassCount)
	assert.Equal(t, 14, cfg.Match.Pressure.MinDaysOnMarket)
	assert.InDelta(t, 0.05, cfg.Match.Pressure.MinPriceDrop, 0.001)
	assert.Equal(t, 8, cfg.Normalize.Concurrency)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
taxonomy:
  driver: postgres
  database_url: postgres://localhost/taxonomy
  rate_limit: 20
match:
  year_tolerance: 2
  lax_year_sources: [graysonline]
  pressure:
    min_pass_count: 3
normalize:
  concurrency: 4
  ambiguous_families: [hilux]
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Taxonomy.Driver)
	assert.Equal(t, "postgres://localhost/taxonomy", cfg.Taxonomy.DatabaseURL)
	assert.InDelta(t, 20, cfg.Taxonomy.RateLimit, 0.001)
	assert.Equal(t, 2, cfg.Match.YearTolerance)
	assert.Equal(t, []string{"graysonline"}, cfg.Match.LaxYearSources)
	assert.Equal(t, 3, cfg.Match.Pressure.MinPassCount)
	// Defaults survive a partial override.
	assert.Equal(t, 14, cfg.Match.Pressure.MinDaysOnMarket)
	assert.Equal(t, 4, cfg.Normalize.Concurrency)
	assert.Equal(t, []string{"hilux"}, cfg.Normalize.AmbiguousFamilies)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
