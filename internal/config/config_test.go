package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/thermowatch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "thermowatch.toml")
	err := os.WriteFile(configPath, []byte(content), 0o600)
	require.NoError(t, err)

	return configPath
}

func TestLoad(t *testing.T) {
	configPath := writeConfigFile(t, `
listen_addr = ":9090"
reference_temp = 22.5
warning_threshold = 1.0
critical_threshold = 2.0
max_sensors = 8
history = true
history_db = "/tmp/history.db"
debug = true
`)
	t.Setenv("THERMOWATCH_CONFIG", configPath)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.InDelta(t, 22.5, cfg.ReferenceTemp, 0.001)
	assert.InDelta(t, 1.0, cfg.WarningThreshold, 0.001)
	assert.InDelta(t, 2.0, cfg.CriticalThreshold, 0.001)
	assert.Equal(t, 8, cfg.MaxSensors)
	assert.True(t, cfg.HistoryEnabled)
	assert.Equal(t, "/tmp/history.db", cfg.HistoryDB)
	assert.True(t, cfg.Debug)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("THERMOWATCH_CONFIG", "")

	cfg, err := config.Load(nil)
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.InDelta(t, 25.0, cfg.ReferenceTemp, 0.001)
	assert.InDelta(t, 1.5, cfg.WarningThreshold, 0.001)
	assert.InDelta(t, 2.5, cfg.CriticalThreshold, 0.001)
	assert.InDelta(t, 0.0, cfg.MinValidTemp, 0.001)
	assert.InDelta(t, 60.0, cfg.MaxValidTemp, 0.001)
	assert.Equal(t, 16, cfg.MaxSensors)
	assert.False(t, cfg.HistoryEnabled)
	assert.False(t, cfg.CacheEnabled)
	assert.False(t, cfg.AlertsEnabled)
	assert.False(t, cfg.Debug)
}

func TestLoadInvalidFormat(t *testing.T) {
	configPath := writeConfigFile(t, "This is not a valid TOML file\n")
	t.Setenv("THERMOWATCH_CONFIG", configPath)

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read configuration")
}

func TestLoadRejectsInvalidThresholds(t *testing.T) {
	configPath := writeConfigFile(t, `
warning_threshold = 2.5
critical_threshold = 1.5
`)
	t.Setenv("THERMOWATCH_CONFIG", configPath)

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid configuration")
}

func TestLoadRejectsMissingHistoryDB(t *testing.T) {
	configPath := writeConfigFile(t, `
history = true
history_db = ""
`)
	t.Setenv("THERMOWATCH_CONFIG", configPath)

	_, err := config.Load(nil)
	require.Error(t, err)
}

func TestFlagsOverrideFile(t *testing.T) {
	configPath := writeConfigFile(t, `
listen_addr = ":9090"
reference_temp = 22.5
`)
	t.Setenv("THERMOWATCH_CONFIG", configPath)

	cfg, err := config.Load([]string{"--listen-addr", ":7070", "--debug"})
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.True(t, cfg.Debug)
	assert.InDelta(t, 22.5, cfg.ReferenceTemp, 0.001, "file value survives for flags not set")
}

func TestLoadRejectsUnknownFlag(t *testing.T) {
	t.Setenv("THERMOWATCH_CONFIG", "")

	_, err := config.Load([]string{"--no-such-flag"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to bind flags")
}
