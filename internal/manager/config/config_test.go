package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := InitializeEmpty()

	assert.Equal(t, "0.0.0.0", cfg.GetHost())
	assert.Equal(t, portDefault, cfg.GetPort())
	assert.Equal(t, maxSessionsDefault, cfg.GetMaxSessions())
	assert.Equal(t, probeParallelDefault, cfg.GetProbeParallel())
	assert.Equal(t, defaultZoomDefault, cfg.GetDefaultZoom())
	assert.Equal(t, "Info", cfg.GetLogLevel())
	assert.True(t, cfg.GetLogOut())
	assert.Equal(t, filepath.Join(DefaultConfigDirectory, defaultDatabaseFilename), cfg.GetDatabasePath())
	assert.Empty(t, cfg.GetCatalogFile())
	assert.NoError(t, cfg.Validate())
}

func TestOverridesTakePrecedence(t *testing.T) {
	cfg := InitializeEmpty()
	cfg.Set(Port, 8000)
	assert.Equal(t, 8000, cfg.GetPort())

	cfg.overrides.Set(Port, 9000)
	assert.Equal(t, 9000, cfg.GetPort())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		key   string
		value interface{}
		want  error
	}{
		{Port, 0, ErrInvalidPort},
		{Port, 70000, ErrInvalidPort},
		{MaxSessions, 0, ErrInvalidMaxSessions},
		{ProbeParallel, -1, ErrInvalidProbeParallel},
		{LogLevel, "Verbose", ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		cfg := InitializeEmpty()
		cfg.Set(tt.key, tt.value)
		assert.ErrorIs(t, cfg.Validate(), tt.want, "%s=%v", tt.key, tt.value)
	}
}

func TestInvalidLogLevelFallsBack(t *testing.T) {
	cfg := InitializeEmpty()
	cfg.Set(LogLevel, "Verbose")
	assert.Equal(t, "Info", cfg.GetLogLevel())
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yml")

	cfg := InitializeEmpty()
	cfg.configFilePath = path
	cfg.Set(MaxSessions, 3)
	require.NoError(t, cfg.Write())

	_, err := os.Stat(path)
	require.NoError(t, err)

	read := InitializeEmpty()
	read.main.SetConfigFile(path)
	require.NoError(t, read.main.ReadInConfig())
	assert.Equal(t, 3, read.GetMaxSessions())
}
