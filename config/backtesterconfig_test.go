package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := GenerateDefaultConfig()
	assert.Equal(t, DefaultLogLevels, cfg.LogLevels)
	assert.Equal(t, DefaultListenAddress, cfg.REST.ListenAddress)
	assert.False(t, cfg.REST.Enabled)
	assert.Equal(t, filepath.Join(DefaultBTDir, "results"), cfg.ResultsDir)
}

func TestReadBacktesterConfigFromPath(t *testing.T) {
	t.Parallel()
	cfg, err := ReadBacktesterConfigFromPath("")
	require.NoError(t, err)
	assert.Equal(t, GenerateDefaultConfig().ResultsDir, cfg.ResultsDir)

	cfg, err = ReadBacktesterConfigFromPath(filepath.Join("..", "testdata", "backtester.json"))
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "INFO|DEBUG|WARN|ERROR", cfg.LogLevels)
	assert.Equal(t, "results", cfg.ResultsDir)
	assert.False(t, cfg.StopAllTasksOnClose)
	assert.True(t, cfg.REST.Enabled)
	assert.Equal(t, "localhost:9999", cfg.REST.ListenAddress)
	assert.Equal(t, DefaultBTDir, cfg.DataDir, "unset keys keep their default")

	_, err = ReadBacktesterConfigFromPath(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err, "only the default path may be missing")
}

func TestReadBacktesterConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("BACKTESTER_RESULTS_DIR", "/tmp/elsewhere")
	t.Setenv("BACKTESTER_REST_LISTEN_ADDRESS", "0.0.0.0:1337")
	cfg, err := ReadBacktesterConfigFromPath(filepath.Join("..", "testdata", "backtester.json"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere", cfg.ResultsDir)
	assert.Equal(t, "0.0.0.0:1337", cfg.REST.ListenAddress)
}
