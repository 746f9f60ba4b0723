package config

import (
	"os"
	"path/filepath"
)

// EnvPrefix is prepended to the upper-cased setting keys when reading
// overrides from the environment, eg BACKTESTER_RESULTS_DIR
const EnvPrefix = "BACKTESTER"

var (
	// DefaultBTDir is the default backtester data directory
	DefaultBTDir = defaultDataDir()
	// DefaultBTConfigDir is the default backtester config file
	DefaultBTConfigDir = filepath.Join(DefaultBTDir, "config.json")
	// DefaultLogLevels is used when no log level is configured
	DefaultLogLevels = "INFO|WARN|ERROR"
	// DefaultListenAddress is where the REST server listens when enabled
	DefaultListenAddress = "localhost:9054"
)

// BacktesterConfig contains the configuration for the backtester
type BacktesterConfig struct {
	Verbose             bool   `json:"verbose" mapstructure:"verbose"`
	LogLevels           string `json:"log-levels" mapstructure:"log-levels"`
	ResultsDir          string `json:"results-dir" mapstructure:"results-dir"`
	DataDir             string `json:"data-dir" mapstructure:"data-dir"`
	StopAllTasksOnClose bool   `json:"stop-all-tasks-on-close" mapstructure:"stop-all-tasks-on-close"`
	REST                REST   `json:"rest" mapstructure:"rest"`
}

// REST holds the task server configuration
type REST struct {
	Enabled       bool   `json:"enabled" mapstructure:"enabled"`
	ListenAddress string `json:"listen-address" mapstructure:"listen-address"`
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "barbacktester")
	}
	return filepath.Join(home, ".barbacktester")
}
