package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/log"
)

// GenerateDefaultConfig returns the settings used when no config file exists
func GenerateDefaultConfig() *BacktesterConfig {
	return &BacktesterConfig{
		LogLevels:           DefaultLogLevels,
		ResultsDir:          filepath.Join(DefaultBTDir, "results"),
		DataDir:             DefaultBTDir,
		StopAllTasksOnClose: true,
		REST: REST{
			ListenAddress: DefaultListenAddress,
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	d := GenerateDefaultConfig()
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("log-levels", d.LogLevels)
	v.SetDefault("results-dir", d.ResultsDir)
	v.SetDefault("data-dir", d.DataDir)
	v.SetDefault("stop-all-tasks-on-close", d.StopAllTasksOnClose)
	v.SetDefault("rest.enabled", d.REST.Enabled)
	v.SetDefault("rest.listen-address", d.REST.ListenAddress)
	return v
}

// ReadBacktesterConfigFromPath reads the backtester settings from a json
// file, with environment overrides applied on top. An empty path, or a
// default path that does not exist yet, yields the defaults
func ReadBacktesterConfigFromPath(path string) (*BacktesterConfig, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if path != DefaultBTConfigDir || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading backtester config %v: %w", path, err)
			}
			log.Warnf(common.SubLoggers[common.Config], "no backtester config found at %v, using defaults", path)
		}
	}
	resp := &BacktesterConfig{}
	if err := v.Unmarshal(resp); err != nil {
		return nil, err
	}
	return resp, nil
}
