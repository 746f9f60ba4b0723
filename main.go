package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/config"
	"github.com/thrasher-corp/barbacktester/log"
	"github.com/urfave/cli/v2"
)

var (
	btConfigPath string
	verbose      bool
	btCfg        *config.BacktesterConfig
)

func main() {
	app := cli.NewApp()
	app.Name = "barbacktester"
	app.EnableBashCompletion = true
	app.Usage = "event driven backtester for daily equity bars"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "backtesterconfig",
			Aliases:     []string{"b"},
			Value:       config.DefaultBTConfigDir,
			Usage:       "the backtester settings file, environment variables prefixed " + config.EnvPrefix + "_ override it",
			TakesFile:   true,
			Destination: &btConfigPath,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "enables debug logging regardless of the configured log levels",
			Destination: &verbose,
		},
	}
	app.Before = setup
	app.Commands = []*cli.Command{
		runCommand,
		serveCommand,
		importCommand,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Errorln(log.Global, err)
		cancel()
		os.Exit(1)
	}
}

// setup reads the backtester settings and configures logging before any
// command runs
func setup(_ *cli.Context) error {
	var err error
	btCfg, err = config.ReadBacktesterConfigFromPath(btConfigPath)
	if err != nil {
		return err
	}
	levels := btCfg.LogLevels
	if levels == "" {
		levels = config.DefaultLogLevels
	}
	if (verbose || btCfg.Verbose) && !strings.Contains(strings.ToUpper(levels), "DEBUG") {
		levels += "|DEBUG"
	}
	logCfg := log.GenDefaultSettings()
	logCfg.Level = levels
	if err = log.SetupGlobalLogger(&logCfg); err != nil {
		return err
	}
	return common.RegisterBacktesterSubLoggers()
}
