package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/config"
	"github.com/thrasher-corp/barbacktester/data/csv"
	"github.com/thrasher-corp/barbacktester/data/database"
	gctdatabase "github.com/thrasher-corp/barbacktester/database"
	"github.com/thrasher-corp/barbacktester/database/repository/bar"
	"github.com/thrasher-corp/barbacktester/engine"
	"github.com/thrasher-corp/barbacktester/log"
	"github.com/thrasher-corp/barbacktester/results"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 5 * time.Second

var (
	errNoStrategyConfig = errors.New("no strategy config provided")
	errRESTDisabled     = errors.New("REST server is disabled in the backtester config, enable it or set --listen")
	errNoSymbols        = errors.New("no symbols to import")
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "runs a single backtest from a strategy config and saves its results",
	ArgsUsage: "<strategy config>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      "config",
			Aliases:   []string{"c"},
			Usage:     "the strategy config to run",
			TakesFile: true,
		},
	},
	Action: runStrategy,
}

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "loads strategy configs as tasks and manages them over REST",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:      "config",
			Aliases:   []string{"c"},
			Usage:     "strategy configs to load as tasks",
			TakesFile: true,
		},
		&cli.BoolFlag{
			Name:  "start",
			Usage: "starts every loaded task immediately",
		},
		&cli.StringFlag{
			Name:  "listen",
			Usage: "the REST listen address, overrides the backtester config",
		},
	},
	Action: serve,
}

var importCommand = &cli.Command{
	Name:  "import",
	Usage: "copies <SYMBOL>.csv bar files into the bar database",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "csv",
			Usage:    "the directory holding the csv files",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "symbols",
			Usage: "the symbols to import",
		},
		&cli.StringFlag{
			Name:  "driver",
			Value: gctdatabase.DBSQLite3,
			Usage: "sqlite3 or postgres",
		},
		&cli.StringFlag{
			Name:  "database",
			Value: "bars.db",
			Usage: "the sqlite file, relative to the data dir, or the postgres database name",
		},
		&cli.StringFlag{
			Name:  "host",
			Value: "localhost",
		},
		&cli.UintFlag{
			Name:  "port",
			Value: 5432,
		},
		&cli.StringFlag{
			Name: "username",
		},
		&cli.StringFlag{
			Name: "password",
		},
		&cli.StringFlag{
			Name:  "sslmode",
			Value: "disable",
		},
		&cli.BoolFlag{
			Name:  "replace",
			Usage: "deletes every stored bar for the symbols before importing",
		},
	},
	Action: importBars,
}

func runStrategy(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		path = c.Args().First()
	}
	if path == "" {
		return errNoStrategyConfig
	}
	rc, err := results.LoadOrInitialise(btCfg.ResultsDir)
	if err != nil {
		return err
	}
	bt, err := loadTask(c.Context, path, rc)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-c.Context.Done():
			log.Warnln(common.SubLoggers[common.Backtester], "interrupted, stopping after the current bar")
			if err := bt.Stop(); err != nil {
				log.Errorln(common.SubLoggers[common.Backtester], err)
			}
		case <-done:
		}
	}()
	return bt.ExecuteStrategy(true)
}

func loadTask(ctx context.Context, path string, rc *results.RunContext) (*engine.BackTest, error) {
	cfg, err := config.ReadConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	bt, err := engine.NewFromConfig(ctx, cfg, rc, btCfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	cfg.PrintSetting()
	return bt, nil
}

func serve(c *cli.Context) error {
	listen := btCfg.REST.ListenAddress
	if c.IsSet("listen") {
		listen = c.String("listen")
	} else if !btCfg.REST.Enabled {
		return errRESTDisabled
	}
	rc, err := results.LoadOrInitialise(btCfg.ResultsDir)
	if err != nil {
		return err
	}
	tm := engine.NewTaskManager()
	for _, path := range c.StringSlice("config") {
		bt, err := loadTask(c.Context, path, rc)
		if err != nil {
			return err
		}
		if err = tm.AddTask(bt); err != nil {
			return err
		}
	}
	if c.Bool("start") {
		started, err := tm.StartAllTasks()
		if err != nil {
			return err
		}
		log.Infof(common.SubLoggers[common.Backtester], "started %d tasks", len(started))
	}

	srv, err := engine.NewRESTServer(listen, tm, rc)
	if err != nil {
		return err
	}
	errC := make(chan error, 1)
	go func() {
		errC <- srv.ListenAndServe()
	}()
	select {
	case err = <-errC:
		return err
	case <-c.Context.Done():
	}

	log.Infoln(log.RESTSys, "shutting down REST server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = srv.Shutdown(ctx)
	if btCfg.StopAllTasksOnClose {
		stopped, stopErr := tm.StopAllTasks()
		err = common.AppendError(err, stopErr)
		log.Infof(common.SubLoggers[common.Backtester], "stopped %d running tasks", len(stopped))
	}
	return err
}

func importBars(c *cli.Context) (err error) {
	symbols := c.StringSlice("symbols")
	if len(symbols) == 0 {
		return errNoSymbols
	}
	bars, err := (&csv.Loader{Dir: c.String("csv")}).Load(c.Context, symbols)
	if err != nil {
		return err
	}
	dbCfg := &gctdatabase.Config{
		Enabled:  true,
		Verbose:  verbose,
		Driver:   c.String("driver"),
		Host:     c.String("host"),
		Port:     uint16(c.Uint("port")),
		Username: c.String("username"),
		Password: c.String("password"),
		Database: c.String("database"),
		SSLMode:  c.String("sslmode"),
	}
	db, err := database.Connect(c.Context, dbCfg, btCfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		err = common.AppendError(err, db.CloseConnection())
	}()
	if c.Bool("replace") {
		for s := range bars {
			deleted, err := bar.DeleteBars(c.Context, db, s)
			if err != nil {
				return err
			}
			log.Infof(log.DatabaseMgr, "deleted %d stored bars for %v", deleted, s)
		}
	}
	n, err := database.Store(c.Context, db, bars)
	if err != nil {
		return err
	}
	log.Infof(log.DatabaseMgr, "imported %d bars for %d symbols into %v", n, len(bars), db.Driver())
	return nil
}
