package engine

import (
	"context"
	"fmt"

	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/config"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/data/csv"
	"github.com/thrasher-corp/barbacktester/data/database"
	"github.com/thrasher-corp/barbacktester/eventhandlers/exchange"
	"github.com/thrasher-corp/barbacktester/eventhandlers/portfolio"
	"github.com/thrasher-corp/barbacktester/eventhandlers/portfolio/size"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies"
	"github.com/thrasher-corp/barbacktester/log"
	"github.com/thrasher-corp/barbacktester/results"
)

// NewFromConfig takes a strategy config and configures a backtester variable to run.
// rc numbers the run and stores its artifacts, it may be nil. A relative
// sqlite database is resolved against dataDir
func NewFromConfig(ctx context.Context, cfg *config.Config, rc *results.RunContext, dataDir string) (*BackTest, error) {
	log.Infoln(common.SubLoggers[common.Setup], "loading config...")
	if cfg == nil {
		return nil, errNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bt := New()
	bt.RunContext = rc
	bt.MetaData.Nickname = cfg.Nickname
	bt.periodsPerYear = cfg.StatisticSettings.PeriodsPerYear

	var err error
	bt.Strategy, err = strategies.LoadStrategyByName(cfg.StrategySettings.Name)
	if err != nil {
		return nil, err
	}
	if err = bt.Strategy.SetCustomSettings(cfg.StrategySettings.CustomSettings); err != nil {
		return nil, err
	}

	dataHolder, err := bt.loadData(ctx, cfg, dataDir)
	if err != nil {
		return nil, common.AppendError(err, bt.closeResources())
	}
	bt.DataHolder = dataHolder

	sizer, err := size.New(cfg.PortfolioSettings.Leverage)
	if err != nil {
		return nil, common.AppendError(err, bt.closeResources())
	}
	bt.Portfolio, err = portfolio.Setup(dataHolder.Symbols(), cfg.PortfolioSettings.InitialCapital, sizer)
	if err != nil {
		return nil, common.AppendError(err, bt.closeResources())
	}

	commission, err := exchange.NewCommissionModel(cfg.ExchangeSettings.CommissionModel,
		cfg.ExchangeSettings.CommissionRate,
		cfg.ExchangeSettings.MinimumCommission)
	if err != nil {
		return nil, common.AppendError(err, bt.closeResources())
	}
	bt.Exchange, err = exchange.New(cfg.ExchangeSettings.Name, commission)
	if err != nil {
		return nil, common.AppendError(err, bt.closeResources())
	}

	if err = bt.SetupMetaData(); err != nil {
		return nil, common.AppendError(err, bt.closeResources())
	}
	log.Infof(common.SubLoggers[common.Setup], "loaded %v task %v with %d symbols", bt.Strategy.Name(), bt.MetaData.ID, len(dataHolder.Symbols()))
	return bt, nil
}

func (bt *BackTest) loadData(ctx context.Context, cfg *config.Config, dataDir string) (*data.Historic, error) {
	var loader data.Loader
	ds := cfg.DataSettings
	switch {
	case ds.CSVData != nil:
		log.Infof(common.SubLoggers[common.Setup], "loading %v data from %v", common.CSVStr, ds.CSVData.Path)
		loader = &csv.Loader{Dir: ds.CSVData.Path}
	case ds.DatabaseData != nil:
		path := dataDir
		if ds.DatabaseData.Path != "" {
			path = ds.DatabaseData.Path
		}
		db, err := database.Connect(ctx, &ds.DatabaseData.Config, path)
		if err != nil {
			return nil, err
		}
		bt.closers = append(bt.closers, db.CloseConnection)
		log.Infof(common.SubLoggers[common.Setup], "loading %v data from %v", common.DatabaseStr, db.Driver())
		loader = &database.Loader{
			DB:    db,
			Start: ds.DatabaseData.StartDate,
			End:   ds.DatabaseData.EndDate,
		}
	default:
		return nil, fmt.Errorf("%w, expected %v or %v", common.ErrInvalidDataType, common.CSVStr, common.DatabaseStr)
	}
	return data.NewHistoric(ctx, loader, ds.Symbols, ds.TestDate, ds.Adjust)
}
