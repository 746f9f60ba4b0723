package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/barbacktester/config"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/data/csv"
	"github.com/thrasher-corp/barbacktester/data/database"
	gctdatabase "github.com/thrasher-corp/barbacktester/database"
	"github.com/thrasher-corp/barbacktester/eventhandlers/exchange"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/base"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/buyandhold"
	"github.com/thrasher-corp/barbacktester/results"
)

const csvDir = "../testdata/csv"

var csvTestDate = time.Date(2017, 1, 3, 0, 0, 0, 0, time.UTC)

func csvConfig() *config.Config {
	return &config.Config{
		Nickname:         "engine test",
		StrategySettings: config.StrategySettings{Name: buyandhold.Name},
		DataSettings: config.DataSettings{
			Symbols:  []string{"AMZN", "MSFT"},
			TestDate: csvTestDate,
			Adjust:   true,
			CSVData:  &config.CSVData{Path: csvDir},
		},
		PortfolioSettings: config.PortfolioSettings{
			Leverage: decimal.NewFromInt(100),
		},
		ExchangeSettings: config.ExchangeSettings{
			CommissionModel: exchange.ZeroModel,
		},
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, err := NewFromConfig(ctx, nil, nil, "")
	assert.ErrorIs(t, err, errNilConfig)

	cfg := csvConfig()
	cfg.StrategySettings.CustomSettings = map[string]any{"short-window": 5}
	_, err = NewFromConfig(ctx, cfg, nil, "")
	assert.ErrorIs(t, err, base.ErrCustomSettingsUnsupported)

	cfg = csvConfig()
	cfg.DataSettings.Symbols = []string{"AMZN", "NOPE"}
	_, err = NewFromConfig(ctx, cfg, nil, "")
	assert.Error(t, err, "a symbol without a csv file fails to load")

	rc, err := results.LoadOrInitialise(t.TempDir())
	require.NoError(t, err)
	bt, err := NewFromConfig(ctx, csvConfig(), rc, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"AMZN", "MSFT"}, bt.DataHolder.Symbols())
	assert.False(t, bt.MetaData.ID.IsNil())
	assert.Equal(t, buyandhold.Name, bt.MetaData.Strategy)
	assert.Equal(t, "engine test", bt.MetaData.Nickname)

	require.NoError(t, bt.ExecuteStrategy(true))
	sum, err := bt.GenerateSummary()
	require.NoError(t, err)
	require.NotNil(t, sum.Statistic)
	// 2017-01-03 is the 47th of 120 bars
	assert.Equal(t, 74, sum.Statistic.Periods)
	assert.True(t, sum.Statistic.StartDate.Equal(csvTestDate))

	saved, err := rc.Load(1)
	require.NoError(t, err)
	require.Len(t, saved.Rows, 74)
	last := saved.Rows[len(saved.Rows)-1]
	assert.Equal(t, int64(200), last.Positions["AMZN"], "the long position doubles through the 2:1 split")
	assert.Equal(t, int64(100), last.Positions["MSFT"])
}

func TestNewFromConfigDatabase(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	dbCfg := gctdatabase.Config{
		Enabled:  true,
		Driver:   gctdatabase.DBSQLite3,
		Database: "bars.db",
	}

	bars := make(map[string][]data.Bar)
	for _, s := range []string{"AMZN", "MSFT"} {
		series, err := csv.LoadFile(filepath.Join(csvDir, s+".csv"), s)
		require.NoError(t, err)
		bars[s] = series
	}
	inst, err := database.Connect(ctx, &dbCfg, dir)
	require.NoError(t, err)
	n, err := database.Store(ctx, inst, bars)
	require.NoError(t, err)
	assert.Equal(t, uint64(240), n)
	require.NoError(t, inst.CloseConnection())

	cfg := csvConfig()
	cfg.DataSettings.CSVData = nil
	cfg.DataSettings.DatabaseData = &config.DatabaseData{
		Config: dbCfg,
	}
	bt, err := NewFromConfig(ctx, cfg, nil, dir)
	require.NoError(t, err)
	require.Len(t, bt.closers, 1, "the connection is held for the run")
	require.NoError(t, bt.ExecuteStrategy(true))
	assert.Empty(t, bt.closers)

	sum, err := bt.GenerateSummary()
	require.NoError(t, err)
	require.NotNil(t, sum.Statistic)
	assert.Equal(t, 74, sum.Statistic.Periods)
}
