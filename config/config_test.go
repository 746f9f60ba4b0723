package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/database"
	"github.com/thrasher-corp/barbacktester/eventhandlers/exchange"
	"github.com/thrasher-corp/barbacktester/eventhandlers/portfolio"
	"github.com/thrasher-corp/barbacktester/eventhandlers/statistics"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/base"
)

const testSymbol = "AMZN"

var testDate = time.Date(2017, 1, 3, 0, 0, 0, 0, time.UTC)

func validConfig() *Config {
	return &Config{
		StrategySettings: StrategySettings{Name: "BuyAndHold"},
		DataSettings: DataSettings{
			Symbols:  []string{" amzn ", "MSFT"},
			TestDate: testDate,
			CSVData:  &CSVData{Path: "testdata"},
		},
	}
}

func TestReadConfigFromFile(t *testing.T) {
	t.Parallel()
	_, err := ReadConfigFromFile("")
	assert.ErrorIs(t, err, errNoConfigPath)
	_, err = ReadConfigFromFile(filepath.Join(t.TempDir(), "missing.strat"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.strat")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = ReadConfigFromFile(path)
	assert.Error(t, err)
}

func TestExampleConfigs(t *testing.T) {
	t.Parallel()
	entries, err := os.ReadDir("examples")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for i := range entries {
		cfg, err := ReadConfigFromFile(filepath.Join("examples", entries[i].Name()))
		require.NoError(t, err, entries[i].Name())
		assert.NoError(t, cfg.Validate(), entries[i].Name())
	}

	cfg, err := ReadConfigFromFile(filepath.Join("examples", "smacrossover.strat"))
	require.NoError(t, err)
	assert.Equal(t, float64(10), cfg.StrategySettings.CustomSettings["short-window"])
	assert.True(t, cfg.ExchangeSettings.CommissionRate.Equal(decimal.RequireFromString("0.005")))
}

func TestValidate(t *testing.T) {
	t.Parallel()
	var c *Config
	assert.ErrorIs(t, c.Validate(), common.ErrNilPointer)

	c = validConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, []string{testSymbol, "MSFT"}, c.DataSettings.Symbols, "symbols are normalised")
	assert.True(t, c.PortfolioSettings.InitialCapital.Equal(portfolio.DefaultInitialCapital))
	assert.True(t, c.PortfolioSettings.Leverage.Equal(portfolio.DefaultLeverage))
	assert.Equal(t, exchange.DefaultExchangeName, c.ExchangeSettings.Name)
	assert.Equal(t, float64(statistics.DefaultPeriods), c.StatisticSettings.PeriodsPerYear)
}

func TestValidateDate(t *testing.T) {
	t.Parallel()
	c := validConfig()
	assert.NoError(t, c.validateDate())

	c.DataSettings.DatabaseData = &DatabaseData{
		StartDate: testDate,
		EndDate:   testDate,
	}
	assert.ErrorIs(t, c.validateDate(), errBadDate)

	c.DataSettings.DatabaseData.StartDate = testDate.AddDate(0, -1, 0)
	c.DataSettings.DatabaseData.EndDate = testDate.AddDate(0, 0, -1)
	assert.ErrorIs(t, c.validateDate(), errTestDateAfterEnd)

	c.DataSettings.DatabaseData.EndDate = time.Time{}
	assert.NoError(t, c.validateDate(), "open ended ranges are allowed")
}

func TestValidateStrategySettings(t *testing.T) {
	t.Parallel()
	c := validConfig()
	c.StrategySettings.Name = "lol"
	assert.ErrorIs(t, c.validateStrategySettings(), base.ErrStrategyNotFound)

	c.StrategySettings.Name = "buyandhold"
	c.StrategySettings.CustomSettings = map[string]any{"lol": 1.0}
	assert.ErrorIs(t, c.validateStrategySettings(), base.ErrCustomSettingsUnsupported)

	c.StrategySettings.Name = "rsi"
	c.StrategySettings.CustomSettings = map[string]any{"rsi-period": "14"}
	assert.ErrorIs(t, c.validateStrategySettings(), base.ErrInvalidCustomSettings)

	c.StrategySettings.CustomSettings = map[string]any{"rsi-period": 21.0}
	assert.NoError(t, c.validateStrategySettings())
}

func TestValidateDataSettings(t *testing.T) {
	t.Parallel()
	c := validConfig()
	c.DataSettings.Symbols = nil
	assert.ErrorIs(t, c.validateDataSettings(), errNoSymbols)

	c.DataSettings.Symbols = []string{"AMZN", " "}
	assert.ErrorIs(t, c.validateDataSettings(), errNoSymbols)

	c.DataSettings.Symbols = []string{"AMZN", "amzn"}
	assert.ErrorIs(t, c.validateDataSettings(), errDuplicateSymbol)

	c.DataSettings.Symbols = []string{testSymbol}
	c.DataSettings.DatabaseData = &DatabaseData{}
	assert.ErrorIs(t, c.validateDataSettings(), errNoDataSource, "csv and database together")

	c.DataSettings.CSVData = nil
	assert.ErrorIs(t, c.validateDataSettings(), errDatabaseDisabled)

	c.DataSettings.DatabaseData.Config = database.Config{Enabled: true, Driver: database.DBSQLite3}
	assert.NoError(t, c.validateDataSettings())

	c.DataSettings.DatabaseData = nil
	assert.ErrorIs(t, c.validateDataSettings(), errNoDataSource, "no source")

	c.DataSettings.CSVData = &CSVData{}
	assert.ErrorIs(t, c.validateDataSettings(), errNoCSVPath)
}

func TestValidatePortfolioSettings(t *testing.T) {
	t.Parallel()
	c := validConfig()
	c.PortfolioSettings.InitialCapital = decimal.NewFromInt(-1)
	assert.ErrorIs(t, c.validatePortfolioSettings(), errBadInitialCapital)

	c.PortfolioSettings.InitialCapital = decimal.NewFromInt(5000)
	c.PortfolioSettings.Leverage = decimal.NewFromInt(-1)
	assert.ErrorIs(t, c.validatePortfolioSettings(), errNegativeLeverage)

	c.PortfolioSettings.Leverage = decimal.NewFromInt(10)
	require.NoError(t, c.validatePortfolioSettings())
	assert.True(t, c.PortfolioSettings.InitialCapital.Equal(decimal.NewFromInt(5000)), "set values are kept")
	assert.True(t, c.PortfolioSettings.Leverage.Equal(decimal.NewFromInt(10)))
}

func TestValidateCommission(t *testing.T) {
	t.Parallel()
	c := validConfig()
	c.ExchangeSettings.CommissionModel = "lol"
	assert.ErrorIs(t, c.validateCommission(), errInvalidCommission)
	assert.ErrorIs(t, c.validateCommission(), exchange.ErrUnknownCommissionModel)

	c.ExchangeSettings.CommissionModel = exchange.PerShareModel
	c.ExchangeSettings.CommissionRate = decimal.NewFromInt(-1)
	assert.ErrorIs(t, c.validateCommission(), errInvalidCommission)

	c.ExchangeSettings.CommissionRate = decimal.RequireFromString("0.01")
	assert.NoError(t, c.validateCommission())
}

func TestValidateStatisticSettings(t *testing.T) {
	t.Parallel()
	c := validConfig()
	c.StatisticSettings.PeriodsPerYear = -1
	assert.ErrorIs(t, c.validateStatisticSettings(), errInvalidPeriodsPerYear)
	c.StatisticSettings.PeriodsPerYear = 52
	require.NoError(t, c.validateStatisticSettings())
	assert.Equal(t, float64(52), c.StatisticSettings.PeriodsPerYear)
}

func TestPrintSetting(t *testing.T) {
	t.Parallel()
	c := validConfig()
	c.StrategySettings.CustomSettings = map[string]any{"test": 1}
	c.DataSettings.DatabaseData = &DatabaseData{StartDate: testDate, EndDate: testDate.AddDate(1, 0, 0)}
	c.ExchangeSettings.CommissionModel = exchange.PerShareModel
	assert.NotPanics(t, c.PrintSetting)
}
