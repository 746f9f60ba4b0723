package config

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/database"
)

var (
	errBadDate               = errors.New("start date >= end date, please check your config")
	errTestDateAfterEnd      = errors.New("test date is after the database end date")
	errNoSymbols             = errors.New("no symbols set in data-settings")
	errDuplicateSymbol       = errors.New("duplicate symbol in data-settings")
	errNoDataSource          = errors.New("exactly one of csv-data or database-data must be set")
	errNoCSVPath             = errors.New("csv-data requires a path")
	errDatabaseDisabled      = errors.New("database-data config is not enabled")
	errBadInitialCapital     = errors.New("initial capital must be positive")
	errNegativeLeverage      = errors.New("leverage cannot be negative")
	errInvalidCommission     = errors.New("invalid exchange commission settings")
	errNoConfigPath          = errors.New("no config path provided")
	errInvalidPeriodsPerYear = errors.New("periods per year cannot be negative")
)

// Config defines what is in an individual strategy config
type Config struct {
	Nickname          string            `json:"nickname"`
	Goal              string            `json:"goal"`
	StrategySettings  StrategySettings  `json:"strategy-settings"`
	DataSettings      DataSettings      `json:"data-settings"`
	PortfolioSettings PortfolioSettings `json:"portfolio-settings"`
	ExchangeSettings  ExchangeSettings  `json:"exchange-settings"`
	StatisticSettings StatisticSettings `json:"statistic-settings"`
}

// StrategySettings names the strategy to run and any settings to override
// its defaults with
type StrategySettings struct {
	Name           string         `json:"name"`
	CustomSettings map[string]any `json:"custom-settings,omitempty"`
}

// DataSettings is the bar universe and where to load it from. Bars dated
// before the test date are kept as the training set
type DataSettings struct {
	Symbols      []string      `json:"symbols"`
	TestDate     time.Time     `json:"test-date"`
	Adjust       bool          `json:"adjust"`
	CSVData      *CSVData      `json:"csv-data,omitempty"`
	DatabaseData *DatabaseData `json:"database-data,omitempty"`
}

// CSVData points at a directory of <SYMBOL>.csv files
type CSVData struct {
	Path string `json:"path"`
}

// DatabaseData defines the database settings to use for the strategy.
// A zero start or end date leaves that side of the range open
type DatabaseData struct {
	StartDate time.Time       `json:"start-date"`
	EndDate   time.Time       `json:"end-date"`
	Config    database.Config `json:"config"`
	Path      string          `json:"path"`
}

// PortfolioSettings holds the starting cash and the signal strength multiplier
type PortfolioSettings struct {
	InitialCapital decimal.Decimal `json:"initial-capital"`
	Leverage       decimal.Decimal `json:"leverage"`
}

// ExchangeSettings selects the commission model used by the simulator
type ExchangeSettings struct {
	Name              string          `json:"name"`
	CommissionModel   string          `json:"commission-model"`
	CommissionRate    decimal.Decimal `json:"commission-rate"`
	MinimumCommission decimal.Decimal `json:"minimum-commission"`
}

// StatisticSettings tunes the performance summary
type StatisticSettings struct {
	PeriodsPerYear float64 `json:"periods-per-year"`
}
