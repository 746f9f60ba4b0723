package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/eventhandlers/exchange"
	"github.com/thrasher-corp/barbacktester/eventhandlers/portfolio"
	"github.com/thrasher-corp/barbacktester/eventhandlers/statistics"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies"
	"github.com/thrasher-corp/barbacktester/log"
)

// ReadConfigFromFile will take a config from a path
func ReadConfigFromFile(path string) (*Config, error) {
	if path == "" {
		return nil, errNoConfigPath
	}
	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadConfig(fileData)
}

// LoadConfig unmarshalls byte data into a config struct
func LoadConfig(data []byte) (resp *Config, err error) {
	err = json.Unmarshal(data, &resp)
	return resp, err
}

// Validate checks all config settings and fills in defaults for any
// portfolio, exchange and statistic setting left unset
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w config", common.ErrNilPointer)
	}
	err := c.validateDate()
	if err != nil {
		return err
	}
	err = c.validateStrategySettings()
	if err != nil {
		return err
	}
	err = c.validateDataSettings()
	if err != nil {
		return err
	}
	err = c.validatePortfolioSettings()
	if err != nil {
		return err
	}
	err = c.validateCommission()
	if err != nil {
		return err
	}
	return c.validateStatisticSettings()
}

// validateDate checks whether someone has set a date poorly in their config
func (c *Config) validateDate() error {
	db := c.DataSettings.DatabaseData
	if db == nil {
		return nil
	}
	if !db.StartDate.IsZero() && !db.EndDate.IsZero() && !db.StartDate.Before(db.EndDate) {
		return errBadDate
	}
	if !db.EndDate.IsZero() && c.DataSettings.TestDate.After(db.EndDate) {
		return fmt.Errorf("%w %v > %v", errTestDateAfterEnd,
			c.DataSettings.TestDate.Format(time.DateOnly),
			db.EndDate.Format(time.DateOnly))
	}
	return nil
}

func (c *Config) validateStrategySettings() error {
	s, err := strategies.LoadStrategyByName(c.StrategySettings.Name)
	if err != nil {
		return err
	}
	if err = s.SetCustomSettings(c.StrategySettings.CustomSettings); err != nil {
		return fmt.Errorf("strategy %v: %w", s.Name(), err)
	}
	return nil
}

// validateDataSettings ensures a universe is set and that bars come from
// exactly one source
func (c *Config) validateDataSettings() error {
	if len(c.DataSettings.Symbols) == 0 {
		return errNoSymbols
	}
	seen := make(map[string]bool, len(c.DataSettings.Symbols))
	for i := range c.DataSettings.Symbols {
		s := strings.ToUpper(strings.TrimSpace(c.DataSettings.Symbols[i]))
		if s == "" {
			return fmt.Errorf("%w at index %d", errNoSymbols, i)
		}
		if seen[s] {
			return fmt.Errorf("%w %v", errDuplicateSymbol, s)
		}
		seen[s] = true
		c.DataSettings.Symbols[i] = s
	}
	switch {
	case c.DataSettings.CSVData != nil && c.DataSettings.DatabaseData != nil,
		c.DataSettings.CSVData == nil && c.DataSettings.DatabaseData == nil:
		return errNoDataSource
	case c.DataSettings.CSVData != nil:
		if c.DataSettings.CSVData.Path == "" {
			return errNoCSVPath
		}
	case c.DataSettings.DatabaseData != nil:
		if !c.DataSettings.DatabaseData.Config.Enabled {
			return errDatabaseDisabled
		}
	}
	return nil
}

func (c *Config) validatePortfolioSettings() error {
	p := &c.PortfolioSettings
	switch {
	case p.InitialCapital.IsZero():
		p.InitialCapital = portfolio.DefaultInitialCapital
	case p.InitialCapital.IsNegative():
		return fmt.Errorf("%w, received %v", errBadInitialCapital, p.InitialCapital)
	}
	switch {
	case p.Leverage.IsZero():
		p.Leverage = portfolio.DefaultLeverage
	case p.Leverage.IsNegative():
		return fmt.Errorf("%w, received %v", errNegativeLeverage, p.Leverage)
	}
	return nil
}

func (c *Config) validateCommission() error {
	if c.ExchangeSettings.Name == "" {
		c.ExchangeSettings.Name = exchange.DefaultExchangeName
	}
	_, err := exchange.NewCommissionModel(c.ExchangeSettings.CommissionModel,
		c.ExchangeSettings.CommissionRate,
		c.ExchangeSettings.MinimumCommission)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidCommission, err)
	}
	return nil
}

func (c *Config) validateStatisticSettings() error {
	switch {
	case c.StatisticSettings.PeriodsPerYear == 0:
		c.StatisticSettings.PeriodsPerYear = statistics.DefaultPeriods
	case c.StatisticSettings.PeriodsPerYear < 0:
		return fmt.Errorf("%w, received %v", errInvalidPeriodsPerYear, c.StatisticSettings.PeriodsPerYear)
	}
	return nil
}

// PrintSetting prints relevant settings to the console for easy reading
func (c *Config) PrintSetting() {
	sl := common.SubLoggers[common.Config]
	log.Info(sl, "------------------Backtester Settings------------------------")
	log.Info(sl, "------------------Strategy Settings--------------------------")
	log.Infof(sl, "Strategy: %s", c.StrategySettings.Name)
	if len(c.StrategySettings.CustomSettings) > 0 {
		log.Info(sl, "Custom strategy variables:")
		for k, v := range c.StrategySettings.CustomSettings {
			log.Infof(sl, "%s: %v", k, v)
		}
	} else {
		log.Info(sl, "Custom strategy variables: unset")
	}
	if c.Nickname != "" {
		log.Infof(sl, "Nickname: %s", c.Nickname)
	}
	if c.Goal != "" {
		log.Infof(sl, "Goal: %s", c.Goal)
	}

	log.Info(sl, "------------------Data Settings------------------------------")
	log.Infof(sl, "Symbols: %v", strings.Join(c.DataSettings.Symbols, ", "))
	if !c.DataSettings.TestDate.IsZero() {
		log.Infof(sl, "Test date: %v", c.DataSettings.TestDate.Format(time.DateOnly))
	}
	log.Infof(sl, "Adjust for corporate actions: %v", c.DataSettings.Adjust)
	if c.DataSettings.CSVData != nil {
		log.Infof(sl, "Data type: %v", common.CSVStr)
		log.Infof(sl, "CSV directory: %v", c.DataSettings.CSVData.Path)
	}
	if db := c.DataSettings.DatabaseData; db != nil {
		log.Infof(sl, "Data type: %v", common.DatabaseStr)
		log.Infof(sl, "Driver: %v", db.Config.Driver)
		if !db.StartDate.IsZero() {
			log.Infof(sl, "Start date: %v", db.StartDate.Format(time.DateOnly))
		}
		if !db.EndDate.IsZero() {
			log.Infof(sl, "End date: %v", db.EndDate.Format(time.DateOnly))
		}
	}

	log.Info(sl, "------------------Portfolio Settings-------------------------")
	log.Infof(sl, "Initial capital: %v", c.PortfolioSettings.InitialCapital)
	log.Infof(sl, "Leverage: %v", c.PortfolioSettings.Leverage)

	log.Info(sl, "------------------Exchange Settings--------------------------")
	log.Infof(sl, "Exchange: %v", c.ExchangeSettings.Name)
	model := c.ExchangeSettings.CommissionModel
	if model == "" {
		model = exchange.TieredModel
	}
	log.Infof(sl, "Commission model: %v", model)
	if model == exchange.PerShareModel {
		log.Infof(sl, "Commission rate: %v minimum: %v", c.ExchangeSettings.CommissionRate, c.ExchangeSettings.MinimumCommission)
	}
}
