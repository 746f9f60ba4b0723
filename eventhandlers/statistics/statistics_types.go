package statistics

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPeriods is the number of daily bars in a trading year
const DefaultPeriods = 252

// precision is the number of decimal places kept on the float statistics
const precision = 8

var (
	errNilTable       = errors.New("results table is nil")
	errInvalidPeriods = errors.New("periods per year must be positive")
)

// Statistic summarises the performance of a run
type Statistic struct {
	StrategyName      string          `json:"strategy-name"`
	BacktestNumber    int64           `json:"backtest-number"`
	StartDate         time.Time       `json:"start-date"`
	EndDate           time.Time       `json:"end-date"`
	Periods           int             `json:"periods"`
	StartingTotal     decimal.Decimal `json:"starting-total"`
	EndingTotal       decimal.Decimal `json:"ending-total"`
	TotalReturn       float64         `json:"total-return"`
	SharpeRatio       float64         `json:"sharpe-ratio"`
	SortinoRatio      float64         `json:"sortino-ratio"`
	Volatility        float64         `json:"annualised-volatility"`
	MaxDrawdown       float64         `json:"max-drawdown"`
	DrawdownDuration  int             `json:"drawdown-duration"`
	CAGR              float64         `json:"compound-annual-growth-rate"`
	TotalCommission   decimal.Decimal `json:"total-commission"`
	PositionIncreases int64           `json:"position-increases"`
	PositionDecreases int64           `json:"position-decreases"`
}
