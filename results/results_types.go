package results

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	counterFile    = "backtest_number.json"
	artifactPrefix = "backtest_"
)

var (
	// ErrNoRows is returned when a results table has nothing to save or summarise
	ErrNoRows = errors.New("results table has no rows")

	errNoDirectory   = errors.New("results directory not set")
	errInvalidNumber = errors.New("invalid backtest number")
	errNilTable      = errors.New("nil results table")
)

// Row is the portfolio state at one bar step
type Row struct {
	Time        time.Time        `json:"timestamp"`
	Positions   map[string]int64 `json:"positions"`
	Cash        decimal.Decimal  `json:"cash"`
	Commission  decimal.Decimal  `json:"commission"`
	Total       decimal.Decimal  `json:"total"`
	Returns     decimal.Decimal  `json:"returns"`
	EquityCurve decimal.Decimal  `json:"equity-curve"`
}

// Table is the persisted run artifact, one row per bar step
type Table struct {
	Number  int64    `json:"backtest-number,omitempty"`
	Symbols []string `json:"symbols"`
	Rows    []Row    `json:"rows"`
}

// RunContext owns the persisted run counter and the artifacts written under
// its directory. It is created once at startup
type RunContext struct {
	m      sync.Mutex
	dir    string
	number int64
}

type counter struct {
	BacktestNumber int64 `json:"backtest-number"`
}
