package data

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/eventtypes/market"
)

var (
	// ErrNoData is returned when a loader could not provide any bars
	ErrNoData = errors.New("no bar data loaded")
	// ErrInvalidSplitRatio is returned when a bar carries a split ratio at or below zero
	ErrInvalidSplitRatio = errors.New("split ratio must be positive")
	errNilLoader         = errors.New("nil data loader")
	errNoSymbols         = errors.New("no symbols provided")
	errDuplicateSymbol   = errors.New("duplicate symbol")
	errUnorderedBars     = errors.New("bars must be strictly increasing by time")
	errInvalidBarCount   = errors.New("bar count must be at least one")
	errInvalidField      = errors.New("invalid bar field")
	errSymbolMismatch    = errors.New("bar symbol does not match series")
)

// Field names a price, or the volume, of a bar
type Field string

// Fields that can be requested from a training set
const (
	Open   Field = "open"
	High   Field = "high"
	Low    Field = "low"
	Close  Field = "close"
	Volume Field = "volume"
)

// Bar is one OHLCV record for a symbol, plus any corporate action that
// took effect on it
type Bar struct {
	Symbol     string          `json:"symbol"`
	Time       time.Time       `json:"timestamp"`
	Open       decimal.Decimal `json:"open"`
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	Close      decimal.Decimal `json:"close"`
	Volume     decimal.Decimal `json:"volume"`
	ExDividend decimal.Decimal `json:"ex-dividend"`
	SplitRatio decimal.Decimal `json:"split-ratio"`
}

// Adjustment records a corporate action found during a batch walk
type Adjustment struct {
	Index int             `json:"index"`
	Time  time.Time       `json:"timestamp"`
	Ratio decimal.Decimal `json:"ratio"`
}

// Loader supplies ordered historical bars for a set of symbols. Fetching and
// caching the bars is the loader's concern
type Loader interface {
	Load(ctx context.Context, symbols []string) (map[string][]Bar, error)
}

// Handler is the bar data source the backtester is driven by
type Handler interface {
	GetLatestBars(symbol string, n int) ([]Bar, error)
	UpdateBars() (*market.Market, error)
	HasMoreData() bool
	Symbols() []string
}

// SymbolUpdater is implemented by data sources that can change their symbol
// universe between bar steps
type SymbolUpdater interface {
	UpdateSymbols(ctx context.Context, symbols []string, testDate time.Time) error
}

// Historic replays already available bar series one step at a time
type Historic struct {
	m           sync.RWMutex
	loader      Loader
	symbols     []string
	series      map[string][]Bar
	cursor      map[string]int
	latest      map[string][]Bar
	adjust      bool
	testDate    time.Time
	lastTime    time.Time
	offset      int64
	hasMoreData bool
}
