package portfolio

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/eventhandlers/portfolio/holdings"
	"github.com/thrasher-corp/barbacktester/eventtypes/fill"
	"github.com/thrasher-corp/barbacktester/eventtypes/market"
	"github.com/thrasher-corp/barbacktester/eventtypes/order"
	"github.com/thrasher-corp/barbacktester/eventtypes/signal"
	"github.com/thrasher-corp/barbacktester/results"
)

var (
	// DefaultLeverage is the number of shares bought for a signal of strength one
	DefaultLeverage = decimal.NewFromInt(1000)
	// DefaultInitialCapital is the starting cash
	DefaultInitialCapital = decimal.NewFromInt(100000)
)

var (
	errAlreadyProcessedOffset = errors.New("time index already processed for offset")
	errOpenPosition           = errors.New("cannot remove symbol with an open position")
	errTimeNotForward         = errors.New("market time must move forward")
	errNegativeCapital        = errors.New("initial capital cannot be negative")
	errNoSnapshots            = errors.New("no snapshots recorded")
	errZeroTotal              = errors.New("cannot calculate returns from a zero total")
	errNilSizer               = errors.New("portfolio size manager not set")
)

// Handler consumes market, signal and fill events
type Handler interface {
	UpdateTimeIndex(*market.Market, data.Handler) error
	UpdateSignal(*signal.Signal) (*order.Order, error)
	UpdateFill(*fill.Fill) error
	SetSymbols([]string) error
	GenerateResults() (*results.Table, error)
	Reset()
}

// SizeHandler converts a signal strength into a share quantity
type SizeHandler interface {
	SizeOrder(strength decimal.Decimal) (int64, error)
}

// Portfolio owns positions, holdings, cash and the snapshot history
type Portfolio struct {
	m              sync.Mutex
	sizeManager    SizeHandler
	initialCapital decimal.Decimal
	symbols        []string
	holdings       map[string]*holdings.Holding
	cash           decimal.Decimal
	commission     decimal.Decimal
	total          decimal.Decimal
	lastOffset     int64
	lastTime       time.Time
	snapshots      []holdings.Snapshot
}
