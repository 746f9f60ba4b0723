package common

import (
	"errors"
	"time"

	"github.com/thrasher-corp/barbacktester/log"
)

// Direction is the exposure change a strategy wants for a symbol
type Direction string

// Side is the side of an order or fill
type Side string

// OrderKind describes how an order is to be executed
type OrderKind string

const (
	// Long requests a long position from flat
	Long Direction = "LONG"
	// Short requests a short position from flat
	Short Direction = "SHORT"
	// Exit requests an existing position be flattened
	Exit Direction = "EXIT"

	// Buy increases a position
	Buy Side = "BUY"
	// Sell decreases a position
	Sell Side = "SELL"

	// MarketOrder fills at the current bar price
	MarketOrder OrderKind = "MARKET"
	// LimitOrder is accepted for compatibility, the simulator fills it like a market order
	LimitOrder OrderKind = "LIMIT"

	// CSVStr is a config readable data source to load bars from csv files
	CSVStr = "csv"
	// DatabaseStr is a config readable data source to load bars from a database
	DatabaseStr = "database"
)

// sub logger names
const (
	Setup      = "SETUP"
	Strategy   = "STRATEGY"
	Config     = "CONFIG"
	Portfolio  = "PORTFOLIO"
	Exchange   = "EXCHANGE"
	Data       = "DATA"
	Results    = "RESULTS"
	Backtester = "BACKTESTER"
)

var (
	// SubLoggers is a map of loggers to use across the backtester
	SubLoggers = map[string]*log.SubLogger{
		Setup:      nil,
		Strategy:   nil,
		Config:     log.ConfigMgr,
		Portfolio:  nil,
		Exchange:   nil,
		Data:       nil,
		Results:    nil,
		Backtester: log.BackTester,
	}

	// ErrNilArguments is a common error response to highlight that nils were passed in
	// when they should not have been
	ErrNilArguments = errors.New("received nil argument(s)")
	// ErrNilEvent is a common error for whenever a nil event occurs when it shouldn't have
	ErrNilEvent = errors.New("nil event received")
	// ErrNilPointer is returned when a nil receiver or dependency is used
	ErrNilPointer = errors.New("nil pointer")
	// ErrInvalidDataType occurs when an invalid data source is defined in the config
	ErrInvalidDataType = errors.New("invalid data type received")
	// ErrSymbolNotFound is returned when a symbol is not part of the data universe
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrZeroClosePrice is returned when a calculation would divide by a zero close price
	ErrZeroClosePrice = errors.New("zero close price")
	// ErrHoldingsDoNotReconcile is returned when cash plus market value no longer equals total
	ErrHoldingsDoNotReconcile = errors.New("holdings do not reconcile")
)

// Event is the routing interface every event type satisfies
type Event interface {
	GetOffset() int64
	GetTime() time.Time
	GetSymbol() string
	GetReason() string
}
