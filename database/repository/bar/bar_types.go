package bar

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	errInvalidInput = errors.New("symbol cannot be empty")
	errNoBarData    = errors.New("no bar data provided")
	// ErrNoBarDataFound returns when no bar data is found
	ErrNoBarDataFound = errors.New("no bar data found")
)

// Item holds a symbol's series of bars
type Item struct {
	Symbol string
	Bars   []Bar
}

// Bar is a single stored row
type Bar struct {
	Timestamp  time.Time
	Open       decimal.Decimal
	High       decimal.Decimal
	Low        decimal.Decimal
	Close      decimal.Decimal
	Volume     decimal.Decimal
	ExDividend decimal.Decimal
	SplitRatio decimal.Decimal
}
