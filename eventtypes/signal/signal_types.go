package signal

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/eventtypes/event"
)

var (
	// ErrInvalidDirection is returned when a signal is not long, short or exit
	ErrInvalidDirection = errors.New("invalid signal direction")
	// ErrNegativeStrength is returned when a signal strength is below zero
	ErrNegativeStrength = errors.New("signal strength cannot be negative")
	errMissingSymbol    = errors.New("signal requires a symbol")
)

// Signal is a strategy's desired exposure change for a symbol
type Signal struct {
	*event.Base
	Direction common.Direction `json:"direction"`
	Strength  decimal.Decimal  `json:"strength"`
}
