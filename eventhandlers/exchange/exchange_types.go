package exchange

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/eventtypes/fill"
	"github.com/thrasher-corp/barbacktester/eventtypes/order"
)

// Commission model names
const (
	TieredModel   = "tiered"
	ZeroModel     = "zero"
	PerShareModel = "per-share"
)

// DefaultExchangeName is used when no venue is configured
const DefaultExchangeName = "SIMULATED"

var (
	// ErrNoPrice is returned when there is no close to fill an order at
	ErrNoPrice = errors.New("no price available to fill order")
	// ErrUnknownCommissionModel is returned for unrecognised model names
	ErrUnknownCommissionModel = errors.New("unknown commission model")

	errNilCommission = errors.New("commission model not set")
)

// ExecutionHandler interface dictates what functions are required to submit an order
type ExecutionHandler interface {
	ExecuteOrder(*order.Order, data.Handler) (*fill.Fill, error)
}

// CommissionModel calculates the fee for filling quantity shares at price
type CommissionModel interface {
	Name() string
	Calculate(quantity int64, price decimal.Decimal) decimal.Decimal
}

// Exchange fills every order immediately and in full at the latest close
type Exchange struct {
	Name       string
	Commission CommissionModel
}

// Tiered charges a per share rate that drops above a share threshold, with a
// minimum fee, capped at a fraction of notional
type Tiered struct {
	Minimum       decimal.Decimal
	Threshold     int64
	LowRate       decimal.Decimal
	HighRate      decimal.Decimal
	MaxPercentage decimal.Decimal
}

// PerShare charges a flat per share rate with a minimum fee
type PerShare struct {
	Rate    decimal.Decimal
	Minimum decimal.Decimal
}

// Zero charges nothing
type Zero struct{}
