package fill

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/eventtypes/event"
)

var (
	// ErrInvalidSide is returned when a fill is neither a buy nor a sell
	ErrInvalidSide = errors.New("invalid fill side")
	// ErrNegativeQuantity is returned when a fill quantity is below zero
	ErrNegativeQuantity = errors.New("fill quantity cannot be negative")
	// ErrNegativeAmount is returned when a fill price or commission is below zero
	ErrNegativeAmount = errors.New("fill price and commission cannot be negative")
)

// Fill confirms an order executed. FillCost is the realised price per share
type Fill struct {
	*event.Base
	Exchange   string          `json:"exchange"`
	Side       common.Side     `json:"side"`
	Quantity   int64           `json:"quantity"`
	FillCost   decimal.Decimal `json:"fill-cost"`
	Commission decimal.Decimal `json:"commission"`
}
