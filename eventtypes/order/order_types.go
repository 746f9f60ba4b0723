package order

import (
	"errors"

	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/eventtypes/event"
)

var (
	// ErrInvalidSide is returned when an order is neither a buy nor a sell
	ErrInvalidSide = errors.New("invalid order side")
	// ErrInvalidKind is returned when an order kind is not supported
	ErrInvalidKind = errors.New("invalid order kind")
	// ErrNegativeQuantity is returned when an order quantity is below zero
	ErrNegativeQuantity = errors.New("order quantity cannot be negative")
)

// Order is a request to trade a whole number of shares of a symbol
type Order struct {
	*event.Base
	Kind     common.OrderKind `json:"kind"`
	Side     common.Side      `json:"side"`
	Quantity int64            `json:"quantity"`
}
