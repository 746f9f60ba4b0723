package order

import (
	"fmt"

	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/eventtypes/event"
)

// New validates and returns an order event
func New(b *event.Base, kind common.OrderKind, side common.Side, quantity int64) (*Order, error) {
	if b == nil {
		return nil, fmt.Errorf("%w event base", common.ErrNilPointer)
	}
	switch kind {
	case common.MarketOrder, common.LimitOrder:
	default:
		return nil, fmt.Errorf("%w '%v'", ErrInvalidKind, kind)
	}
	if !validSide(side) {
		return nil, fmt.Errorf("%w '%v'", ErrInvalidSide, side)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w %v", ErrNegativeQuantity, quantity)
	}
	return &Order{
		Base:     b,
		Kind:     kind,
		Side:     side,
		Quantity: quantity,
	}, nil
}

func validSide(s common.Side) bool {
	return s == common.Buy || s == common.Sell
}

// IsOrder returns whether the event is an order event
func (o *Order) IsOrder() bool {
	return true
}

// GetKind returns the order kind
func (o *Order) GetKind() common.OrderKind {
	return o.Kind
}

// GetSide returns the order side
func (o *Order) GetSide() common.Side {
	return o.Side
}

// GetQuantity returns the number of shares requested
func (o *Order) GetQuantity() int64 {
	return o.Quantity
}
