package fill

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/eventtypes/event"
)

// New validates and returns a fill event
func New(b *event.Base, exch string, side common.Side, quantity int64, fillCost, commission decimal.Decimal) (*Fill, error) {
	if b == nil {
		return nil, fmt.Errorf("%w event base", common.ErrNilPointer)
	}
	if side != common.Buy && side != common.Sell {
		return nil, fmt.Errorf("%w '%v'", ErrInvalidSide, side)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w %v", ErrNegativeQuantity, quantity)
	}
	if fillCost.IsNegative() || commission.IsNegative() {
		return nil, fmt.Errorf("%w price %v commission %v", ErrNegativeAmount, fillCost, commission)
	}
	return &Fill{
		Base:       b,
		Exchange:   exch,
		Side:       side,
		Quantity:   quantity,
		FillCost:   fillCost,
		Commission: commission,
	}, nil
}

// IsFill returns whether the event is a fill event
func (f *Fill) IsFill() bool {
	return true
}

// GetExchange returns the venue that filled the order
func (f *Fill) GetExchange() string {
	return f.Exchange
}

// GetSide returns the fill side
func (f *Fill) GetSide() common.Side {
	return f.Side
}

// GetQuantity returns the number of shares filled
func (f *Fill) GetQuantity() int64 {
	return f.Quantity
}

// GetFillCost returns the price per share
func (f *Fill) GetFillCost() decimal.Decimal {
	return f.FillCost
}

// GetCommission returns the commission charged for the fill
func (f *Fill) GetCommission() decimal.Decimal {
	return f.Commission
}

// SignedQuantity returns the quantity as a position delta,
// positive for buys and negative for sells
func (f *Fill) SignedQuantity() int64 {
	if f.Side == common.Sell {
		return -f.Quantity
	}
	return f.Quantity
}

// Cost returns the signed value of the shares traded, excluding commission
func (f *Fill) Cost() decimal.Decimal {
	return f.FillCost.Mul(decimal.NewFromInt(f.SignedQuantity()))
}
