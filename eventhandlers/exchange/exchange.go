package exchange

import (
	"fmt"
	"slices"
	"time"

	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/eventtypes/event"
	"github.com/thrasher-corp/barbacktester/eventtypes/fill"
	"github.com/thrasher-corp/barbacktester/eventtypes/order"
	"github.com/thrasher-corp/barbacktester/log"
)

// New returns an exchange using the commission model, defaulting the name
func New(name string, c CommissionModel) (*Exchange, error) {
	if c == nil {
		return nil, errNilCommission
	}
	if name == "" {
		name = DefaultExchangeName
	}
	return &Exchange{Name: name, Commission: c}, nil
}

// Reset returns the exchange to initial settings
func (e *Exchange) Reset() {
	*e = Exchange{}
}

// ExecuteOrder fills the order in full at the latest close of its symbol.
// Market and limit orders are treated alike. Any failure here is a
// configuration error and the run cannot continue
func (e *Exchange) ExecuteOrder(o *order.Order, d data.Handler) (*fill.Fill, error) {
	if e == nil {
		return nil, fmt.Errorf("%w exchange", common.ErrNilPointer)
	}
	if o == nil || o.Base == nil {
		return nil, common.ErrNilEvent
	}
	if d == nil {
		return nil, fmt.Errorf("%w data handler", common.ErrNilPointer)
	}
	if e.Commission == nil {
		return nil, errNilCommission
	}
	bars, err := d.GetLatestBars(o.GetSymbol(), 1)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 || !bars[0].Close.IsPositive() {
		return nil, fmt.Errorf("%w for %v at offset %d", ErrNoPrice, o.GetSymbol(), o.GetOffset())
	}
	price := bars[0].Close
	commission := e.Commission.Calculate(o.GetQuantity(), price)
	f, err := fill.New(&event.Base{
		Offset:  o.GetOffset(),
		Time:    o.GetTime(),
		Symbol:  o.GetSymbol(),
		Reasons: slices.Clone(o.GetReasons()),
	}, e.Name, o.GetSide(), o.GetQuantity(), price, commission)
	if err != nil {
		return nil, err
	}
	log.Debugf(common.SubLoggers[common.Exchange], "%v %v %v %v %d %v @ %v commission %v",
		o.GetTime().Format(time.DateOnly), e.Name, o.GetKind(), o.GetSide(), o.GetQuantity(), o.GetSymbol(), price, commission)
	return f, nil
}
