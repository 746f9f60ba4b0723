package base

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/eventtypes/event"
	"github.com/thrasher-corp/barbacktester/eventtypes/market"
	"github.com/thrasher-corp/barbacktester/eventtypes/signal"
	"github.com/thrasher-corp/barbacktester/log"
)

// NewSignal returns a signal for the bar's symbol on the market event's step
func NewSignal(m *market.Market, bar *data.Bar, d common.Direction, strength decimal.Decimal, reason string) (*signal.Signal, error) {
	if m == nil {
		return nil, common.ErrNilEvent
	}
	if bar == nil {
		return nil, fmt.Errorf("%w bar", common.ErrNilPointer)
	}
	b := &event.Base{
		Offset: m.GetOffset(),
		Time:   bar.Time,
		Symbol: bar.Symbol,
	}
	if reason != "" {
		b.AppendReason(reason)
	}
	return signal.New(b, d, strength)
}

// CloseHistory returns up to n of the symbol's most recent closes, oldest
// first, for indicator calculation. A symbol the data source does not know
// is logged and an empty history returned
func CloseHistory(d data.Handler, symbol string, n int) ([]float64, error) {
	if d == nil {
		return nil, common.ErrNilArguments
	}
	bars, err := d.GetLatestBars(symbol, n)
	if err != nil {
		if errors.Is(err, common.ErrSymbolNotFound) {
			log.Warnf(common.SubLoggers[common.Strategy], "%v, skipping", err)
			return nil, nil
		}
		return nil, err
	}
	resp := make([]float64, len(bars))
	for i := range bars {
		resp[i] = bars[i].Close.InexactFloat64()
	}
	return resp, nil
}

// LatestBar returns the symbol's most recent bar, or nil when the symbol has
// no data yet
func LatestBar(d data.Handler, symbol string) (*data.Bar, error) {
	if d == nil {
		return nil, common.ErrNilArguments
	}
	bars, err := d.GetLatestBars(symbol, 1)
	if err != nil {
		if errors.Is(err, common.ErrSymbolNotFound) {
			log.Warnf(common.SubLoggers[common.Strategy], "%v, skipping", err)
			return nil, nil
		}
		return nil, err
	}
	if len(bars) == 0 {
		return nil, nil
	}
	return &bars[len(bars)-1], nil
}

// PositiveNumber parses a custom setting value read from JSON
func PositiveNumber(key string, v any) (float64, error) {
	f, ok := v.(float64)
	if !ok || f <= 0 {
		return 0, fmt.Errorf("%w provided %v value could not be parsed: %v", ErrInvalidCustomSettings, key, v)
	}
	return f, nil
}

// PositiveInteger parses a whole number custom setting value read from JSON
func PositiveInteger(key string, v any) (int, error) {
	f, err := PositiveNumber(key, v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w %v must be a whole number: %v", ErrInvalidCustomSettings, key, v)
	}
	return int(f), nil
}

// LastValue returns the final value of an indicator series
func LastValue(series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, fmt.Errorf("%w: empty series", ErrInvalidIndicatorValue)
	}
	v := series[len(series)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidIndicatorValue, v)
	}
	return v, nil
}
