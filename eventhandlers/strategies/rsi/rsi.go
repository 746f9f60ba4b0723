package rsi

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/base"
	"github.com/thrasher-corp/barbacktester/eventtypes/market"
	"github.com/thrasher-corp/barbacktester/eventtypes/signal"
	"github.com/thrasher-corp/barbacktester/log"
	"github.com/thrasher-corp/gct-ta/indicators"
)

const (
	// Name is the strategy name
	Name         = "rsi"
	rsiPeriodKey = "rsi-period"
	rsiLowKey    = "rsi-low"
	rsiHighKey   = "rsi-high"
	description  = `The relative strength index is a technical indicator used in the analysis of financial markets. It is intended to chart the current and historical strength or weakness of a stock or market based on the closing prices of a recent trading period`
	// the smoothed averages are seeded from this many periods of closes
	lookbackPeriods = 10
)

var (
	errInvalidLevels = errors.New("rsi-low must be less than rsi-high and both at most 100")
	errShortPeriod   = errors.New("rsi-period must be at least 2")
)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	rsiPeriod int
	rsiLow    decimal.Decimal
	rsiHigh   decimal.Decimal
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
// be it definition of terms or to highlight its purpose
func (s *Strategy) Description() string {
	return description
}

// CalculateSignals returns a long signal for every symbol whose rsi is at or
// below the low level, and an exit signal for every symbol at or above the
// high level
func (s *Strategy) CalculateSignals(m *market.Market, d data.Handler) ([]*signal.Signal, error) {
	if m == nil {
		return nil, common.ErrNilEvent
	}
	if d == nil {
		return nil, common.ErrNilArguments
	}
	var resp []*signal.Signal
	for _, symbol := range d.Symbols() {
		closes, err := base.CloseHistory(d, symbol, s.rsiPeriod*lookbackPeriods)
		if err != nil {
			return nil, err
		}
		if len(closes) <= s.rsiPeriod {
			continue
		}
		v, err := base.LastValue(indicators.RSI(closes, s.rsiPeriod))
		if err != nil {
			return nil, fmt.Errorf("%v rsi %w", symbol, err)
		}
		latestRSIValue := decimal.NewFromFloat(v)
		var direction common.Direction
		switch {
		case latestRSIValue.GreaterThanOrEqual(s.rsiHigh):
			direction = common.Exit
		case latestRSIValue.LessThanOrEqual(s.rsiLow):
			direction = common.Long
		default:
			continue
		}
		bar, err := base.LatestBar(d, symbol)
		if err != nil {
			return nil, err
		}
		sig, err := base.NewSignal(m, bar, direction, decimal.NewFromInt(1), "RSI at "+latestRSIValue.StringFixed(2))
		if err != nil {
			return nil, err
		}
		log.Debugf(common.SubLoggers[common.Strategy], "%v %v %v", symbol, direction, sig.GetReason())
		resp = append(resp, sig)
	}
	return resp, nil
}

// SetCustomSettings allows a user to modify the RSI limits in their config
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	if len(customSettings) == 0 {
		return nil
	}
	period, low, high := s.rsiPeriod, s.rsiLow, s.rsiHigh
	for k, v := range customSettings {
		switch k {
		case rsiHighKey:
			f, err := base.PositiveNumber(k, v)
			if err != nil {
				return err
			}
			high = decimal.NewFromFloat(f)
		case rsiLowKey:
			f, err := base.PositiveNumber(k, v)
			if err != nil {
				return err
			}
			low = decimal.NewFromFloat(f)
		case rsiPeriodKey:
			p, err := base.PositiveInteger(k, v)
			if err != nil {
				return err
			}
			period = p
		default:
			return fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", base.ErrInvalidCustomSettings, k, v)
		}
	}
	if period < 2 {
		return fmt.Errorf("%w %w", base.ErrInvalidCustomSettings, errShortPeriod)
	}
	if low.GreaterThanOrEqual(high) || high.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w %w: low %v high %v", base.ErrInvalidCustomSettings, errInvalidLevels, low, high)
	}
	s.rsiPeriod, s.rsiLow, s.rsiHigh = period, low, high
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.rsiHigh = decimal.NewFromInt(70)
	s.rsiLow = decimal.NewFromInt(30)
	s.rsiPeriod = 14
}
