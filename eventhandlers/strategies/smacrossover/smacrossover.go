package smacrossover

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
	Name           = "smacrossover"
	shortWindowKey = "short-window"
	longWindowKey  = "long-window"
	description    = `Compares a short and a long simple moving average of the close. Goes long when the short average crosses above the long average and exits when it falls back below`
)

var errWindowOrder = errors.New("short window must be less than long window")

// Strategy is an implementation of the Handler interface
type Strategy struct {
	shortWindow int
	longWindow  int
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
func (s *Strategy) Description() string {
	return description
}

// CalculateSignals returns a long signal for every symbol whose short moving
// average is above its long moving average, and an exit signal for every
// symbol where it is below. Symbols without a long window of closes are skipped
func (s *Strategy) CalculateSignals(m *market.Market, d data.Handler) ([]*signal.Signal, error) {
	if m == nil {
		return nil, common.ErrNilEvent
	}
	if d == nil {
		return nil, common.ErrNilArguments
	}
	var resp []*signal.Signal
	for _, symbol := range d.Symbols() {
		closes, err := base.CloseHistory(d, symbol, s.longWindow)
		if err != nil {
			return nil, err
		}
		if len(closes) < s.longWindow {
			continue
		}
		shortMA, err := base.LastValue(indicators.MA(closes[len(closes)-s.shortWindow:], s.shortWindow, indicators.Sma))
		if err != nil {
			return nil, fmt.Errorf("%v short sma %w", symbol, err)
		}
		longMA, err := base.LastValue(indicators.MA(closes, s.longWindow, indicators.Sma))
		if err != nil {
			return nil, fmt.Errorf("%v long sma %w", symbol, err)
		}
		var direction common.Direction
		switch {
		case shortMA > longMA:
			direction = common.Long
		case shortMA < longMA:
			direction = common.Exit
		default:
			continue
		}
		bar, err := base.LatestBar(d, symbol)
		if err != nil {
			return nil, err
		}
		sig, err := base.NewSignal(m, bar, direction, decimal.NewFromInt(1),
			fmt.Sprintf("short sma %.4f long sma %.4f", shortMA, longMA))
		if err != nil {
			return nil, err
		}
		log.Debugf(common.SubLoggers[common.Strategy], "%v %v %v", symbol, direction, sig.GetReason())
		resp = append(resp, sig)
	}
	return resp, nil
}

// SetCustomSettings allows a user to modify the moving average windows in their config
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	if len(customSettings) == 0 {
		return nil
	}
	shortWindow, longWindow := s.shortWindow, s.longWindow
	for k, v := range customSettings {
		var err error
		switch k {
		case shortWindowKey:
			shortWindow, err = base.PositiveInteger(k, v)
		case longWindowKey:
			longWindow, err = base.PositiveInteger(k, v)
		default:
			err = fmt.Errorf("%w unrecognised custom setting key %v with value %v. Cannot apply", base.ErrInvalidCustomSettings, k, v)
		}
		if err != nil {
			return err
		}
	}
	if shortWindow >= longWindow {
		return fmt.Errorf("%w %w: %d >= %d", base.ErrInvalidCustomSettings, errWindowOrder, shortWindow, longWindow)
	}
	s.shortWindow, s.longWindow = shortWindow, longWindow
	return nil
}

// SetDefaults sets the custom settings to their default values
func (s *Strategy) SetDefaults() {
	s.shortWindow = 100
	s.longWindow = 400
}
