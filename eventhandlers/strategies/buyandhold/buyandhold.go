package buyandhold

import (
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/base"
	"github.com/thrasher-corp/barbacktester/eventtypes/market"
	"github.com/thrasher-corp/barbacktester/eventtypes/signal"
)

const (
	// Name is the strategy name
	Name        = "buyandhold"
	description = `Goes long every symbol as soon as it has a bar and never exits. It is the benchmark other strategies are compared against`
)

// Strategy is an implementation of the Handler interface
type Strategy struct {
	bought map[string]bool
}

// Name returns the name
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
func (s *Strategy) Description() string {
	return description
}

// CalculateSignals generates a single long signal per symbol, the first time
// that symbol has a bar
func (s *Strategy) CalculateSignals(m *market.Market, d data.Handler) ([]*signal.Signal, error) {
	if m == nil {
		return nil, common.ErrNilEvent
	}
	if d == nil {
		return nil, common.ErrNilArguments
	}
	if s.bought == nil {
		s.bought = make(map[string]bool)
	}
	var resp []*signal.Signal
	for _, symbol := range d.Symbols() {
		if s.bought[symbol] {
			continue
		}
		bar, err := base.LatestBar(d, symbol)
		if err != nil {
			return nil, err
		}
		if bar == nil {
			continue
		}
		sig, err := base.NewSignal(m, bar, common.Long, decimal.NewFromInt(1), "buy and hold entry")
		if err != nil {
			return nil, err
		}
		resp = append(resp, sig)
		s.bought[symbol] = true
	}
	return resp, nil
}

// SetCustomSettings not required for buy and hold
func (s *Strategy) SetCustomSettings(customSettings map[string]any) error {
	if len(customSettings) > 0 {
		return base.ErrCustomSettingsUnsupported
	}
	return nil
}

// SetDefaults forgets every entry made
func (s *Strategy) SetDefaults() {
	s.bought = make(map[string]bool)
}
