package strategies

import (
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/eventtypes/market"
	"github.com/thrasher-corp/barbacktester/eventtypes/signal"
)

// Handler defines all functions required to run strategies against data events
type Handler interface {
	Name() string
	Description() string
	CalculateSignals(*market.Market, data.Handler) ([]*signal.Signal, error)
	SetCustomSettings(map[string]any) error
	SetDefaults()
}

// UniverseSelector is implemented by strategies that resize their symbol
// universe. It is asked once every event from a bar has been handled, a nil
// or empty result keeps the current universe
type UniverseSelector interface {
	SelectSymbols(*market.Market, data.Handler) ([]string, error)
}
