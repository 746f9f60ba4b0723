package strategies

import (
	"fmt"
	"strings"

	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/base"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/buyandhold"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/rsi"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/smacrossover"
)

// LoadStrategyByName returns a fresh strategy with its default settings
// applied, matching the name case-insensitively
func LoadStrategyByName(name string) (Handler, error) {
	strats := GetStrategies()
	for i := range strats {
		if !strings.EqualFold(name, strats[i].Name()) {
			continue
		}
		strats[i].SetDefaults()
		return strats[i], nil
	}
	return nil, fmt.Errorf("strategy '%v' %w", name, base.ErrStrategyNotFound)
}

// GetStrategies returns a new instance of every supported strategy
func GetStrategies() []Handler {
	return []Handler{
		new(buyandhold.Strategy),
		new(smacrossover.Strategy),
		new(rsi.Strategy),
	}
}
