package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/base"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/buyandhold"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/rsi"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/smacrossover"
)

func TestGetStrategies(t *testing.T) {
	t.Parallel()
	resp := GetStrategies()
	require.Len(t, resp, 3)
	names := make(map[string]bool)
	for i := range resp {
		assert.NotEmpty(t, resp[i].Description())
		names[resp[i].Name()] = true
	}
	assert.Len(t, names, 3, "names are unique")
}

func TestLoadStrategyByName(t *testing.T) {
	t.Parallel()
	_, err := LoadStrategyByName("lol")
	assert.ErrorIs(t, err, base.ErrStrategyNotFound)

	for _, name := range []string{buyandhold.Name, smacrossover.Name, rsi.Name} {
		s, err := LoadStrategyByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name())
		assert.NoError(t, s.SetCustomSettings(nil), "defaults are applied")
	}

	a, err := LoadStrategyByName("BuyAndHold")
	require.NoError(t, err)
	b, err := LoadStrategyByName("buyandhold")
	require.NoError(t, err)
	assert.NotSame(t, a, b, "every load returns a new instance")
}
