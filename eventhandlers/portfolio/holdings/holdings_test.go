package holdings

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/eventtypes/event"
	"github.com/thrasher-corp/barbacktester/eventtypes/fill"
)

const testSymbol = "AMZN"

func testFill(t *testing.T, symbol string, side common.Side, qty, price int64) *fill.Fill {
	t.Helper()
	f, err := fill.New(&event.Base{Time: time.Now(), Symbol: symbol}, "SIMULATED", side, qty, decimal.NewFromInt(price), decimal.Zero)
	require.NoError(t, err)
	return f
}

func TestApplyFill(t *testing.T) {
	t.Parallel()
	h := Create("amzn")
	assert.Equal(t, testSymbol, h.Symbol)
	assert.ErrorIs(t, h.ApplyFill(nil), common.ErrNilEvent)
	assert.ErrorIs(t, h.ApplyFill(testFill(t, "MSFT", common.Buy, 1, 1)), errSymbolMismatch)

	require.NoError(t, h.ApplyFill(testFill(t, testSymbol, common.Buy, 10, 100)))
	assert.Equal(t, int64(10), h.Position)
	assert.True(t, h.Cost.Equal(decimal.NewFromInt(1000)))
	assert.True(t, h.CostBasis.Equal(decimal.NewFromInt(100)))

	require.NoError(t, h.ApplyFill(testFill(t, testSymbol, common.Sell, 4, 110)))
	assert.Equal(t, int64(6), h.Position)
	assert.True(t, h.Cost.Equal(decimal.NewFromInt(560)))
	assert.True(t, h.CostBasis.Equal(decimal.NewFromInt(110)))
}

func TestMarkToMarket(t *testing.T) {
	t.Parallel()
	h := &Holding{Symbol: testSymbol, Position: 10, CostBasis: decimal.NewFromInt(100)}
	h.MarkToMarket(decimal.NewFromInt(50), decimal.NewFromInt(2))
	assert.Equal(t, int64(20), h.Position, "2 for 1 split doubles the shares")
	assert.True(t, h.CostBasis.Equal(decimal.NewFromInt(50)))
	assert.True(t, h.Cost.Equal(decimal.NewFromInt(1000)))

	h.MarkToMarket(decimal.NewFromInt(60), decimal.NewFromInt(1))
	assert.Equal(t, int64(20), h.Position)
	assert.True(t, h.Cost.Equal(decimal.NewFromInt(1200)))

	h = &Holding{Symbol: testSymbol, Position: 3}
	h.MarkToMarket(decimal.NewFromInt(10), decimal.RequireFromString("1.5"))
	assert.Equal(t, int64(4), h.Position, "fractional shares are truncated")

	h = &Holding{Symbol: testSymbol, Position: -3}
	h.MarkToMarket(decimal.NewFromInt(10), decimal.RequireFromString("1.5"))
	assert.Equal(t, int64(-4), h.Position)

	h.ClearValue()
	assert.True(t, h.Cost.IsZero())
}

func TestPNL(t *testing.T) {
	t.Parallel()
	h := &Holding{Symbol: testSymbol, Position: 5, CostBasis: decimal.NewFromInt(10)}
	assert.True(t, h.PNL(decimal.NewFromInt(12)).Equal(decimal.NewFromInt(10)))
	h.Position = -5
	assert.True(t, h.PNL(decimal.NewFromInt(12)).Equal(decimal.NewFromInt(-10)))
}

func TestSnapshot(t *testing.T) {
	t.Parallel()
	s := Snapshot{Holdings: map[string]Holding{
		testSymbol: {Symbol: testSymbol, Position: 2, Cost: decimal.NewFromInt(20)},
		"MSFT":     {Symbol: "MSFT", Position: 1, Cost: decimal.NewFromInt(5)},
	}}
	assert.Equal(t, int64(2), s.Position("amzn"))
	assert.Zero(t, s.Position("TSLA"))
	assert.True(t, s.MarketValue().Equal(decimal.NewFromInt(25)))
}
