package exchange

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/eventtypes/event"
	"github.com/thrasher-corp/barbacktester/eventtypes/market"
	"github.com/thrasher-corp/barbacktester/eventtypes/order"
)

const testSymbol = "AMZN"

var testTime = time.Date(2017, 1, 3, 0, 0, 0, 0, time.UTC)

type fakeData struct {
	bars map[string][]data.Bar
}

func (f *fakeData) GetLatestBars(symbol string, n int) ([]data.Bar, error) {
	b, ok := f.bars[symbol]
	if !ok {
		return nil, common.ErrSymbolNotFound
	}
	if n > len(b) {
		n = len(b)
	}
	return b[len(b)-n:], nil
}

func (f *fakeData) UpdateBars() (*market.Market, error) { return nil, nil }
func (f *fakeData) HasMoreData() bool                   { return false }
func (f *fakeData) Symbols() []string                   { return []string{testSymbol} }

func testOrder(t *testing.T, side common.Side, qty int64) *order.Order {
	t.Helper()
	o, err := order.New(&event.Base{Offset: 1, Time: testTime, Symbol: testSymbol}, common.MarketOrder, side, qty)
	require.NoError(t, err)
	return o
}

func TestTiered(t *testing.T) {
	t.Parallel()
	c := NewTiered()
	assert.Equal(t, TieredModel, c.Name())
	assert.True(t, c.Calculate(0, decimal.NewFromInt(10)).IsZero())
	assert.True(t, c.Calculate(1, decimal.NewFromInt(10)).Equal(decimal.RequireFromString("0.05")), "capped at half a percent of notional")
	assert.True(t, c.Calculate(100, decimal.NewFromInt(100)).Equal(decimal.RequireFromString("1.3")), "minimum fee")
	assert.True(t, c.Calculate(200, decimal.NewFromInt(20)).Equal(decimal.RequireFromString("2.6")))
	assert.True(t, c.Calculate(500, decimal.NewFromInt(20)).Equal(decimal.RequireFromString("6.5")))
	assert.True(t, c.Calculate(1000, decimal.NewFromInt(50)).Equal(decimal.NewFromInt(8)), "lower rate above 500 shares")
}

func TestPerShareAndZero(t *testing.T) {
	t.Parallel()
	c, err := NewCommissionModel("Per-Share", decimal.RequireFromString("0.01"), decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Equal(t, PerShareModel, c.Name())
	assert.True(t, c.Calculate(10, decimal.NewFromInt(1000)).Equal(decimal.NewFromInt(1)))
	assert.True(t, c.Calculate(1000, decimal.NewFromInt(1000)).Equal(decimal.NewFromInt(10)), "no notional cap")

	c, err = NewCommissionModel(ZeroModel, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, c.Calculate(1000, decimal.NewFromInt(1000)).IsZero())
}

func TestNewCommissionModel(t *testing.T) {
	t.Parallel()
	c, err := NewCommissionModel("", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, TieredModel, c.Name())

	_, err = NewCommissionModel("flat", decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, ErrUnknownCommissionModel)

	_, err = NewCommissionModel(PerShareModel, decimal.NewFromInt(-1), decimal.Zero)
	assert.ErrorIs(t, err, ErrUnknownCommissionModel)
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New("", nil)
	assert.ErrorIs(t, err, errNilCommission)
	e, err := New("", Zero{})
	require.NoError(t, err)
	assert.Equal(t, DefaultExchangeName, e.Name)
	e.Reset()
	assert.Empty(t, e.Name)
}

func TestExecuteOrder(t *testing.T) {
	t.Parallel()
	e, err := New("ARCA", NewTiered())
	require.NoError(t, err)
	d := &fakeData{bars: map[string][]data.Bar{
		testSymbol: {
			{Symbol: testSymbol, Time: testTime.AddDate(0, 0, -1), Close: decimal.NewFromInt(9)},
			{Symbol: testSymbol, Time: testTime, Close: decimal.NewFromInt(10)},
		},
	}}

	o := testOrder(t, common.Buy, 200)
	f, err := e.ExecuteOrder(o, d)
	require.NoError(t, err)
	assert.Equal(t, "ARCA", f.GetExchange())
	assert.Equal(t, testSymbol, f.GetSymbol())
	assert.Equal(t, int64(1), f.GetOffset())
	assert.Equal(t, testTime, f.GetTime())
	assert.Equal(t, common.Buy, f.GetSide())
	assert.Equal(t, int64(200), f.GetQuantity())
	assert.True(t, f.GetFillCost().Equal(decimal.NewFromInt(10)), "fills at the latest close")
	assert.True(t, f.GetCommission().Equal(decimal.RequireFromString("2.6")))

	limit, err := order.New(&event.Base{Time: testTime, Symbol: testSymbol}, common.LimitOrder, common.Sell, 5)
	require.NoError(t, err)
	f, err = e.ExecuteOrder(limit, d)
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.GetQuantity(), "limit orders fill in full")
	assert.Equal(t, int64(-5), f.SignedQuantity())
}

func TestExecuteOrderErrors(t *testing.T) {
	t.Parallel()
	var e *Exchange
	_, err := e.ExecuteOrder(nil, nil)
	assert.ErrorIs(t, err, common.ErrNilPointer)

	e = &Exchange{Name: DefaultExchangeName}
	_, err = e.ExecuteOrder(nil, nil)
	assert.ErrorIs(t, err, common.ErrNilEvent)

	o := testOrder(t, common.Buy, 1)
	_, err = e.ExecuteOrder(o, nil)
	assert.ErrorIs(t, err, common.ErrNilPointer)

	d := &fakeData{bars: map[string][]data.Bar{}}
	_, err = e.ExecuteOrder(o, d)
	assert.ErrorIs(t, err, errNilCommission)

	e.Commission = Zero{}
	_, err = e.ExecuteOrder(o, d)
	assert.ErrorIs(t, err, common.ErrSymbolNotFound)

	d.bars[testSymbol] = nil
	_, err = e.ExecuteOrder(o, d)
	assert.ErrorIs(t, err, ErrNoPrice)

	d.bars[testSymbol] = []data.Bar{{Symbol: testSymbol, Time: testTime}}
	_, err = e.ExecuteOrder(o, d)
	assert.ErrorIs(t, err, ErrNoPrice)
}
