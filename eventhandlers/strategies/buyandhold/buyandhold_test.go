package buyandhold

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/eventhandlers/strategies/base"
	"github.com/thrasher-corp/barbacktester/eventtypes/market"
)

var testTime = time.Date(2017, 1, 3, 0, 0, 0, 0, time.UTC)

type fakeData struct {
	symbols []string
	bars    map[string][]data.Bar
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
func (f *fakeData) HasMoreData() bool                   { return true }
func (f *fakeData) Symbols() []string                   { return f.symbols }

func (f *fakeData) add(symbol string, px int64) {
	b := f.bars[symbol]
	f.bars[symbol] = append(b, data.Bar{
		Symbol:     symbol,
		Time:       testTime.AddDate(0, 0, len(b)),
		Close:      decimal.NewFromInt(px),
		SplitRatio: decimal.NewFromInt(1),
	})
}

func TestName(t *testing.T) {
	t.Parallel()
	s := Strategy{}
	assert.Equal(t, Name, s.Name())
	assert.NotEmpty(t, s.Description())
}

func TestSetCustomSettings(t *testing.T) {
	t.Parallel()
	s := Strategy{}
	assert.NoError(t, s.SetCustomSettings(nil))
	assert.ErrorIs(t, s.SetCustomSettings(map[string]any{"test": 1.0}), base.ErrCustomSettingsUnsupported)
}

func TestCalculateSignals(t *testing.T) {
	t.Parallel()
	s := Strategy{}
	_, err := s.CalculateSignals(nil, nil)
	assert.ErrorIs(t, err, common.ErrNilEvent)
	_, err = s.CalculateSignals(market.New(1, testTime), nil)
	assert.ErrorIs(t, err, common.ErrNilArguments)

	d := &fakeData{
		symbols: []string{"AMZN", "MSFT"},
		bars:    map[string][]data.Bar{"MSFT": {}},
	}
	d.add("AMZN", 10)
	sigs, err := s.CalculateSignals(market.New(1, testTime), d)
	require.NoError(t, err)
	require.Len(t, sigs, 1, "symbols without a bar are not entered")
	assert.Equal(t, "AMZN", sigs[0].GetSymbol())
	assert.Equal(t, common.Long, sigs[0].GetDirection())
	assert.True(t, sigs[0].GetStrength().Equal(decimal.NewFromInt(1)))

	d.add("AMZN", 11)
	d.add("MSFT", 20)
	sigs, err = s.CalculateSignals(market.New(2, testTime.AddDate(0, 0, 1)), d)
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	assert.Equal(t, "MSFT", sigs[0].GetSymbol())

	sigs, err = s.CalculateSignals(market.New(3, testTime.AddDate(0, 0, 2)), d)
	require.NoError(t, err)
	assert.Empty(t, sigs, "holds forever")

	s.SetDefaults()
	sigs, err = s.CalculateSignals(market.New(4, testTime.AddDate(0, 0, 3)), d)
	require.NoError(t, err)
	assert.Len(t, sigs, 2)
}
