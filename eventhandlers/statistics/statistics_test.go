package statistics

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/log"
	"github.com/thrasher-corp/barbacktester/results"
)

const testSymbol = "AMZN"

func testTable(totals ...int64) *results.Table {
	t := &results.Table{Symbols: []string{testSymbol}}
	start := time.Date(2017, 1, 3, 0, 0, 0, 0, time.UTC)
	one := decimal.NewFromInt(1)
	equity := one
	for i := range totals {
		r := decimal.Zero
		if i > 0 {
			r = decimal.NewFromInt(totals[i]).Div(decimal.NewFromInt(totals[i-1])).Sub(one)
		}
		equity = equity.Mul(one.Add(r))
		t.Rows = append(t.Rows, results.Row{
			Time:        start.AddDate(0, 0, i),
			Positions:   map[string]int64{testSymbol: int64(i % 2)},
			Cash:        decimal.NewFromInt(totals[i]),
			Commission:  decimal.NewFromInt(int64(i)),
			Total:       decimal.NewFromInt(totals[i]),
			Returns:     r,
			EquityCurve: equity,
		})
	}
	return t
}

func TestCalculate(t *testing.T) {
	t.Parallel()
	_, err := Calculate(nil, DefaultPeriods)
	assert.ErrorIs(t, err, errNilTable)
	_, err = Calculate(&results.Table{}, DefaultPeriods)
	assert.ErrorIs(t, err, results.ErrNoRows)
	_, err = Calculate(testTable(100), 0)
	assert.ErrorIs(t, err, errInvalidPeriods)

	s, err := Calculate(testTable(100, 110, 99, 121), DefaultPeriods)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Periods)
	assert.InDelta(t, 21.0, s.TotalReturn, 1e-9)
	assert.InDelta(t, 10.0, s.MaxDrawdown, 1e-9, "110 to 99 is a ten percent fall")
	assert.Equal(t, 1, s.DrawdownDuration)
	assert.True(t, s.TotalCommission.Equal(decimal.NewFromInt(3)))
	assert.True(t, s.StartingTotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.EndingTotal.Equal(decimal.NewFromInt(121)))
	assert.Greater(t, s.SharpeRatio, 0.0)
	assert.Greater(t, s.SortinoRatio, 0.0)
	assert.Greater(t, s.Volatility, 0.0)
	assert.Greater(t, s.CAGR, 0.0)
	assert.Equal(t, int64(2), s.PositionIncreases)
	assert.Equal(t, int64(1), s.PositionDecreases)
}

func TestCalculateFlat(t *testing.T) {
	t.Parallel()
	s, err := Calculate(testTable(100, 100, 100), DefaultPeriods)
	require.NoError(t, err)
	assert.Zero(t, s.SharpeRatio, "no variance gives a zero sharpe ratio")
	assert.Zero(t, s.SortinoRatio, "no losing period gives a zero sortino ratio")
	assert.Zero(t, s.Volatility)
	assert.Zero(t, s.MaxDrawdown)
	assert.Zero(t, s.TotalReturn)
}

func TestPrintResults(t *testing.T) {
	require.NoError(t, common.RegisterBacktesterSubLoggers())
	var buf bytes.Buffer
	sl := common.SubLoggers[common.Results]
	require.NoError(t, log.AddWriter(sl, &buf))
	defer func() {
		assert.NoError(t, log.RemoveWriter(sl, &buf))
	}()
	s, err := Calculate(testTable(100, 120), DefaultPeriods)
	require.NoError(t, err)
	s.StrategyName = "buyandhold"
	s.PrintResults()
	assert.Contains(t, buf.String(), "Buyandhold Backtest Results")
	assert.Contains(t, buf.String(), "Total Return: 20.00%")
	assert.Contains(t, buf.String(), "Sortino Ratio: 0.00")

	var nilStat *Statistic
	nilStat.PrintResults()
}
