package csv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

const testSymbol = "AMZN"

const quandlStyle = `Date,Open,High,Low,Close,Volume,Ex-Dividend,Split Ratio
2017-01-04,757.19,769.95,754.2,767.8,3170616,0,1
2017-01-03,757.92,758.76,747.7,753.67,3521066,0,1
2017-01-05,770.0,772.0,766.0,771.0,1000,0.5,2
`

func TestParse(t *testing.T) {
	t.Parallel()
	bars, err := Parse(strings.NewReader(quandlStyle), testSymbol)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, time.Date(2017, 1, 3, 0, 0, 0, 0, time.UTC), bars[0].Time, "rows are sorted by date")
	assert.Equal(t, testSymbol, bars[0].Symbol)
	assert.True(t, bars[0].Close.Equal(decimal.RequireFromString("753.67")))
	assert.True(t, bars[2].ExDividend.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, bars[2].SplitRatio.Equal(decimal.NewFromInt(2)))
}

func TestParseOptionalColumns(t *testing.T) {
	t.Parallel()
	in := "datetime,open,high,low,close,volume\n1483401600,1,2,0.5,1.5,10\n"
	bars, err := Parse(strings.NewReader(in), testSymbol)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, time.Date(2017, 1, 3, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.True(t, bars[0].SplitRatio.Equal(decimal.NewFromInt(1)))
	assert.True(t, bars[0].ExDividend.IsZero())
}

func TestParseByteOrderMarks(t *testing.T) {
	t.Parallel()
	in := "\ufeff" + quandlStyle
	bars, err := Parse(strings.NewReader(in), testSymbol)
	require.NoError(t, err, "utf-8 bom is stripped from the header")
	assert.Len(t, bars, 3)

	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(quandlStyle)
	require.NoError(t, err)
	bars, err = Parse(strings.NewReader(encoded), testSymbol)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.True(t, bars[0].Close.Equal(decimal.RequireFromString("753.67")))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	_, err := Parse(strings.NewReader(""), testSymbol)
	assert.ErrorIs(t, err, errNoBarData)

	_, err = Parse(strings.NewReader("date,open,high,low,close,volume\n"), testSymbol)
	assert.ErrorIs(t, err, errNoBarData)

	_, err = Parse(strings.NewReader("date,open,high,low,volume\n2017-01-03,1,1,1,1\n"), testSymbol)
	assert.ErrorIs(t, err, errMissingColumn)

	_, err = Parse(strings.NewReader("date,open,high,low,close,volume\nyesterday,1,1,1,1,1\n"), testSymbol)
	assert.ErrorIs(t, err, errUnparseableDate)

	_, err = Parse(strings.NewReader("date,open,high,low,close,volume\n2017-01-03,1,1,1,lots,1\n"), testSymbol)
	assert.ErrorContains(t, err, "close")

	_, err = Parse(strings.NewReader("date,open,high,low,close,volume\n2017-01-03,1,1,1,1,1\n2017-01-04,1,1,1,,1\n"), testSymbol)
	assert.ErrorIs(t, err, errMissingValue, "an empty close is not read as zero")
	assert.ErrorContains(t, err, "line 3")

	_, err = Parse(strings.NewReader("date,open,high,low,close,volume,split-ratio\n2017-01-03,1,1,1,1,1,\n"), testSymbol)
	assert.NoError(t, err, "optional columns may be empty")
}

func TestLoad(t *testing.T) {
	t.Parallel()
	var l *Loader
	_, err := l.Load(context.Background(), []string{testSymbol})
	assert.ErrorIs(t, err, errEmptyDirectory)

	dir := t.TempDir()
	err = os.WriteFile(filepath.Join(dir, testSymbol+".csv"), []byte(quandlStyle), 0o600)
	require.NoError(t, err)

	l = &Loader{Dir: dir}
	resp, err := l.Load(context.Background(), []string{"amzn"})
	require.NoError(t, err)
	assert.Len(t, resp[testSymbol], 3)

	_, err = l.Load(context.Background(), []string{"MSFT"})
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Load(ctx, []string{testSymbol})
	assert.ErrorIs(t, err, context.Canceled)
}
