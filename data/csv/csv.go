package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/log"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	errNoBarData       = errors.New("no bar data in file")
	errMissingColumn   = errors.New("csv header missing required column")
	errMissingValue    = errors.New("csv row missing required value")
	errUnparseableDate = errors.New("could not parse date")
	errEmptyDirectory  = errors.New("csv directory not set")
)

var (
	requiredColumns = []string{"date", "open", "high", "low", "close", "volume"}
	dateLayouts     = []string{time.DateOnly, time.RFC3339, time.DateTime}
	columnAliases   = map[string]string{
		"datetime":    "date",
		"timestamp":   "date",
		"exdividend":  "ex-dividend",
		"dividend":    "ex-dividend",
		"split ratio": "split-ratio",
		"split":       "split-ratio",
	}
)

// Loader reads one <SYMBOL>.csv file per symbol from Dir
type Loader struct {
	Dir string
}

// Load implements data.Loader
func (l *Loader) Load(ctx context.Context, symbols []string) (map[string][]data.Bar, error) {
	if l == nil || l.Dir == "" {
		return nil, errEmptyDirectory
	}
	resp := make(map[string][]data.Bar, len(symbols))
	for i := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := strings.ToUpper(symbols[i])
		path := filepath.Join(l.Dir, s+".csv")
		bars, err := LoadFile(path, s)
		if err != nil {
			return nil, err
		}
		log.Debugf(common.SubLoggers[common.Data], "loaded %d bars for %v from %v", len(bars), s, path)
		resp[s] = bars
	}
	return resp, nil
}

// LoadFile parses a single csv file of bars for symbol, sorted by date
func LoadFile(path, symbol string) ([]data.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Errorln(common.SubLoggers[common.Data], closeErr)
		}
	}()
	bars, err := Parse(f, symbol)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return bars, nil
}

// Parse reads bars from r. The first row is a header naming the columns,
// ex-dividend and split-ratio are optional. UTF-8 and UTF-16 byte order
// marks are honoured
func Parse(r io.Reader, symbol string) ([]data.Bar, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	csvReader := csv.NewReader(decoded)
	csvReader.TrimLeadingSpace = true
	header, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errNoBarData
		}
		return nil, err
	}
	columns := make(map[string]int, len(header))
	for i := range header {
		name := strings.ToLower(strings.TrimSpace(header[i]))
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		columns[name] = i
	}
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			return nil, fmt.Errorf("%w '%v'", errMissingColumn, c)
		}
	}

	var bars []data.Bar
	for line := 2; ; line++ {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		bar, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bar.Symbol = symbol
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, errNoBarData
	}
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})
	return bars, nil
}

func parseRow(row []string, columns map[string]int) (data.Bar, error) {
	var bar data.Bar
	var err error
	bar.Time, err = parseDate(row[columns["date"]])
	if err != nil {
		return bar, err
	}
	fields := []struct {
		column   string
		dst      *decimal.Decimal
		required bool
	}{
		{"open", &bar.Open, true},
		{"high", &bar.High, true},
		{"low", &bar.Low, true},
		{"close", &bar.Close, true},
		{"volume", &bar.Volume, true},
		{"ex-dividend", &bar.ExDividend, false},
		{"split-ratio", &bar.SplitRatio, false},
	}
	for i := range fields {
		idx, ok := columns[fields[i].column]
		if !ok || idx >= len(row) || strings.TrimSpace(row[idx]) == "" {
			if fields[i].required {
				return bar, fmt.Errorf("%w '%v'", errMissingValue, fields[i].column)
			}
			continue
		}
		*fields[i].dst, err = decimal.NewFromString(strings.TrimSpace(row[idx]))
		if err != nil {
			return bar, fmt.Errorf("%v: %w", fields[i].column, err)
		}
	}
	if bar.SplitRatio.IsZero() {
		bar.SplitRatio = decimal.NewFromInt(1)
	}
	return bar, nil
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for i := range dateLayouts {
		if t, err := time.Parse(dateLayouts[i], v); err == nil {
			return t.UTC(), nil
		}
	}
	if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w '%v'", errUnparseableDate, v)
}
