package data

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/eventtypes/market"
	"github.com/thrasher-corp/barbacktester/log"
)

// NewHistoric loads every symbol through the loader and positions each
// series at the first bar on or after testDate. When adjust is set, bars
// already delivered are rescaled as corporate actions are revealed
func NewHistoric(ctx context.Context, loader Loader, symbols []string, testDate time.Time, adjust bool) (*Historic, error) {
	if loader == nil {
		return nil, errNilLoader
	}
	h := &Historic{
		loader: loader,
		adjust: adjust,
	}
	if err := h.load(ctx, symbols, testDate); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Historic) load(ctx context.Context, symbols []string, testDate time.Time) error {
	cleaned, err := cleanSymbols(symbols)
	if err != nil {
		return err
	}
	loaded, err := h.loader.Load(ctx, cleaned)
	if err != nil {
		return err
	}
	series := make(map[string][]Bar, len(cleaned))
	cursor := make(map[string]int, len(cleaned))
	latest := make(map[string][]Bar, len(cleaned))
	for _, s := range cleaned {
		bars, err := validateSeries(s, loaded[s])
		if err != nil {
			return err
		}
		start, err := startIndex(s, bars, testDate, time.Time{})
		if err != nil {
			return err
		}
		series[s] = bars
		cursor[s] = start
		latest[s] = nil
	}

	h.m.Lock()
	h.symbols = cleaned
	h.series = series
	h.cursor = cursor
	h.latest = latest
	h.testDate = testDate
	h.hasMoreData = true
	h.m.Unlock()
	return nil
}

func cleanSymbols(symbols []string) ([]string, error) {
	if len(symbols) == 0 {
		return nil, errNoSymbols
	}
	seen := make(map[string]struct{}, len(symbols))
	cleaned := make([]string, len(symbols))
	for i := range symbols {
		s := strings.ToUpper(strings.TrimSpace(symbols[i]))
		if _, ok := seen[s]; ok {
			return nil, fmt.Errorf("%w %v", errDuplicateSymbol, s)
		}
		seen[s] = struct{}{}
		cleaned[i] = s
	}
	return cleaned, nil
}

// startIndex finds the first bar on or after testDate that is also after the
// last step taken
func startIndex(symbol string, bars []Bar, testDate, after time.Time) (int, error) {
	start := sort.Search(len(bars), func(i int) bool {
		return !bars[i].Time.Before(testDate) && bars[i].Time.After(after)
	})
	if start == len(bars) {
		if after.After(testDate) {
			return 0, fmt.Errorf("%w for %v after %v", ErrNoData, symbol, after)
		}
		return 0, fmt.Errorf("%w for %v on or after %v", ErrNoData, symbol, testDate)
	}
	return start, nil
}

func validateSeries(symbol string, bars []Bar) ([]Bar, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w for %v", ErrNoData, symbol)
	}
	resp := make([]Bar, len(bars))
	copy(resp, bars)
	for i := range resp {
		if resp[i].Symbol != "" && !strings.EqualFold(resp[i].Symbol, symbol) {
			return nil, fmt.Errorf("%w %v received %v", errSymbolMismatch, symbol, resp[i].Symbol)
		}
		resp[i].Symbol = symbol
		if resp[i].SplitRatio.IsZero() {
			resp[i].SplitRatio = decimal.NewFromInt(1)
		}
		if !resp[i].SplitRatio.IsPositive() {
			return nil, fmt.Errorf("%v %v %w", symbol, resp[i].Time, ErrInvalidSplitRatio)
		}
		if i > 0 && !resp[i].Time.After(resp[i-1].Time) {
			return nil, fmt.Errorf("%v %w, %v is not after %v", symbol, errUnorderedBars, resp[i].Time, resp[i-1].Time)
		}
	}
	return resp, nil
}

// UpdateSymbols changes the symbol universe between bar steps. Symbols that
// stay keep their delivered history and carry on from their next bar. New
// symbols are loaded through the loader and join at the first bar on or after
// testDate that follows the last step. Dropped symbols are forgotten
func (h *Historic) UpdateSymbols(ctx context.Context, symbols []string, testDate time.Time) error {
	if h == nil {
		return fmt.Errorf("%w Historic", common.ErrNilPointer)
	}
	cleaned, err := cleanSymbols(symbols)
	if err != nil {
		return err
	}
	h.m.Lock()
	defer h.m.Unlock()
	var added []string
	for _, s := range cleaned {
		if _, ok := h.series[s]; !ok {
			added = append(added, s)
		}
	}
	var loaded map[string][]Bar
	if len(added) > 0 {
		loaded, err = h.loader.Load(ctx, added)
		if err != nil {
			return err
		}
	}

	series := make(map[string][]Bar, len(cleaned))
	cursor := make(map[string]int, len(cleaned))
	latest := make(map[string][]Bar, len(cleaned))
	for _, s := range cleaned {
		if bars, ok := h.series[s]; ok {
			series[s] = bars
			cursor[s] = h.cursor[s]
			latest[s] = h.latest[s]
			continue
		}
		bars, err := validateSeries(s, loaded[s])
		if err != nil {
			return err
		}
		start, err := startIndex(s, bars, testDate, h.lastTime)
		if err != nil {
			return err
		}
		series[s] = bars
		cursor[s] = start
		latest[s] = nil
	}
	if len(added) > 0 || len(cleaned) != len(h.symbols) {
		log.Infof(common.SubLoggers[common.Data], "symbol universe changed from %v to %v", h.symbols, cleaned)
	}
	h.symbols = cleaned
	h.series = series
	h.cursor = cursor
	h.latest = latest
	h.hasMoreData = true
	for _, s := range cleaned {
		if cursor[s] >= len(series[s]) {
			h.hasMoreData = false
			break
		}
	}
	return nil
}

// Symbols returns the current symbol universe
func (h *Historic) Symbols() []string {
	if h == nil {
		return nil
	}
	h.m.RLock()
	defer h.m.RUnlock()
	resp := make([]string, len(h.symbols))
	copy(resp, h.symbols)
	return resp
}

// HasMoreData returns whether another bar step can be taken
func (h *Historic) HasMoreData() bool {
	if h == nil {
		return false
	}
	h.m.RLock()
	defer h.m.RUnlock()
	return h.hasMoreData
}

// UpdateBars reveals the next bar for every symbol and returns the market
// event for the step. If any symbol has no next bar, nothing is revealed,
// HasMoreData becomes false and nil is returned. A corporate action with a
// zero close is a numeric failure and leaves the source untouched
func (h *Historic) UpdateBars() (*market.Market, error) {
	if h == nil {
		return nil, fmt.Errorf("%w Historic", common.ErrNilPointer)
	}
	h.m.Lock()
	defer h.m.Unlock()
	if !h.hasMoreData {
		return nil, nil
	}
	for _, s := range h.symbols {
		if h.cursor[s] >= len(h.series[s]) {
			h.hasMoreData = false
			return nil, nil
		}
	}

	ratios := make(map[string]decimal.Decimal)
	if h.adjust {
		for _, s := range h.symbols {
			bar := &h.series[s][h.cursor[s]]
			if !bar.HasCorporateAction() {
				continue
			}
			ratio, err := bar.AdjustmentRatio()
			if err != nil {
				return nil, err
			}
			if !ratio.IsPositive() {
				return nil, fmt.Errorf("%v %v %w: adjustment ratio %v", s, bar.Time, ErrInvalidSplitRatio, ratio)
			}
			ratios[s] = ratio
		}
	}

	var stepTime time.Time
	for _, s := range h.symbols {
		bar := h.series[s][h.cursor[s]]
		if ratio, ok := ratios[s]; ok && !ratio.Equal(decimal.NewFromInt(1)) {
			if err := Rescale(h.latest[s], ratio); err != nil {
				return nil, err
			}
			log.Debugf(common.SubLoggers[common.Data], "%v %v adjusted %d prior bars by %v, dividend %v split %v",
				s, bar.Time.Format(time.DateOnly), len(h.latest[s]), ratio, bar.ExDividend, bar.SplitRatio)
		}
		h.latest[s] = append(h.latest[s], bar)
		h.cursor[s]++
		if bar.Time.After(stepTime) {
			stepTime = bar.Time
		}
	}
	h.offset++
	h.lastTime = stepTime
	return market.New(h.offset, stepTime), nil
}

// GetLatestBars returns up to the n most recent bars delivered for the
// symbol, most recent last. The returned bars are copies
func (h *Historic) GetLatestBars(symbol string, n int) ([]Bar, error) {
	if h == nil {
		return nil, fmt.Errorf("%w Historic", common.ErrNilPointer)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w, received %d", errInvalidBarCount, n)
	}
	h.m.RLock()
	defer h.m.RUnlock()
	bars, ok := h.latest[strings.ToUpper(symbol)]
	if !ok {
		return nil, fmt.Errorf("%w %v", common.ErrSymbolNotFound, symbol)
	}
	if n > len(bars) {
		n = len(bars)
	}
	resp := make([]Bar, n)
	copy(resp, bars[len(bars)-n:])
	return resp, nil
}

// LatestBar returns the most recent bar delivered for the symbol
func (h *Historic) LatestBar(symbol string) (*Bar, error) {
	bars, err := h.GetLatestBars(symbol, 1)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w for %v yet", ErrNoData, symbol)
	}
	return &bars[0], nil
}

// Offset returns the number of bar steps taken
func (h *Historic) Offset() int64 {
	if h == nil {
		return 0
	}
	h.m.RLock()
	defer h.m.RUnlock()
	return h.offset
}

// AdjustedCloses returns the delivered close prices of every symbol
func (h *Historic) AdjustedCloses() map[string][]decimal.Decimal {
	if h == nil {
		return nil
	}
	h.m.RLock()
	defer h.m.RUnlock()
	resp := make(map[string][]decimal.Decimal, len(h.latest))
	for s, bars := range h.latest {
		closes := make([]decimal.Decimal, len(bars))
		for i := range bars {
			closes[i] = bars[i].Close
		}
		resp[s] = closes
	}
	return resp
}

// TrainDate is the latest first bar date across the universe, the first
// date every symbol has data for
func (h *Historic) TrainDate() time.Time {
	if h == nil {
		return time.Time{}
	}
	h.m.RLock()
	defer h.m.RUnlock()
	var resp time.Time
	for _, s := range h.symbols {
		if first := h.series[s][0].Time; first.After(resp) {
			resp = first
		}
	}
	return resp
}

// TrainingSet returns a field of the symbol's bars from the train date up to,
// but excluding, the test date. The bars are adjusted for every corporate
// action in that window
func (h *Historic) TrainingSet(symbol string, f Field) ([]decimal.Decimal, error) {
	if h == nil {
		return nil, fmt.Errorf("%w Historic", common.ErrNilPointer)
	}
	trainDate := h.TrainDate()
	h.m.RLock()
	bars, ok := h.series[strings.ToUpper(symbol)]
	testDate := h.testDate
	h.m.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %v", common.ErrSymbolNotFound, symbol)
	}
	var window []Bar
	for i := range bars {
		if bars[i].Time.Before(trainDate) {
			continue
		}
		if !bars[i].Time.Before(testDate) {
			break
		}
		window = append(window, bars[i])
	}
	adjusted, _, err := AdjustHistory(window)
	if err != nil {
		return nil, err
	}
	resp := make([]decimal.Decimal, len(adjusted))
	for i := range adjusted {
		resp[i], err = adjusted[i].Field(f)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// SortOldest returns the universe ordered by the date of each symbol's
// first bar, oldest first
func (h *Historic) SortOldest() []string {
	if h == nil {
		return nil
	}
	h.m.RLock()
	defer h.m.RUnlock()
	resp := make([]string, len(h.symbols))
	copy(resp, h.symbols)
	sort.SliceStable(resp, func(i, j int) bool {
		return h.series[resp[i]][0].Time.Before(h.series[resp[j]][0].Time)
	})
	return resp
}
