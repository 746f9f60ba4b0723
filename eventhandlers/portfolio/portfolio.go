package portfolio

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/data"
	"github.com/thrasher-corp/barbacktester/eventhandlers/portfolio/holdings"
	"github.com/thrasher-corp/barbacktester/eventtypes/event"
	"github.com/thrasher-corp/barbacktester/eventtypes/fill"
	"github.com/thrasher-corp/barbacktester/eventtypes/market"
	"github.com/thrasher-corp/barbacktester/eventtypes/order"
	"github.com/thrasher-corp/barbacktester/eventtypes/signal"
	"github.com/thrasher-corp/barbacktester/log"
	"github.com/thrasher-corp/barbacktester/results"
)

// Setup returns a flat portfolio for the symbols holding initialCapital in cash
func Setup(symbols []string, initialCapital decimal.Decimal, sh SizeHandler) (*Portfolio, error) {
	if sh == nil {
		return nil, errNilSizer
	}
	if initialCapital.IsNegative() {
		return nil, fmt.Errorf("%w, received %v", errNegativeCapital, initialCapital)
	}
	p := &Portfolio{
		sizeManager:    sh,
		initialCapital: initialCapital,
	}
	p.Reset()
	if err := p.SetSymbols(symbols); err != nil {
		return nil, err
	}
	return p, nil
}

// Reset returns the portfolio to its initial cash with no positions or history
func (p *Portfolio) Reset() {
	if p == nil {
		return
	}
	p.m.Lock()
	defer p.m.Unlock()
	p.cash = p.initialCapital
	p.total = p.initialCapital
	p.commission = decimal.Zero
	p.lastOffset = 0
	p.lastTime = time.Time{}
	p.snapshots = nil
	p.holdings = make(map[string]*holdings.Holding, len(p.symbols))
	for _, s := range p.symbols {
		p.holdings[s] = holdings.Create(s)
	}
}

// SetSymbols keeps holdings for exactly the symbols given. New symbols start
// flat, a symbol can only be dropped once its position is closed
func (p *Portfolio) SetSymbols(symbols []string) error {
	if p == nil {
		return fmt.Errorf("%w portfolio", common.ErrNilPointer)
	}
	p.m.Lock()
	defer p.m.Unlock()
	return p.setSymbols(symbols)
}

func (p *Portfolio) setSymbols(symbols []string) error {
	wanted := make([]string, 0, len(symbols))
	for i := range symbols {
		s := strings.ToUpper(strings.TrimSpace(symbols[i]))
		if s == "" || slices.Contains(wanted, s) {
			continue
		}
		wanted = append(wanted, s)
	}
	for s, h := range p.holdings {
		if slices.Contains(wanted, s) {
			continue
		}
		if h.Position != 0 {
			return fmt.Errorf("%w %v, position %d", errOpenPosition, s, h.Position)
		}
	}
	for s := range p.holdings {
		if !slices.Contains(wanted, s) {
			delete(p.holdings, s)
		}
	}
	for _, s := range wanted {
		if _, ok := p.holdings[s]; !ok {
			p.holdings[s] = holdings.Create(s)
		}
	}
	p.symbols = wanted
	p.total = p.cash.Add(p.marketValue())
	return p.reconcile()
}

// UpdateTimeIndex marks every holding to the latest close. It runs once per
// market event, before any order from that bar is evaluated, and follows the
// data source when its symbol universe has changed. Positions are carried
// through splits. A symbol without a bar is valued at zero
func (p *Portfolio) UpdateTimeIndex(m *market.Market, d data.Handler) error {
	if p == nil {
		return fmt.Errorf("%w portfolio", common.ErrNilPointer)
	}
	if m == nil || m.Base == nil {
		return common.ErrNilEvent
	}
	if d == nil {
		return fmt.Errorf("%w data handler", common.ErrNilPointer)
	}
	p.m.Lock()
	defer p.m.Unlock()
	if m.GetOffset() <= p.lastOffset {
		return fmt.Errorf("%w %d, last processed %d", errAlreadyProcessedOffset, m.GetOffset(), p.lastOffset)
	}
	if !p.lastTime.IsZero() && !m.GetTime().After(p.lastTime) {
		return fmt.Errorf("%w, %v is not after %v", errTimeNotForward, m.GetTime(), p.lastTime)
	}
	if symbols := d.Symbols(); !sameSymbols(symbols, p.symbols) {
		if err := p.setSymbols(symbols); err != nil {
			return err
		}
	}

	// value into copies so a failure leaves the previous state intact
	next := make(map[string]*holdings.Holding, len(p.holdings))
	for _, s := range p.symbols {
		h := *p.holdings[s]
		bars, err := d.GetLatestBars(s, 1)
		switch {
		case errors.Is(err, common.ErrSymbolNotFound):
			log.Warnf(common.SubLoggers[common.Portfolio], "%v, valuing at zero", err)
			h.ClearValue()
		case err != nil:
			return err
		case len(bars) == 0:
			log.Warnf(common.SubLoggers[common.Portfolio], "no bar for %v at offset %d, valuing at zero", s, m.GetOffset())
			h.ClearValue()
		default:
			before := h.Position
			h.MarkToMarket(bars[0].Close, bars[0].Split())
			if h.Position != before {
				log.Infof(common.SubLoggers[common.Portfolio], "%v %v split %v, position %d to %d",
					bars[0].Time.Format(time.DateOnly), s, bars[0].SplitRatio, before, h.Position)
			}
		}
		next[s] = &h
	}
	p.holdings = next
	p.total = p.cash.Add(p.marketValue())
	p.lastOffset = m.GetOffset()
	p.lastTime = m.GetTime()
	p.snapshots = append(p.snapshots, p.snapshot(m.GetOffset(), m.GetTime()))
	return p.reconcile()
}

// UpdateSignal turns a signal into an order. Long and short are only acted
// on from flat, exit only with an open position; anything else is ignored
func (p *Portfolio) UpdateSignal(s *signal.Signal) (*order.Order, error) {
	if p == nil {
		return nil, fmt.Errorf("%w portfolio", common.ErrNilPointer)
	}
	if s == nil || s.Base == nil {
		return nil, common.ErrNilEvent
	}
	p.m.Lock()
	defer p.m.Unlock()
	symbol := strings.ToUpper(s.GetSymbol())
	h, ok := p.holdings[symbol]
	if !ok {
		log.Warnf(common.SubLoggers[common.Portfolio], "signal ignored, %v %v", common.ErrSymbolNotFound, symbol)
		return nil, nil
	}

	var side common.Side
	var qty int64
	switch {
	case (s.GetDirection() == common.Long || s.GetDirection() == common.Short) && h.Position == 0:
		var err error
		qty, err = p.sizeManager.SizeOrder(s.GetStrength())
		if err != nil {
			return nil, err
		}
		side = common.Buy
		if s.GetDirection() == common.Short {
			side = common.Sell
		}
	case s.GetDirection() == common.Exit && h.Position != 0:
		qty = h.Position
		side = common.Sell
		if qty < 0 {
			qty = -qty
			side = common.Buy
		}
	default:
		log.Debugf(common.SubLoggers[common.Portfolio], "%v %v ignored with position %d", symbol, s.GetDirection(), h.Position)
		return nil, nil
	}
	if qty == 0 {
		log.Debugf(common.SubLoggers[common.Portfolio], "%v %v sized to zero shares", symbol, s.GetDirection())
		return nil, nil
	}

	b := &event.Base{
		Offset:  s.GetOffset(),
		Time:    s.GetTime(),
		Symbol:  symbol,
		Reasons: slices.Clone(s.GetReasons()),
	}
	b.AppendReasonf("%v signal with position %d", s.GetDirection(), h.Position)
	return order.New(b, common.MarketOrder, side, qty)
}

// UpdateFill applies a fill to the position, holding, cash and commission
func (p *Portfolio) UpdateFill(f *fill.Fill) error {
	if p == nil {
		return fmt.Errorf("%w portfolio", common.ErrNilPointer)
	}
	if f == nil || f.Base == nil {
		return common.ErrNilEvent
	}
	p.m.Lock()
	defer p.m.Unlock()
	h, ok := p.holdings[strings.ToUpper(f.GetSymbol())]
	if !ok {
		return fmt.Errorf("fill for %w %v", common.ErrSymbolNotFound, f.GetSymbol())
	}
	if err := h.ApplyFill(f); err != nil {
		return err
	}
	p.cash = p.cash.Sub(f.Cost()).Sub(f.GetCommission())
	p.commission = p.commission.Add(f.GetCommission())
	p.total = p.cash.Add(p.marketValue())
	log.Debugf(common.SubLoggers[common.Portfolio], "%v %v %d %v @ %v, position %d cash %v",
		f.GetTime().Format(time.DateOnly), f.GetSide(), f.GetQuantity(), h.Symbol, f.GetFillCost(), h.Position, p.cash)
	return p.reconcile()
}

func sameSymbols(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !slices.Contains(b, strings.ToUpper(a[i])) {
			return false
		}
	}
	return true
}

func (p *Portfolio) marketValue() decimal.Decimal {
	resp := decimal.Zero
	for _, h := range p.holdings {
		resp = resp.Add(h.Cost)
	}
	return resp
}

func (p *Portfolio) reconcile() error {
	if len(p.holdings) != len(p.symbols) {
		return fmt.Errorf("%w: %d holdings for %d symbols", common.ErrHoldingsDoNotReconcile, len(p.holdings), len(p.symbols))
	}
	if expected := p.cash.Add(p.marketValue()); !p.total.Equal(expected) {
		return fmt.Errorf("%w: total %v != cash %v + market value %v",
			common.ErrHoldingsDoNotReconcile, p.total, p.cash, expected.Sub(p.cash))
	}
	return nil
}

func (p *Portfolio) snapshot(offset int64, t time.Time) holdings.Snapshot {
	hs := make(map[string]holdings.Holding, len(p.holdings))
	for s, h := range p.holdings {
		hs[s] = *h
	}
	return holdings.Snapshot{
		Offset:     offset,
		Time:       t,
		Holdings:   hs,
		Cash:       p.cash,
		Commission: p.commission,
		Total:      p.total,
	}
}

// GetPosition returns the share count held for the symbol
func (p *Portfolio) GetPosition(symbol string) (int64, error) {
	p.m.Lock()
	defer p.m.Unlock()
	h, ok := p.holdings[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("%w %v", common.ErrSymbolNotFound, symbol)
	}
	return h.Position, nil
}

// GetHolding returns a copy of the symbol's holding
func (p *Portfolio) GetHolding(symbol string) (holdings.Holding, error) {
	p.m.Lock()
	defer p.m.Unlock()
	h, ok := p.holdings[strings.ToUpper(symbol)]
	if !ok {
		return holdings.Holding{}, fmt.Errorf("%w %v", common.ErrSymbolNotFound, symbol)
	}
	return *h, nil
}

// GetPNL returns position × (latest close − cost basis)
func (p *Portfolio) GetPNL(symbol string, d data.Handler) (decimal.Decimal, error) {
	if d == nil {
		return decimal.Zero, fmt.Errorf("%w data handler", common.ErrNilPointer)
	}
	h, err := p.GetHolding(symbol)
	if err != nil {
		return decimal.Zero, err
	}
	bars, err := d.GetLatestBars(h.Symbol, 1)
	if err != nil {
		return decimal.Zero, err
	}
	if len(bars) == 0 {
		return decimal.Zero, fmt.Errorf("%w for %v", data.ErrNoData, h.Symbol)
	}
	return h.PNL(bars[0].Close), nil
}

// GetCash returns the cash balance
func (p *Portfolio) GetCash() decimal.Decimal {
	p.m.Lock()
	defer p.m.Unlock()
	return p.cash
}

// GetTotal returns cash plus market value
func (p *Portfolio) GetTotal() decimal.Decimal {
	p.m.Lock()
	defer p.m.Unlock()
	return p.total
}

// GetCommission returns commission paid so far
func (p *Portfolio) GetCommission() decimal.Decimal {
	p.m.Lock()
	defer p.m.Unlock()
	return p.commission
}

// Symbols returns the universe the portfolio holds
func (p *Portfolio) Symbols() []string {
	p.m.Lock()
	defer p.m.Unlock()
	return slices.Clone(p.symbols)
}

// Snapshots returns the recorded history, one entry per bar step
func (p *Portfolio) Snapshots() []holdings.Snapshot {
	p.m.Lock()
	defer p.m.Unlock()
	resp := make([]holdings.Snapshot, len(p.snapshots))
	for i := range p.snapshots {
		resp[i] = p.snapshots[i]
		resp[i].Holdings = maps.Clone(p.snapshots[i].Holdings)
	}
	return resp
}

// GenerateResults builds the results table from the snapshot history.
// returns is the percentage change of total, zero on the first row, and the
// equity curve is the cumulative product of one plus returns
func (p *Portfolio) GenerateResults() (*results.Table, error) {
	snapshots := p.Snapshots()
	if len(snapshots) == 0 {
		return nil, errNoSnapshots
	}
	var symbols []string
	for i := range snapshots {
		var added []string
		for s := range snapshots[i].Holdings {
			if !slices.Contains(symbols, s) {
				added = append(added, s)
			}
		}
		slices.Sort(added)
		symbols = append(symbols, added...)
	}
	one := decimal.NewFromInt(1)
	table := &results.Table{
		Symbols: symbols,
		Rows:    make([]results.Row, len(snapshots)),
	}
	equity := one
	for i := range snapshots {
		returns := decimal.Zero
		if i > 0 {
			prev := snapshots[i-1].Total
			if prev.IsZero() {
				return nil, fmt.Errorf("%w at %v", errZeroTotal, snapshots[i-1].Time)
			}
			returns = snapshots[i].Total.Div(prev).Sub(one)
		}
		equity = equity.Mul(one.Add(returns))
		positions := make(map[string]int64, len(symbols))
		for _, s := range symbols {
			positions[s] = snapshots[i].Position(s)
		}
		table.Rows[i] = results.Row{
			Time:        snapshots[i].Time,
			Positions:   positions,
			Cash:        snapshots[i].Cash,
			Commission:  snapshots[i].Commission,
			Total:       snapshots[i].Total,
			Returns:     returns,
			EquityCurve: equity,
		}
	}
	return table, nil
}
