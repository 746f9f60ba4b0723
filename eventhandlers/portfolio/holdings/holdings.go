package holdings

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/eventtypes/fill"
)

// Create returns an empty holding for the symbol
func Create(symbol string) *Holding {
	return &Holding{Symbol: strings.ToUpper(symbol)}
}

// ApplyFill moves the position and market value by the signed fill. The cost
// basis becomes the fill price
func (h *Holding) ApplyFill(f *fill.Fill) error {
	if f == nil || f.Base == nil {
		return common.ErrNilEvent
	}
	if !strings.EqualFold(f.GetSymbol(), h.Symbol) {
		return fmt.Errorf("%w %v received %v", errSymbolMismatch, h.Symbol, f.GetSymbol())
	}
	h.Position += f.SignedQuantity()
	h.Cost = h.Cost.Add(f.Cost())
	h.CostBasis = f.GetFillCost()
	return nil
}

// MarkToMarket carries the position through a split, truncating to whole
// shares, and revalues it at the close
func (h *Holding) MarkToMarket(closePrice, split decimal.Decimal) {
	if split.IsPositive() && !split.Equal(decimal.NewFromInt(1)) {
		h.Position = decimal.NewFromInt(h.Position).Mul(split).IntPart()
		h.CostBasis = h.CostBasis.Div(split)
	}
	h.Cost = decimal.NewFromInt(h.Position).Mul(closePrice)
}

// ClearValue values the position at zero when no price is known
func (h *Holding) ClearValue() {
	h.Cost = decimal.Zero
}

// PNL returns the unrealised profit of the position at the close
func (h *Holding) PNL(closePrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(h.Position).Mul(closePrice.Sub(h.CostBasis))
}

// Position returns a symbol's share count in the snapshot
func (s *Snapshot) Position(symbol string) int64 {
	return s.Holdings[strings.ToUpper(symbol)].Position
}

// MarketValue returns the sum of every holding's cost in the snapshot
func (s *Snapshot) MarketValue() decimal.Decimal {
	resp := decimal.Zero
	for _, h := range s.Holdings {
		resp = resp.Add(h.Cost)
	}
	return resp
}
