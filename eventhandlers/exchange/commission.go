package exchange

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NewTiered returns the default tiered model: 0.013 per share up to 500
// shares, 0.008 above, at least 1.3 and at most 0.5% of notional
func NewTiered() *Tiered {
	return &Tiered{
		Minimum:       decimal.NewFromFloat(1.3),
		Threshold:     500,
		LowRate:       decimal.NewFromFloat(0.013),
		HighRate:      decimal.NewFromFloat(0.008),
		MaxPercentage: decimal.NewFromFloat(0.005),
	}
}

// NewCommissionModel returns the named model. An empty name is the tiered
// default. rate and minimum only apply to the per-share model
func NewCommissionModel(name string, rate, minimum decimal.Decimal) (CommissionModel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", TieredModel:
		return NewTiered(), nil
	case ZeroModel:
		return Zero{}, nil
	case PerShareModel:
		if rate.IsNegative() || minimum.IsNegative() {
			return nil, fmt.Errorf("%w per-share rate %v minimum %v cannot be negative", ErrUnknownCommissionModel, rate, minimum)
		}
		return &PerShare{Rate: rate, Minimum: minimum}, nil
	default:
		return nil, fmt.Errorf("%w '%v'", ErrUnknownCommissionModel, name)
	}
}

// Name returns the model name
func (t *Tiered) Name() string {
	return TieredModel
}

// Calculate returns the commission for the fill
func (t *Tiered) Calculate(quantity int64, price decimal.Decimal) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	qty := decimal.NewFromInt(quantity)
	rate := t.LowRate
	if quantity > t.Threshold {
		rate = t.HighRate
	}
	fee := decimal.Max(t.Minimum, qty.Mul(rate))
	return decimal.Min(fee, t.MaxPercentage.Mul(qty).Mul(price))
}

// Name returns the model name
func (p *PerShare) Name() string {
	return PerShareModel
}

// Calculate returns the commission for the fill
func (p *PerShare) Calculate(quantity int64, _ decimal.Decimal) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return decimal.Max(p.Minimum, decimal.NewFromInt(quantity).Mul(p.Rate))
}

// Name returns the model name
func (Zero) Name() string {
	return ZeroModel
}

// Calculate always returns zero
func (Zero) Calculate(int64, decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}
