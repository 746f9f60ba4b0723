package data

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/common"
)

// HasCorporateAction returns true when the bar carries a dividend or a
// split other than 1:1
func (b *Bar) HasCorporateAction() bool {
	return !b.ExDividend.IsZero() || !b.Split().Equal(decimal.NewFromInt(1))
}

// Split returns the split ratio, treating an unset ratio as 1
func (b *Bar) Split() decimal.Decimal {
	if b.SplitRatio.IsZero() {
		return decimal.NewFromInt(1)
	}
	return b.SplitRatio
}

// AdjustmentRatio returns split * (close + dividend) / close. Bars without
// a corporate action return 1 without touching the close
func (b *Bar) AdjustmentRatio() (decimal.Decimal, error) {
	if b.SplitRatio.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s %v %w: %v", b.Symbol, b.Time, ErrInvalidSplitRatio, b.SplitRatio)
	}
	split := b.Split()
	if b.ExDividend.IsZero() && split.Equal(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1), nil
	}
	if b.Close.IsZero() {
		return decimal.Zero, fmt.Errorf("%s %v %w, cannot calculate adjustment ratio", b.Symbol, b.Time, common.ErrZeroClosePrice)
	}
	return split.Mul(b.Close.Add(b.ExDividend)).Div(b.Close), nil
}

// Field returns the requested price or volume
func (b *Bar) Field(f Field) (decimal.Decimal, error) {
	switch f {
	case Open:
		return b.Open, nil
	case High:
		return b.High, nil
	case Low:
		return b.Low, nil
	case Close:
		return b.Close, nil
	case Volume:
		return b.Volume, nil
	}
	return decimal.Zero, fmt.Errorf("%w '%v'", errInvalidField, f)
}

// divide scales the prices of the bar down by ratio. Volume and the
// corporate action fields are left alone
func (b *Bar) divide(ratio decimal.Decimal) {
	b.Open = b.Open.Div(ratio)
	b.High = b.High.Div(ratio)
	b.Low = b.Low.Div(ratio)
	b.Close = b.Close.Div(ratio)
}

func (b *Bar) multiply(ratio decimal.Decimal) {
	b.Open = b.Open.Mul(ratio)
	b.High = b.High.Mul(ratio)
	b.Low = b.Low.Mul(ratio)
	b.Close = b.Close.Mul(ratio)
}
