package data

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rescale divides the open, high, low and close of every bar by ratio, in
// place. It is the single adjustment primitive used by both the live and
// the batch paths
func Rescale(bars []Bar, ratio decimal.Decimal) error {
	if !ratio.IsPositive() {
		return fmt.Errorf("%w: adjustment ratio %v", ErrInvalidSplitRatio, ratio)
	}
	for i := range bars {
		bars[i].divide(ratio)
	}
	return nil
}

// Restore is the inverse of Rescale
func Restore(bars []Bar, ratio decimal.Decimal) error {
	if !ratio.IsPositive() {
		return fmt.Errorf("%w: adjustment ratio %v", ErrInvalidSplitRatio, ratio)
	}
	for i := range bars {
		bars[i].multiply(ratio)
	}
	return nil
}

// AdjustHistory returns a copy of bars with every corporate action applied
// backwards. Actions are collected walking the series chronologically, each
// segment of bars between two actions is then rescaled once by the product
// of every ratio that follows it. The bar carrying an action is never scaled
// by its own ratio. The input is not modified
func AdjustHistory(bars []Bar) ([]Bar, []Adjustment, error) {
	var adjustments []Adjustment
	for i := range bars {
		if !bars[i].HasCorporateAction() {
			continue
		}
		ratio, err := bars[i].AdjustmentRatio()
		if err != nil {
			return nil, nil, err
		}
		if ratio.Equal(decimal.NewFromInt(1)) {
			continue
		}
		adjustments = append(adjustments, Adjustment{
			Index: i,
			Time:  bars[i].Time,
			Ratio: ratio,
		})
	}
	resp := make([]Bar, len(bars))
	copy(resp, bars)
	err := walkSegments(resp, adjustments, Rescale)
	if err != nil {
		return nil, nil, err
	}
	return resp, adjustments, nil
}

// RestoreHistory reverses AdjustHistory using the adjustments it returned
func RestoreHistory(bars []Bar, adjustments []Adjustment) ([]Bar, error) {
	resp := make([]Bar, len(bars))
	copy(resp, bars)
	err := walkSegments(resp, adjustments, Restore)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func walkSegments(bars []Bar, adjustments []Adjustment, apply func([]Bar, decimal.Decimal) error) error {
	cumulative := decimal.NewFromInt(1)
	for k := len(adjustments) - 1; k >= 0; k-- {
		end := adjustments[k].Index
		if end > len(bars) {
			return fmt.Errorf("adjustment index %d out of range of %d bars", end, len(bars))
		}
		cumulative = cumulative.Mul(adjustments[k].Ratio)
		start := 0
		if k > 0 {
			start = adjustments[k-1].Index
		}
		if err := apply(bars[start:end], cumulative); err != nil {
			return err
		}
	}
	return nil
}
