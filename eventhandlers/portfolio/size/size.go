package size

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// New returns a sizer for the leverage
func New(leverage decimal.Decimal) (*Size, error) {
	if leverage.IsNegative() {
		return nil, fmt.Errorf("%w, received %v", errNegativeLeverage, leverage)
	}
	return &Size{Leverage: leverage}, nil
}

// SizeOrder returns floor(leverage × strength)
func (s *Size) SizeOrder(strength decimal.Decimal) (int64, error) {
	if s.Leverage.IsNegative() {
		return 0, fmt.Errorf("%w, received %v", errNegativeLeverage, s.Leverage)
	}
	if strength.IsNegative() {
		return 0, fmt.Errorf("%w, received %v", errNegativeStrength, strength)
	}
	return s.Leverage.Mul(strength).Floor().IntPart(), nil
}
