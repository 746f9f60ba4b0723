package size

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	errNegativeLeverage = errors.New("leverage cannot be negative")
	errNegativeStrength = errors.New("signal strength cannot be negative")
)

// Size turns signal strength into a whole number of shares
type Size struct {
	Leverage decimal.Decimal
}
