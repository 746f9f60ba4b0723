package signal

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/eventtypes/event"
)

// New validates and returns a signal event
func New(b *event.Base, d common.Direction, strength decimal.Decimal) (*Signal, error) {
	if b == nil {
		return nil, fmt.Errorf("%w event base", common.ErrNilPointer)
	}
	if b.Symbol == "" {
		return nil, errMissingSymbol
	}
	switch d {
	case common.Long, common.Short, common.Exit:
	default:
		return nil, fmt.Errorf("%w '%v'", ErrInvalidDirection, d)
	}
	if strength.IsNegative() {
		return nil, fmt.Errorf("%w %v", ErrNegativeStrength, strength)
	}
	return &Signal{
		Base:      b,
		Direction: d,
		Strength:  strength,
	}, nil
}

// IsSignal returns whether the event is a signal type
func (s *Signal) IsSignal() bool {
	return true
}

// GetDirection returns the direction
func (s *Signal) GetDirection() common.Direction {
	return s.Direction
}

// GetStrength returns the desired strength of the exposure change
func (s *Signal) GetStrength() decimal.Decimal {
	return s.Strength
}
