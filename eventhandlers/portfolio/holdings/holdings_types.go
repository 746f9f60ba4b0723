package holdings

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var errSymbolMismatch = errors.New("fill symbol does not match holding")

// Holding is the position and valuation of a single symbol
type Holding struct {
	Symbol    string          `json:"symbol"`
	Position  int64           `json:"position"`
	Cost      decimal.Decimal `json:"cost"`
	CostBasis decimal.Decimal `json:"cost-basis"`
}

// Snapshot is the portfolio state recorded at a bar step
type Snapshot struct {
	Offset     int64              `json:"offset"`
	Time       time.Time          `json:"timestamp"`
	Holdings   map[string]Holding `json:"holdings"`
	Cash       decimal.Decimal    `json:"cash"`
	Commission decimal.Decimal    `json:"commission"`
	Total      decimal.Decimal    `json:"total"`
}
