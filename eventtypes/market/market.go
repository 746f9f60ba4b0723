package market

import (
	"time"

	"github.com/thrasher-corp/barbacktester/eventtypes/event"
)

// New returns a market event for the bar step at offset
func New(offset int64, t time.Time) *Market {
	return &Market{
		Base: &event.Base{
			Offset: offset,
			Time:   t,
		},
	}
}

// IsMarket helps distinguish market events in type switches
func (m *Market) IsMarket() bool {
	return true
}
