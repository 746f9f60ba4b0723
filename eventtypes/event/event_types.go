package event

import (
	"time"
)

// Base is the underlying event across all actions
// it is embedded in every event type
type Base struct {
	Offset  int64     `json:"offset"`
	Time    time.Time `json:"timestamp"`
	Symbol  string    `json:"symbol,omitempty"`
	Reasons []string  `json:"reasons,omitempty"`
}
