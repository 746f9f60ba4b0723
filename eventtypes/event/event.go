package event

import (
	"fmt"
	"strings"
	"time"
)

// GetOffset returns the bar step the event was created on
func (b *Base) GetOffset() int64 {
	return b.Offset
}

// GetTime returns the time of the bar the event was created on
func (b *Base) GetTime() time.Time {
	return b.Time
}

// GetSymbol returns the symbol the event relates to, market events return
// an empty string as they relate to every symbol
func (b *Base) GetSymbol() string {
	return b.Symbol
}

// GetReason returns the reasons for the event, joined
func (b *Base) GetReason() string {
	return strings.Join(b.Reasons, ". ")
}

// GetReasons returns each reason for the event
func (b *Base) GetReasons() []string {
	return b.Reasons
}

// AppendReason adds a reason for the event. It is only to be called by
// the creator of the event before it is queued
func (b *Base) AppendReason(y string) {
	b.Reasons = append(b.Reasons, y)
}

// AppendReasonf adds a formatted reason for the event
func (b *Base) AppendReasonf(y string, addons ...any) {
	b.Reasons = append(b.Reasons, fmt.Sprintf(y, addons...))
}
