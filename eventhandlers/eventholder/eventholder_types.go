package eventholder

import (
	"sync"

	"github.com/thrasher-corp/barbacktester/common"
)

// Holder contains the event queue for backtester processing
type Holder struct {
	m     sync.Mutex
	queue []common.Event
}

// EventHolder interface details what is expected of an event holder to perform
type EventHolder interface {
	Reset()
	AppendEvent(common.Event)
	NextEvent() (common.Event, bool)
	Len() int
}
