package market

import "github.com/thrasher-corp/barbacktester/eventtypes/event"

// Market signals that a new bar is available for every symbol in the
// universe. It carries no bar data, consumers read bars from the data source
type Market struct {
	*event.Base
}
