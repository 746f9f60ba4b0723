package eventholder

import "github.com/thrasher-corp/barbacktester/common"

// Reset returns struct to defaults
func (h *Holder) Reset() {
	if h == nil {
		return
	}
	h.m.Lock()
	h.queue = nil
	h.m.Unlock()
}

// AppendEvent adds an event to the tail of the queue, nil events are dropped
func (h *Holder) AppendEvent(i common.Event) {
	if h == nil || i == nil {
		return
	}
	h.m.Lock()
	h.queue = append(h.queue, i)
	h.m.Unlock()
}

// NextEvent removes and returns the head of the queue. It does not block,
// false is returned when the queue is empty
func (h *Holder) NextEvent() (common.Event, bool) {
	if h == nil {
		return nil, false
	}
	h.m.Lock()
	defer h.m.Unlock()
	if len(h.queue) == 0 {
		return nil, false
	}
	e := h.queue[0]
	h.queue[0] = nil
	h.queue = h.queue[1:]
	return e, true
}

// Len returns the number of queued events
func (h *Holder) Len() int {
	if h == nil {
		return 0
	}
	h.m.Lock()
	defer h.m.Unlock()
	return len(h.queue)
}
