package eventholder

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/barbacktester/common"
	"github.com/thrasher-corp/barbacktester/eventtypes/market"
)

func TestReset(t *testing.T) {
	t.Parallel()
	e := &Holder{queue: []common.Event{market.New(0, time.Now())}}
	e.Reset()
	assert.Zero(t, e.Len())

	var nilHolder *Holder
	assert.NotPanics(t, nilHolder.Reset)
}

func TestAppendEvent(t *testing.T) {
	t.Parallel()
	e := &Holder{}
	e.AppendEvent(market.New(0, time.Now()))
	e.AppendEvent(nil)
	assert.Equal(t, 1, e.Len())
}

func TestNextEvent(t *testing.T) {
	t.Parallel()
	e := &Holder{}
	ev, ok := e.NextEvent()
	assert.False(t, ok)
	assert.Nil(t, ev)

	first := market.New(1, time.Now())
	second := market.New(2, time.Now())
	e.AppendEvent(first)
	e.AppendEvent(second)

	ev, ok = e.NextEvent()
	require.True(t, ok)
	assert.Equal(t, first, ev)
	ev, ok = e.NextEvent()
	require.True(t, ok)
	assert.Equal(t, second, ev)
	_, ok = e.NextEvent()
	assert.False(t, ok)

	var nilHolder *Holder
	_, ok = nilHolder.NextEvent()
	assert.False(t, ok)
}

func TestConcurrentAppendKeepsEveryEvent(t *testing.T) {
	t.Parallel()
	e := &Holder{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int64) {
			defer wg.Done()
			e.AppendEvent(market.New(i, time.Now()))
		}(int64(i))
	}
	wg.Wait()
	assert.Equal(t, 50, e.Len())
	seen := make(map[int64]bool)
	for ev, ok := e.NextEvent(); ok; ev, ok = e.NextEvent() {
		seen[ev.GetOffset()] = true
	}
	assert.Len(t, seen, 50)
}
