package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent(t *testing.T) {
	t.Parallel()
	tt := time.Now()
	e := &Base{
		Offset: 1337,
		Time:   tt,
		Symbol: "AMZN",
	}
	assert.Equal(t, int64(1337), e.GetOffset())
	assert.Equal(t, tt, e.GetTime())
	assert.Equal(t, "AMZN", e.GetSymbol())
	assert.Empty(t, e.GetReason())
}

func TestAppendReason(t *testing.T) {
	t.Parallel()
	b := &Base{}
	b.AppendReason("sma crossed")
	assert.Equal(t, "sma crossed", b.GetReason())
	b.AppendReasonf("short %v long %v", 1, 2)
	assert.Equal(t, "sma crossed. short 1 long 2", b.GetReason())
	assert.Len(t, b.GetReasons(), 2)
}
