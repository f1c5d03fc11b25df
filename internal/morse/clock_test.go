package morse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVirtualClockOrdersCallbacks(t *testing.T) {
	c := NewVirtualClock(time.Unix(0, 0))
	var order []string
	c.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })
	c.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(20*time.Millisecond, func() { order = append(order, "c") })
	stopped := c.AfterFunc(15*time.Millisecond, func() { order = append(order, "x") })
	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	c.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, c.Pending())
}

func TestVirtualClockCallbackSeesDeadline(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewVirtualClock(start)
	var seen time.Time
	c.AfterFunc(5*time.Millisecond, func() { seen = c.Now() })
	c.Advance(time.Second)
	assert.Equal(t, start.Add(5*time.Millisecond), seen)
	assert.Equal(t, start.Add(time.Second), c.Now())
}
