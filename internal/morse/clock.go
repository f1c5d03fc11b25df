package morse

import (
	"container/heap"
	"time"
)

// VirtualClock is a manually advanced Scheduler. Callbacks run on the
// goroutine calling Advance, in deadline order; equal deadlines run in
// the order they were scheduled.
type VirtualClock struct {
	now    time.Time
	seq    uint64
	timers timerHeap
}

// NewVirtualClock returns a clock starting at start.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{now: start}
}

// Now returns the current virtual time.
func (c *VirtualClock) Now() time.Time {
	return c.now
}

// AfterFunc implements Scheduler.
func (c *VirtualClock) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &virtualTimer{at: c.now.Add(d), seq: c.seq, f: f, clock: c, index: -1}
	heap.Push(&c.timers, t)
	return t
}

// Advance moves the clock forward by d, running every callback due.
func (c *VirtualClock) Advance(d time.Duration) {
	c.AdvanceTo(c.now.Add(d))
}

// AdvanceTo moves the clock to t, running every callback due at or before t.
// Callbacks observe Now() equal to their own deadline.
func (c *VirtualClock) AdvanceTo(t time.Time) {
	for len(c.timers) > 0 {
		next := c.timers[0]
		if next.at.After(t) {
			break
		}
		heap.Pop(&c.timers)
		if next.at.After(c.now) {
			c.now = next.at
		}
		next.f()
	}
	if t.After(c.now) {
		c.now = t
	}
}

// Pending returns the number of armed timers.
func (c *VirtualClock) Pending() int {
	return len(c.timers)
}

type virtualTimer struct {
	at    time.Time
	seq   uint64
	f     func()
	clock *VirtualClock
	index int
}

func (t *virtualTimer) Stop() bool {
	if t.index < 0 {
		return false
	}
	heap.Remove(&t.clock.timers, t.index)
	return true
}

type timerHeap []*virtualTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*virtualTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
