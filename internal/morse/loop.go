package morse

import (
	"context"
	"sync"
	"time"
)

// Loop is a single-goroutine event loop and wall-clock Scheduler.
// Input events posted with Do and expired timers run one at a time on the
// goroutine executing Run, so an Engine driven through a Loop needs no
// locking. AfterFunc and Timer.Stop must be called from loop callbacks.
type Loop struct {
	events chan func()
	after  func()

	once sync.Once
	done chan struct{}
}

// NewLoop returns a loop. after, if non-nil, runs following every event,
// which lets a display collaborator re-read engine state.
func NewLoop(after func()) *Loop {
	return &Loop{
		events: make(chan func(), 64),
		after:  after,
		done:   make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.events:
			f()
			if l.after != nil {
				l.after()
			}
		}
	}
}

// Do posts f to the loop. It returns false once the loop has stopped.
func (l *Loop) Do(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case <-l.done:
		return false
	case l.events <- f:
		return true
	}
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Do(func() {
			if t.stopped {
				return
			}
			t.fired = true
			f()
		})
	})
	return t
}

// loopTimer fields are only touched on the loop goroutine; the wall-clock
// timer merely posts to the loop, where a stopped flag set earlier wins.
type loopTimer struct {
	timer   *time.Timer
	stopped bool
	fired   bool
}

func (t *loopTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}
