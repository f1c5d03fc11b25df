package morse

import "time"

// Timer is a cancellable handle returned by a Scheduler.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the
	// call stopped the timer; false means it already ran or was stopped.
	Stop() bool
}

// Scheduler runs a callback once after a delay.
//
// Callbacks must run on the same logical thread as the Engine calls that
// armed them; the Engine does no locking of its own.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}
