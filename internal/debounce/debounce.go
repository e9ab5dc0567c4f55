// Package debounce coalesces bursts of calls into one delayed call.
//
// A Func delivers the argument of the most recent call once its period has
// passed without another call. Timers come from a Scheduler so the owner
// decides where the delayed call runs: SystemScheduler fires on a timer
// goroutine, an event loop can post the firing onto its own goroutine, and
// ManualScheduler fires only when a test advances it.
package debounce

import (
	"sync"
	"time"
)

// Timer is a pending delayed call.
type Timer interface {
	// Stop prevents the call from running if it has not started.
	// It reports whether the call was stopped.
	Stop() bool
}

// Scheduler arranges for f to run after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler schedules with time.AfterFunc.
type SystemScheduler struct{}

// AfterFunc implements Scheduler.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Func.
type Option func(*options)

type options struct {
	scheduler Scheduler
}

// WithScheduler sets the scheduler used for the delayed call.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// Func wraps fn so that bursts of calls deliver only the last argument.
//
// Thread-safety: all methods are safe for concurrent use, and fn is never
// called with the internal lock held, so fn may call back into the Func.
type Func[T any] struct {
	mu        sync.Mutex
	fn        func(T)
	period    time.Duration
	scheduler Scheduler
	timer     Timer
	pending   bool
	arg       T
	seq       uint64 // invalidates timers that were replaced or cancelled
}

// New wraps fn. A period of zero or less makes Call invoke fn synchronously.
func New[T any](fn func(T), period time.Duration, opts ...Option) *Func[T] {
	o := options{scheduler: SystemScheduler{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Func[T]{
		fn:        fn,
		period:    period,
		scheduler: o.scheduler,
	}
}

// Period returns the quiet period.
func (f *Func[T]) Period() time.Duration {
	return f.period
}

// Call records arg and restarts the quiet period.
func (f *Func[T]) Call(arg T) {
	if f.period <= 0 {
		f.fn(arg)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.pending = true
	f.arg = arg
	f.seq++
	currentSeq := f.seq

	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = f.scheduler.AfterFunc(f.period, func() {
		f.fire(currentSeq)
	})
}

// fire delivers the pending argument if seq is still the live schedule.
func (f *Func[T]) fire(seq uint64) {
	f.mu.Lock()
	if !f.pending || f.seq != seq {
		f.mu.Unlock()
		return
	}
	arg := f.take()
	f.mu.Unlock()
	f.fn(arg)
}

// take clears the pending state and returns its argument (must hold lock).
func (f *Func[T]) take() T {
	arg := f.arg
	var zero T
	f.arg = zero
	f.pending = false
	f.timer = nil
	return arg
}

// Flush delivers a pending call now instead of waiting for the period.
// It reports whether anything was delivered.
func (f *Func[T]) Flush() bool {
	f.mu.Lock()
	if !f.pending {
		f.mu.Unlock()
		return false
	}
	if f.timer != nil {
		f.timer.Stop()
	}
	f.seq++
	arg := f.take()
	f.mu.Unlock()
	f.fn(arg)
	return true
}

// Cancel drops a pending call. A timer that already started firing sees the
// bumped sequence number and does nothing.
func (f *Func[T]) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
	}
	f.seq++
	f.take()
}

// Pending reports whether a call is waiting for its period to pass.
func (f *Func[T]) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}
