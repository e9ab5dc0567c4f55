// Package loop runs posted functions one at a time on a single goroutine.
//
// Editors and adapters are not safe for concurrent use. A host that receives
// input, file-watch notifications and debounce timers from several goroutines
// posts all of them onto one Loop so they are applied in order, never
// concurrently with a re-configuration.
package loop

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/editsync/internal/debounce"
)

// DefaultQueueSize is the default number of tasks buffered before Post blocks.
const DefaultQueueSize = 256

// Option configures a Loop.
type Option func(*Loop)

// WithQueueSize sets the task buffer size.
func WithQueueSize(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

// WithPanicHandler sets a handler for panics raised by tasks. Without one a
// panicking task stops the loop and Run returns the panic as an error.
func WithPanicHandler(fn func(any)) Option {
	return func(l *Loop) {
		l.onPanic = fn
	}
}

// Loop executes tasks in the order they were posted.
type Loop struct {
	queueSize int
	onPanic   func(any)

	tasks    chan func()
	stopOnce sync.Once
	stopped  chan struct{}
	done     chan struct{}
}

// New creates a loop. Call Run to start processing.
func New(opts ...Option) *Loop {
	l := &Loop{queueSize: DefaultQueueSize}
	for _, opt := range opts {
		opt(l)
	}
	l.tasks = make(chan func(), l.queueSize)
	l.stopped = make(chan struct{})
	l.done = make(chan struct{})
	return l
}

// Post queues fn. It reports false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.stopped:
		return false
	}
}

// Run processes tasks until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.stopped:
			return nil
		case fn := <-l.tasks:
			if err := l.run(fn); err != nil {
				l.Stop()
				return err
			}
		}
	}
}

func (l *Loop) run(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if l.onPanic != nil {
				l.onPanic(r)
				return
			}
			err = &PanicError{Value: r}
		}
	}()
	fn()
	return nil
}

// Stop ends Run after the current task. Queued tasks are dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopped)
	})
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// AfterFunc implements debounce.Scheduler: after d, f is posted onto the loop.
func (l *Loop) AfterFunc(d time.Duration, f func()) debounce.Timer {
	return time.AfterFunc(d, func() {
		l.Post(f)
	})
}

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return "loop: task panicked"
}
