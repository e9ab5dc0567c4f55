package adapter

import (
	"github.com/dshills/editsync/internal/debounce"
	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/logging"
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger diagnostics are written to.
func WithLogger(l *logging.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithScheduler sets the scheduler for debounced change notifications.
// Hosts that drive the editor from an event loop pass the loop, so the
// notification runs on the loop goroutine.
func WithScheduler(s debounce.Scheduler) Option {
	return func(a *Adapter) {
		if s != nil {
			a.scheduler = s
		}
	}
}

// WithoutDiagnostics stops the adapter from reporting unknown options.
// Unknown options are still skipped. Used when another component has already
// validated the same options against the same library.
func WithoutDiagnostics() Option {
	return func(a *Adapter) {
		a.diagnose = false
	}
}

// WithChangeHandler routes every change the user makes straight to fn,
// bypassing the adapter's coalescer and Props.OnChange. Changes the adapter
// makes itself are never reported.
func WithChangeHandler(fn func(value string, d engine.Delta)) Option {
	return func(a *Adapter) {
		a.changeHandler = fn
	}
}

// WithDiagnosticHandler calls fn for every diagnostic, in addition to the log.
func WithDiagnosticHandler(fn func(Diagnostic)) Option {
	return func(a *Adapter) {
		a.onDiagnostic = fn
	}
}
