package memory

import "github.com/dshills/editsync/internal/engine"

// emitter fans events out to subscribers in subscription order.
type emitter struct {
	nextID   int
	handlers map[engine.EventType][]*subscription
}

type subscription struct {
	id        int
	typ       engine.EventType
	fn        engine.Handler
	owner     *emitter
	cancelled bool
}

func newEmitter() *emitter {
	return &emitter{handlers: make(map[engine.EventType][]*subscription)}
}

func (e *emitter) subscribe(t engine.EventType, fn engine.Handler) *subscription {
	e.nextID++
	sub := &subscription{id: e.nextID, typ: t, fn: fn, owner: e}
	e.handlers[t] = append(e.handlers[t], sub)
	return sub
}

func (e *emitter) emit(ev engine.Event) {
	subs := e.handlers[ev.Type]
	if len(subs) == 0 {
		return
	}
	// Handlers may subscribe or cancel while we iterate.
	snapshot := make([]*subscription, len(subs))
	copy(snapshot, subs)
	for _, sub := range snapshot {
		if !sub.cancelled {
			sub.fn(ev)
		}
	}
}

func (e *emitter) remove(sub *subscription) {
	subs := e.handlers[sub.typ]
	for i, s := range subs {
		if s == sub {
			e.handlers[sub.typ] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

func (e *emitter) count(t engine.EventType) int {
	return len(e.handlers[t])
}

func (e *emitter) clear() {
	for _, subs := range e.handlers {
		for _, s := range subs {
			s.cancelled = true
		}
	}
	e.handlers = make(map[engine.EventType][]*subscription)
}

// Cancel implements engine.Subscription.
func (s *subscription) Cancel() {
	if s.cancelled {
		return
	}
	s.cancelled = true
	s.owner.remove(s)
}

// Active implements engine.Subscription.
func (s *subscription) Active() bool {
	return !s.cancelled
}
