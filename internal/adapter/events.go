package adapter

import (
	"time"

	"github.com/dshills/editsync/internal/debounce"
	"github.com/dshills/editsync/internal/engine"
)

// subscribe attaches the adapter to every engine event it forwards. The
// subscriptions are cancelled by Destroy.
func (a *Adapter) subscribe() {
	handlers := map[engine.EventType]engine.Handler{
		engine.EventChange:           a.onChange,
		engine.EventInput:            a.onInput,
		engine.EventFocus:            a.onFocus,
		engine.EventBlur:             a.onBlur,
		engine.EventCopy:             a.onCopy,
		engine.EventPaste:            a.onPaste,
		engine.EventChangeSelection:  a.onSelectionChange,
		engine.EventChangeCursor:     a.onCursorChange,
		engine.EventChangeAnnotation: a.onAnnotationChange,
		engine.EventChangeScrollTop:  a.onScroll,
	}
	for _, t := range engine.AllEvents() {
		if h, ok := handlers[t]; ok {
			a.subs = append(a.subs, a.editor.Subscribe(t, h))
		}
	}
}

func (a *Adapter) newCoalescer(period time.Duration) *debounce.Func[change] {
	return debounce.New(a.deliverChange, period, debounce.WithScheduler(a.scheduler))
}

// onChange records a user change. Changes made from props are dropped here,
// before they reach the coalescer.
func (a *Adapter) onChange(ev engine.Event) {
	if a.silent || a.destroyed {
		return
	}
	c := change{value: a.editor.Value(), delta: ev.Delta}
	if a.changeHandler != nil {
		a.dispatch(func() { a.changeHandler(c.value, c.delta) })
		return
	}
	a.change.Call(c)
}

// deliverChange is the coalescer's target.
func (a *Adapter) deliverChange(c change) {
	a.dispatch(func() {
		if fn := a.props.OnChange; fn != nil {
			fn(c.value, c.delta)
		}
	})
}

func (a *Adapter) onInput(engine.Event) {
	a.dispatch(func() {
		if a.props.Placeholder != "" {
			a.updatePlaceholder()
		}
		if fn := a.props.OnInput; fn != nil {
			fn()
		}
	})
}

func (a *Adapter) onFocus(ev engine.Event) {
	a.dispatch(func() {
		if fn := a.props.OnFocus; fn != nil {
			fn(ev, a.editor)
		}
	})
}

func (a *Adapter) onBlur(ev engine.Event) {
	a.dispatch(func() {
		if fn := a.props.OnBlur; fn != nil {
			fn(ev, a.editor)
		}
	})
}

func (a *Adapter) onCopy(ev engine.Event) {
	a.dispatch(func() {
		if fn := a.props.OnCopy; fn != nil {
			fn(ev.Text)
		}
	})
}

func (a *Adapter) onPaste(ev engine.Event) {
	a.dispatch(func() {
		if fn := a.props.OnPaste; fn != nil {
			fn(ev.Text)
		}
	})
}

func (a *Adapter) onSelectionChange(ev engine.Event) {
	a.dispatch(func() {
		if fn := a.props.OnSelectionChange; fn != nil {
			fn(a.editor.Selection(), ev)
		}
	})
}

func (a *Adapter) onCursorChange(ev engine.Event) {
	a.dispatch(func() {
		if fn := a.props.OnCursorChange; fn != nil {
			fn(a.editor.Selection(), ev)
		}
	})
}

func (a *Adapter) onAnnotationChange(engine.Event) {
	a.dispatch(func() {
		if fn := a.props.OnValidate; fn != nil {
			fn(a.editor.Session().Annotations())
		}
	})
}

func (a *Adapter) onScroll(engine.Event) {
	a.dispatch(func() {
		if fn := a.props.OnScroll; fn != nil {
			fn(a.editor)
		}
	})
}
