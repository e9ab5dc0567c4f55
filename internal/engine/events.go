package engine

// EventType identifies an engine notification.
type EventType int

const (
	// EventChange fires once per buffer delta.
	EventChange EventType = iota
	// EventInput fires after a batch of buffer changes settles.
	EventInput
	// EventFocus fires when the editor gains focus.
	EventFocus
	// EventBlur fires when the editor loses focus.
	EventBlur
	// EventCopy fires when text is copied; Event.Text carries it.
	EventCopy
	// EventPaste fires before pasted text is inserted; Event.Text carries it.
	EventPaste
	// EventChangeSelection fires when a non-empty selection changes.
	EventChangeSelection
	// EventChangeCursor fires when the cursor moves.
	EventChangeCursor
	// EventChangeAnnotation fires when the session's annotations change.
	EventChangeAnnotation
	// EventChangeScrollTop fires when the session scrolls vertically.
	EventChangeScrollTop
)

var eventNames = map[EventType]string{
	EventChange:           "change",
	EventInput:            "input",
	EventFocus:            "focus",
	EventBlur:             "blur",
	EventCopy:             "copy",
	EventPaste:            "paste",
	EventChangeSelection:  "changeSelection",
	EventChangeCursor:     "changeCursor",
	EventChangeAnnotation: "changeAnnotation",
	EventChangeScrollTop:  "changeScrollTop",
}

// String returns the engine's name for the event.
func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "unknown"
}

// AllEvents lists every event type, in declaration order.
func AllEvents() []EventType {
	return []EventType{
		EventChange, EventInput, EventFocus, EventBlur, EventCopy, EventPaste,
		EventChangeSelection, EventChangeCursor, EventChangeAnnotation, EventChangeScrollTop,
	}
}

// Event is a notification delivered to subscribers.
type Event struct {
	Type EventType
	// Delta is set for EventChange.
	Delta Delta
	// Text is set for EventCopy and EventPaste.
	Text string
}

// Handler receives engine events.
type Handler func(Event)

// Subscription is the cancellation handle returned by Subscribe.
type Subscription interface {
	// Cancel stops delivery. It is safe to call more than once.
	Cancel()

	// Active reports whether events are still delivered.
	Active() bool
}
