package memory

import (
	"sort"

	"github.com/dshills/editsync/internal/engine"
)

// Editor implements engine.Editor.
//
// An Editor is not safe for concurrent use. All calls must come from the
// goroutine that owns it, which is also where its events are delivered.
type Editor struct {
	events     *emitter
	session    *Session
	renderer   *Renderer
	commands   *Commands
	options    map[string]any
	properties map[string]any
	className  string
	focused    bool
	destroyed  bool
}

func newEditor(platform engine.Platform, options map[string]any, commands []*engine.Command) *Editor {
	events := newEmitter()
	e := &Editor{
		events:     events,
		session:    newSession(events),
		options:    options,
		properties: make(map[string]any),
	}
	e.renderer = &Renderer{editor: e}
	e.commands = newCommands(platform, e.readOnly)
	for _, cmd := range commands {
		e.commands.AddCommand(cmd)
	}

	if v, _ := options["highlightActiveLine"].(bool); v {
		e.session.setActiveLineHighlight(true)
	}
	if v, _ := options["highlightSelectedWord"].(bool); v {
		e.session.setSelectedWordHighlight(true)
	}
	return e
}

func (e *Editor) readOnly() bool {
	v, _ := e.options["readOnly"].(bool)
	return v
}

// Value returns the buffer text.
func (e *Editor) Value() string {
	return e.session.Value()
}

// SetValue replaces the buffer and places the cursor. The previous value
// stays on the undo history.
func (e *Editor) SetValue(text string, cursorPos int) {
	if e.destroyed {
		return
	}
	e.session.undo.push(e.session.Value())
	e.session.replaceAll(text)
	switch {
	case cursorPos == engine.CursorSelectAll:
		e.session.sel.SelectAll()
	case cursorPos < 0:
		e.NavigateFileStart()
	default:
		e.NavigateFileEnd()
	}
}

// Insert types text at the cursor, replacing any selection.
func (e *Editor) Insert(text string) {
	e.edit(func() {
		sel := e.session.sel
		if !sel.IsEmpty() {
			if d, ok := e.session.doc.remove(sel.Range()); ok {
				e.session.applied(d)
				sel.set(d.Start, d.Start)
			}
		}
		if d, ok := e.session.doc.insert(sel.lead, text); ok {
			e.session.applied(d)
			sel.set(d.End, d.End)
		}
	})
}

// removeLine deletes row together with its line break.
func (e *Editor) removeLine(row int) {
	e.edit(func() {
		doc := e.session.doc
		last := len(doc.lines) - 1
		var r engine.Range
		switch {
		case last == 0:
			r = engine.NewRange(0, 0, 0, len(doc.lines[0]))
		case row < last:
			r = engine.NewRange(row, 0, row+1, 0)
		default:
			r = engine.NewRange(row-1, len(doc.lines[row-1]), row, len(doc.lines[row]))
		}
		if d, ok := doc.remove(r); ok {
			e.session.applied(d)
		}
		target := row
		if target > len(doc.lines)-1 {
			target = len(doc.lines) - 1
		}
		e.session.sel.MoveCursorTo(target, 0)
	})
}

// edit wraps a user edit with undo capture and the trailing input event.
func (e *Editor) edit(fn func()) {
	if e.destroyed || e.readOnly() {
		return
	}
	e.session.undo.push(e.session.Value())
	fn()
	e.session.sel.clampToDocument()
	e.session.emit(engine.Event{Type: engine.EventInput})
}

// Undo restores the buffer before the last edit.
func (e *Editor) Undo() {
	if e.destroyed {
		return
	}
	prev, ok := e.session.undo.pop()
	if !ok {
		return
	}
	e.session.replaceAll(prev)
}

// Session returns the editor's session.
func (e *Editor) Session() engine.Session {
	return e.session
}

// MemorySession returns the concrete session.
func (e *Editor) MemorySession() *Session {
	return e.session
}

// Selection returns the session's selection.
func (e *Editor) Selection() engine.Selection {
	return e.session.sel
}

// Commands returns the command table.
func (e *Editor) Commands() engine.CommandManager {
	return e.commands
}

// Renderer returns the renderer state.
func (e *Editor) Renderer() engine.Renderer {
	return e.renderer
}

// MemoryRenderer returns the concrete renderer.
func (e *Editor) MemoryRenderer() *Renderer {
	return e.renderer
}

// HasOption reports whether name is a known option.
func (e *Editor) HasOption(name string) bool {
	_, ok := e.options[name]
	return ok
}

// SetOption sets a known option.
func (e *Editor) SetOption(name string, value any) error {
	if !e.HasOption(name) {
		return engine.ErrUnknownOption
	}
	e.options[name] = value

	switch name {
	case "highlightActiveLine":
		on, _ := value.(bool)
		e.session.setActiveLineHighlight(on)
	case "highlightSelectedWord":
		on, _ := value.(bool)
		e.session.setSelectedWordHighlight(on)
	case "mode":
		if s, ok := value.(string); ok {
			e.session.SetMode(engine.ModeNamed(s))
		}
	case "wrap":
		if on, ok := value.(bool); ok {
			e.session.SetUseWrapMode(on)
		}
	}
	return nil
}

// Option returns the value of a known option.
func (e *Editor) Option(name string) (any, bool) {
	switch name {
	case "mode":
		return e.session.Mode().Path, true
	case "wrap":
		return e.session.UseWrapMode(), true
	}
	v, ok := e.options[name]
	return v, ok
}

// Options returns the sorted known option names.
func (e *Editor) Options() []string {
	names := make([]string, 0, len(e.options))
	for name := range e.options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Editor) stringOption(name string) string {
	s, _ := e.options[name].(string)
	return s
}

// Theme returns the theme path.
func (e *Editor) Theme() string {
	return e.stringOption("theme")
}

// SetTheme sets the theme path.
func (e *Editor) SetTheme(theme string) {
	e.options["theme"] = theme
}

// FontSize returns the font size, such as "12px".
func (e *Editor) FontSize() string {
	return e.stringOption("fontSize")
}

// SetFontSize sets the font size.
func (e *Editor) SetFontSize(size string) {
	e.options["fontSize"] = size
}

// KeyboardHandler returns the attached keymap path.
func (e *Editor) KeyboardHandler() string {
	return e.stringOption("keyboardHandler")
}

// SetKeyboardHandler attaches a keymap; the empty string detaches it.
func (e *Editor) SetKeyboardHandler(handler string) {
	e.options["keyboardHandler"] = handler
}

// ShowPrintMargin reports whether the print margin is drawn.
func (e *Editor) ShowPrintMargin() bool {
	v, _ := e.options["showPrintMargin"].(bool)
	return v
}

// SetShowPrintMargin toggles the print margin.
func (e *Editor) SetShowPrintMargin(show bool) {
	e.options["showPrintMargin"] = show
}

// ClassName returns the container's extra class names.
func (e *Editor) ClassName() string {
	return e.className
}

// SetClassName sets the container's extra class names.
func (e *Editor) SetClassName(name string) {
	e.className = name
}

// NavigateFileEnd moves the cursor to the end of the buffer.
func (e *Editor) NavigateFileEnd() {
	end := e.session.doc.end()
	e.session.sel.MoveCursorTo(end.Row, end.Column)
}

// NavigateFileStart moves the cursor to the start of the buffer.
func (e *Editor) NavigateFileStart() {
	e.session.sel.MoveCursorTo(0, 0)
}

// Focus gives the editor focus.
func (e *Editor) Focus() {
	if e.destroyed || e.focused {
		return
	}
	e.focused = true
	e.events.emit(engine.Event{Type: engine.EventFocus})
}

// Blur removes focus from the editor.
func (e *Editor) Blur() {
	if e.destroyed || !e.focused {
		return
	}
	e.focused = false
	e.events.emit(engine.Event{Type: engine.EventBlur})
}

// IsFocused reports whether the editor has focus.
func (e *Editor) IsFocused() bool {
	return e.focused
}

// Copy emits a copy event for the selected text and returns it.
func (e *Editor) Copy() string {
	if e.destroyed {
		return ""
	}
	text := e.session.TextRange(e.session.sel.Range())
	e.events.emit(engine.Event{Type: engine.EventCopy, Text: text})
	return text
}

// Paste emits a paste event and inserts text.
func (e *Editor) Paste(text string) {
	if e.destroyed {
		return
	}
	e.events.emit(engine.Event{Type: engine.EventPaste, Text: text})
	e.Insert(text)
}

// SetProperty assigns a free-form property.
func (e *Editor) SetProperty(key string, value any) {
	e.properties[key] = value
}

// Property returns a free-form property.
func (e *Editor) Property(key string) (any, bool) {
	v, ok := e.properties[key]
	return v, ok
}

// Subscribe registers fn for events of type t.
func (e *Editor) Subscribe(t engine.EventType, fn engine.Handler) engine.Subscription {
	sub := e.events.subscribe(t, fn)
	if e.destroyed {
		sub.Cancel()
	}
	return sub
}

// SubscriberCount returns the number of live subscriptions for t.
func (e *Editor) SubscriberCount(t engine.EventType) int {
	return e.events.count(t)
}

// Destroy detaches the editor and drops all subscriptions.
func (e *Editor) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.focused = false
	e.events.clear()
}

// Destroyed reports whether Destroy was called.
func (e *Editor) Destroyed() bool {
	return e.destroyed
}
