package memory

import (
	"sort"

	"github.com/dshills/editsync/internal/engine"
)

// Session implements engine.Session.
//
// Marker ids are assigned from a single counter shared by front and back
// markers and are never reused, mirroring how engines hand out opaque ids.
type Session struct {
	doc     *document
	events  *emitter
	sel     *Selection
	undo    *undoStack
	mode    engine.Mode
	wrap    bool
	scroll  int

	nextMarkerID int
	front        map[int]engine.Marker
	back         map[int]engine.Marker

	activeLineID   int
	selectedWordID int

	annotations []engine.Annotation
	gutter      map[int]engine.GutterDecoration
}

func newSession(events *emitter) *Session {
	s := &Session{
		doc:    newDocument(""),
		events: events,
		undo:   &undoStack{},
		front:  make(map[int]engine.Marker),
		back:   make(map[int]engine.Marker),
		gutter: make(map[int]engine.GutterDecoration),
	}
	s.sel = &Selection{session: s}
	return s
}

func (s *Session) emit(ev engine.Event) {
	s.events.emit(ev)
}

// Value returns the buffer text.
func (s *Session) Value() string {
	return s.doc.value()
}

// SetValue replaces the buffer, moves the cursor to the start and resets
// the undo history.
func (s *Session) SetValue(text string) {
	s.replaceAll(text)
	s.sel.MoveCursorTo(0, 0)
	s.undo.Reset()
}

// TextRange returns the text covered by r.
func (s *Session) TextRange(r engine.Range) string {
	return s.doc.textRange(r)
}

// Line returns one row of the buffer.
func (s *Session) Line(row int) string {
	return s.doc.line(row)
}

// LineCount returns the number of rows.
func (s *Session) LineCount() int {
	return len(s.doc.lines)
}

// Mode returns the current syntax mode.
func (s *Session) Mode() engine.Mode {
	return s.mode
}

// SetMode sets the syntax mode.
func (s *Session) SetMode(m engine.Mode) {
	s.mode = m
}

// UseWrapMode reports whether soft wrap is on.
func (s *Session) UseWrapMode() bool {
	return s.wrap
}

// SetUseWrapMode toggles soft wrap.
func (s *Session) SetUseWrapMode(wrap bool) {
	s.wrap = wrap
}

// AddMarker registers a marker and returns its id.
func (s *Session) AddMarker(r engine.Range, class, typ string, inFront bool) int {
	s.nextMarkerID++
	m := engine.Marker{ID: s.nextMarkerID, Range: r, Class: class, Type: typ, InFront: inFront}
	if inFront {
		s.front[m.ID] = m
	} else {
		s.back[m.ID] = m
	}
	return m.ID
}

// RemoveMarker removes a marker from either registry.
func (s *Session) RemoveMarker(id int) {
	delete(s.front, id)
	delete(s.back, id)
}

// Markers returns a copy of the front or back registry.
func (s *Session) Markers(inFront bool) map[int]engine.Marker {
	src := s.back
	if inFront {
		src = s.front
	}
	out := make(map[int]engine.Marker, len(src))
	for id, m := range src {
		out[id] = m
	}
	return out
}

// MarkerIDs returns the sorted ids of the front or back registry.
func (s *Session) MarkerIDs(inFront bool) []int {
	src := s.back
	if inFront {
		src = s.front
	}
	ids := make([]int, 0, len(src))
	for id := range src {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SetAnnotations replaces the annotation list and rebuilds the gutter.
func (s *Session) SetAnnotations(list []engine.Annotation) {
	s.annotations = append([]engine.Annotation(nil), list...)
	s.rebuildGutter()
	s.emit(engine.Event{Type: engine.EventChangeAnnotation})
}

// Annotations returns a copy of the annotation list. It is never nil.
func (s *Session) Annotations() []engine.Annotation {
	out := make([]engine.Annotation, len(s.annotations))
	copy(out, s.annotations)
	return out
}

// ClearAnnotations empties the annotation list.
func (s *Session) ClearAnnotations() {
	s.SetAnnotations(nil)
}

// Selection returns the session's selection.
func (s *Session) Selection() engine.Selection {
	return s.sel
}

// UndoManager returns the undo history.
func (s *Session) UndoManager() engine.UndoManager {
	return s.undo
}

// ScrollTop returns the first visible row.
func (s *Session) ScrollTop() int {
	return s.scroll
}

// SetScrollTop scrolls to row top.
func (s *Session) SetScrollTop(top int) {
	if top < 0 {
		top = 0
	}
	if top == s.scroll {
		return
	}
	s.scroll = top
	s.emit(engine.Event{Type: engine.EventChangeScrollTop})
}

// replaceAll swaps the whole buffer, emitting a remove and an insert delta.
func (s *Session) replaceAll(text string) {
	if d, ok := s.doc.remove(engine.Range{End: s.doc.end()}); ok {
		s.applied(d)
	}
	if d, ok := s.doc.insert(engine.Position{}, text); ok {
		s.applied(d)
	}
	s.sel.clampToDocument()
	s.emit(engine.Event{Type: engine.EventInput})
}

// applied updates derived state for a delta and notifies subscribers.
func (s *Session) applied(d engine.Delta) {
	s.shiftGutter(d)
	s.emit(engine.Event{Type: engine.EventChange, Delta: d})
}

// rebuildGutter derives one decoration per annotated row. The most severe
// annotation type on a row names the decoration class.
func (s *Session) rebuildGutter() {
	s.gutter = make(map[int]engine.GutterDecoration)
	for _, a := range s.annotations {
		dec := s.gutter[a.Row]
		dec.Row = a.Row
		dec.Text = append(dec.Text, a.Text)
		if dec.ClassName == "" || severity(a.Type) > severity(classType(dec.ClassName)) {
			dec.ClassName = "ace_" + a.Type
		}
		s.gutter[a.Row] = dec
	}
}

// shiftGutter drops the decorations on rows a multi-row delta rewrote and
// moves the rows below it. Single-row edits leave the gutter alone.
func (s *Session) shiftGutter(d engine.Delta) {
	span := d.End.Row - d.Start.Row
	if span == 0 || len(s.gutter) == 0 {
		return
	}
	first := d.Start.Row
	shifted := make(map[int]engine.GutterDecoration, len(s.gutter))
	for row, dec := range s.gutter {
		switch {
		case row < first:
			shifted[row] = dec
		case d.Action == engine.ActionRemove && row > first+span:
			dec.Row = row - span
			shifted[dec.Row] = dec
		case d.Action == engine.ActionInsert && row > first:
			dec.Row = row + span
			shifted[dec.Row] = dec
		}
	}
	s.gutter = shifted
}

// gutterDecorations returns the decorations ordered by row.
func (s *Session) gutterDecorations() []engine.GutterDecoration {
	out := make([]engine.GutterDecoration, 0, len(s.gutter))
	for _, dec := range s.gutter {
		out = append(out, dec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out
}

// cursorMoved keeps the active-line marker on the cursor row.
func (s *Session) cursorMoved() {
	if s.activeLineID == 0 {
		return
	}
	if m, ok := s.back[s.activeLineID]; ok {
		row := s.sel.lead.Row
		m.Range = engine.NewRange(row, 0, row, 0)
		s.back[s.activeLineID] = m
	}
}

// setActiveLineHighlight adds or drops the active-line marker.
func (s *Session) setActiveLineHighlight(on bool) {
	switch {
	case on && s.activeLineID == 0:
		row := s.sel.lead.Row
		s.activeLineID = s.AddMarker(engine.NewRange(row, 0, row, 0), engine.ClassActiveLine, "screenLine", false)
	case !on && s.activeLineID != 0:
		s.RemoveMarker(s.activeLineID)
		s.activeLineID = 0
	}
}

// setSelectedWordHighlight adds or drops the selected-word marker.
func (s *Session) setSelectedWordHighlight(on bool) {
	switch {
	case on && s.selectedWordID == 0:
		s.selectedWordID = s.AddMarker(engine.Range{}, engine.ClassSelectedWord, "text", false)
	case !on && s.selectedWordID != 0:
		s.RemoveMarker(s.selectedWordID)
		s.selectedWordID = 0
	}
}

func severity(typ string) int {
	switch typ {
	case "error":
		return 3
	case "warning":
		return 2
	case "info":
		return 1
	}
	return 0
}

func classType(class string) string {
	if len(class) > 4 {
		return class[4:]
	}
	return ""
}

// undoStack stores whole-buffer snapshots taken before each edit.
type undoStack struct {
	entries []string
}

func (u *undoStack) push(text string) {
	u.entries = append(u.entries, text)
}

func (u *undoStack) pop() (string, bool) {
	if len(u.entries) == 0 {
		return "", false
	}
	last := u.entries[len(u.entries)-1]
	u.entries = u.entries[:len(u.entries)-1]
	return last, true
}

// Reset clears the history.
func (u *undoStack) Reset() {
	u.entries = nil
}

// HasUndo reports whether an edit can be undone.
func (u *undoStack) HasUndo() bool {
	return len(u.entries) > 0
}
