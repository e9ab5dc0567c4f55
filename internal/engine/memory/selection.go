package memory

import "github.com/dshills/editsync/internal/engine"

// Selection implements engine.Selection with an anchor/lead model.
// Anchor is where the selection started; lead is the cursor.
type Selection struct {
	session *Session
	anchor  engine.Position
	lead    engine.Position
}

// Range returns the ordered selection range.
func (s *Selection) Range() engine.Range {
	return engine.Range{Start: s.anchor, End: s.lead}.Normalize()
}

// Cursor returns the lead position.
func (s *Selection) Cursor() engine.Position {
	return s.lead
}

// IsEmpty reports whether the selection has no extent.
func (s *Selection) IsEmpty() bool {
	return s.anchor == s.lead
}

// SelectAll selects the whole buffer.
func (s *Selection) SelectAll() {
	s.set(engine.Position{}, s.session.doc.end())
}

// SetRange selects r, leaving the cursor at r.End.
func (s *Selection) SetRange(r engine.Range) {
	s.set(s.session.doc.clamp(r.Start), s.session.doc.clamp(r.End))
}

// MoveCursorTo collapses the selection at row/column.
func (s *Selection) MoveCursorTo(row, column int) {
	p := s.session.doc.clamp(engine.Position{Row: row, Column: column})
	s.set(p, p)
}

// ClearSelection collapses the selection at the cursor.
func (s *Selection) ClearSelection() {
	s.set(s.lead, s.lead)
}

// clampToDocument keeps both ends inside the buffer after an edit.
func (s *Selection) clampToDocument() {
	s.set(s.session.doc.clamp(s.anchor), s.session.doc.clamp(s.lead))
}

// set moves both ends and emits changeCursor and changeSelection as needed.
// A selection change is only reported when the old or new range has extent.
func (s *Selection) set(anchor, lead engine.Position) {
	oldRange := s.Range()
	wasEmpty := s.IsEmpty()
	cursorMoved := lead != s.lead

	s.anchor, s.lead = anchor, lead

	if cursorMoved {
		s.session.cursorMoved()
		s.session.emit(engine.Event{Type: engine.EventChangeCursor})
	}
	if s.Range() != oldRange && (!wasEmpty || !s.IsEmpty()) {
		s.session.emit(engine.Event{Type: engine.EventChangeSelection})
	}
}
