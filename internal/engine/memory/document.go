package memory

import (
	"strings"

	"github.com/dshills/editsync/internal/engine"
)

// document is a line-oriented text buffer.
type document struct {
	lines []string
}

func newDocument(text string) *document {
	return &document{lines: splitLines(text)}
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func (d *document) value() string {
	return strings.Join(d.lines, "\n")
}

func (d *document) isEmpty() bool {
	return len(d.lines) == 1 && d.lines[0] == ""
}

func (d *document) line(row int) string {
	if row < 0 || row >= len(d.lines) {
		return ""
	}
	return d.lines[row]
}

func (d *document) end() engine.Position {
	last := len(d.lines) - 1
	return engine.Position{Row: last, Column: len(d.lines[last])}
}

// clamp returns the nearest valid position to p.
func (d *document) clamp(p engine.Position) engine.Position {
	if p.Row < 0 {
		return engine.Position{}
	}
	if p.Row >= len(d.lines) {
		return d.end()
	}
	if p.Column < 0 {
		p.Column = 0
	}
	if n := len(d.lines[p.Row]); p.Column > n {
		p.Column = n
	}
	return p
}

func (d *document) textRange(r engine.Range) string {
	r = r.Normalize()
	start, end := d.clamp(r.Start), d.clamp(r.End)
	if start.Row == end.Row {
		return d.lines[start.Row][start.Column:end.Column]
	}
	var b strings.Builder
	b.WriteString(d.lines[start.Row][start.Column:])
	for row := start.Row + 1; row < end.Row; row++ {
		b.WriteByte('\n')
		b.WriteString(d.lines[row])
	}
	b.WriteByte('\n')
	b.WriteString(d.lines[end.Row][:end.Column])
	return b.String()
}

// remove deletes r and returns the delta, or false when r is empty.
func (d *document) remove(r engine.Range) (engine.Delta, bool) {
	r = r.Normalize()
	start, end := d.clamp(r.Start), d.clamp(r.End)
	if start == end {
		return engine.Delta{}, false
	}
	removed := splitLines(d.textRange(engine.Range{Start: start, End: end}))

	head := d.lines[start.Row][:start.Column]
	tail := d.lines[end.Row][end.Column:]
	lines := make([]string, 0, len(d.lines)-(end.Row-start.Row))
	lines = append(lines, d.lines[:start.Row]...)
	lines = append(lines, head+tail)
	lines = append(lines, d.lines[end.Row+1:]...)
	d.lines = lines

	return engine.Delta{Action: engine.ActionRemove, Start: start, End: end, Lines: removed}, true
}

// insert places text at p and returns the delta, or false when text is empty.
func (d *document) insert(p engine.Position, text string) (engine.Delta, bool) {
	if text == "" {
		return engine.Delta{}, false
	}
	p = d.clamp(p)
	inserted := splitLines(text)

	head := d.lines[p.Row][:p.Column]
	tail := d.lines[p.Row][p.Column:]

	middle := make([]string, len(inserted))
	copy(middle, inserted)
	middle[0] = head + middle[0]
	last := len(middle) - 1
	end := engine.Position{Row: p.Row + last, Column: len(middle[last])}
	middle[last] += tail

	lines := make([]string, 0, len(d.lines)+last)
	lines = append(lines, d.lines[:p.Row]...)
	lines = append(lines, middle...)
	lines = append(lines, d.lines[p.Row+1:]...)
	d.lines = lines

	return engine.Delta{Action: engine.ActionInsert, Start: p, End: end, Lines: inserted}, true
}
