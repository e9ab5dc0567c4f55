package engine

import (
	"fmt"
	"strings"
)

// Position is a zero-based row/column location in a buffer.
type Position struct {
	Row    int `json:"row" yaml:"row" toml:"row"`
	Column int `json:"column" yaml:"column" toml:"column"`
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Row, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	switch {
	case p.Row < other.Row:
		return -1
	case p.Row > other.Row:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// Range is a span between two positions. Start is not required to precede
// End; use Normalize for an ordered copy.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a range from row/column pairs.
func NewRange(startRow, startCol, endRow, endCol int) Range {
	return Range{
		Start: Position{Row: startRow, Column: startCol},
		End:   Position{Row: endRow, Column: endCol},
	}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s-%s]", r.Start, r.End)
}

// IsEmpty reports whether the range has no extent.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Normalize returns r with Start <= End.
func (r Range) Normalize() Range {
	if r.Start.Compare(r.End) > 0 {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// ContainsRow reports whether row lies within the range's rows.
func (r Range) ContainsRow(row int) bool {
	n := r.Normalize()
	return row >= n.Start.Row && row <= n.End.Row
}

// Delta actions reported by change events.
const (
	ActionInsert = "insert"
	ActionRemove = "remove"
)

// Delta describes one buffer change.
type Delta struct {
	Action string
	Start  Position
	End    Position
	Lines  []string
}

// Text returns the inserted or removed text.
func (d Delta) Text() string {
	return strings.Join(d.Lines, "\n")
}

// Well-known marker classes created by engines for built-in features.
const (
	ClassActiveLine   = "ace_active-line"
	ClassSelectedWord = "ace_selected-word"
)

// Marker is a record in a session's marker registry.
type Marker struct {
	ID      int
	Range   Range
	Class   string
	Type    string
	InFront bool
}

// Annotation is a per-row diagnostic shown in the gutter.
// Row and Column are zero-based.
type Annotation struct {
	Row    int    `json:"row" yaml:"row" toml:"row"`
	Column int    `json:"column" yaml:"column" toml:"column"`
	Text   string `json:"text" yaml:"text" toml:"text"`
	Type   string `json:"type" yaml:"type" toml:"type"`
}

// GutterDecoration is the rendered form of the annotations on one row.
type GutterDecoration struct {
	Row       int
	ClassName string
	Text      []string
}

// ModePrefix is prepended to bare mode names.
const ModePrefix = "mode/"

// Mode identifies a syntax mode, either by path or by a structured
// descriptor carrying extra options.
type Mode struct {
	Path    string         `json:"path" yaml:"path" toml:"path"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
}

// ModeNamed resolves a bare mode name such as "javascript" to its path.
// Names that already carry a path are kept as-is; the empty name yields the
// zero Mode (plain text).
func ModeNamed(name string) Mode {
	if name == "" {
		return Mode{}
	}
	if strings.Contains(name, "/") {
		return Mode{Path: name}
	}
	return Mode{Path: ModePrefix + name}
}

// Name returns the last path element of the mode.
func (m Mode) Name() string {
	if i := strings.LastIndex(m.Path, "/"); i >= 0 {
		return m.Path[i+1:]
	}
	return m.Path
}

// IsZero reports whether m is the plain-text mode.
func (m Mode) IsZero() bool {
	return m.Path == "" && len(m.Options) == 0
}
