package split

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/editsync/internal/adapter"
	"github.com/dshills/editsync/internal/command"
	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/marker"
)

// Orientation arranges the panes.
type Orientation int

const (
	// Beside places panes side by side.
	Beside Orientation = iota
	// Below stacks panes top to bottom.
	Below
)

// String returns the orientation's configuration name.
func (o Orientation) String() string {
	if o == Below {
		return "below"
	}
	return "beside"
}

// ParseOrientation parses "beside" or "below". The empty string is Beside.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "beside":
		return Beside, nil
	case "below":
		return Below, nil
	}
	return Beside, fmt.Errorf("unknown orientation %q", s)
}

// Props is one configuration snapshot for a split editor. Fields holding
// slices are indexed by pane; a missing entry means empty for that pane.
type Props struct {
	Name        string
	Splits      int
	Orientation Orientation

	// Value is the controlled content per pane. Nil leaves every buffer
	// alone; otherwise panes without an entry are emptied.
	Value        []string
	DefaultValue []string
	Markers      [][]marker.Descriptor
	Annotations  [][]engine.Annotation

	CursorStart     int
	Mode            engine.Mode
	Theme           string
	KeyboardHandler string
	FontSize        int
	Width           string
	Height          string
	ClassName       string

	ShowGutter        bool
	ShowPrintMargin   bool
	WrapEnabled       bool
	Focus             bool
	NavigateToFileEnd bool

	MinLines                  int
	MaxLines                  int
	ReadOnly                  bool
	HighlightActiveLine       bool
	TabSize                   int
	EnableBasicAutocompletion bool
	EnableLiveAutocompletion  bool
	EnableSnippets            bool

	DebounceChangePeriod time.Duration

	Commands    []command.Descriptor
	SetOptions  map[string]any
	EditorProps map[string]any

	OnBeforeLoad func(lib engine.Library)
	OnLoad       func(s *Split)
	// OnChange receives the content of every pane and the change that
	// triggered it.
	OnChange          func(pane int, values []string, d engine.Delta)
	OnInput           func(pane int)
	OnCopy            func(pane int, text string)
	OnPaste           func(pane int, text string)
	OnFocus           func(pane int, ev engine.Event, ed engine.Editor)
	OnBlur            func(pane int, ev engine.Event, ed engine.Editor)
	OnSelectionChange func(pane int, sel engine.Selection, ev engine.Event)
	OnCursorChange    func(pane int, sel engine.Selection, ev engine.Event)
	OnValidate        func(pane int, annotations []engine.Annotation)
	OnScroll          func(pane int, ed engine.Editor)
}

// DefaultProps returns the defaults every snapshot starts from.
func DefaultProps() Props {
	d := adapter.DefaultProps()
	return Props{
		Name:                "editsync-split",
		Splits:              2,
		Orientation:         Beside,
		CursorStart:         d.CursorStart,
		FontSize:            d.FontSize,
		Width:               d.Width,
		Height:              d.Height,
		ShowGutter:          d.ShowGutter,
		ShowPrintMargin:     d.ShowPrintMargin,
		HighlightActiveLine: d.HighlightActiveLine,
		NavigateToFileEnd:   d.NavigateToFileEnd,
	}
}

func (p Props) splits() int {
	if p.Splits < 1 {
		return 1
	}
	return p.Splits
}

func at[T any](list []T, i int) T {
	var zero T
	if i < 0 || i >= len(list) {
		return zero
	}
	return list[i]
}

func valueAt(list []string, i int) *string {
	if list == nil {
		return nil
	}
	return adapter.String(at(list, i))
}

// pane derives the adapter snapshot for pane i. Event callbacks read the
// split's current props when they fire, so a pane keeps the same closures
// across re-configurations.
func (s *Split) pane(i int, p Props) adapter.Props {
	return adapter.Props{
		Name:         fmt.Sprintf("%s-%d", p.Name, i),
		Value:        valueAt(p.Value, i),
		DefaultValue: at(p.DefaultValue, i),
		Markers:      at(p.Markers, i),
		Annotations:  at(p.Annotations, i),

		CursorStart:     p.CursorStart,
		Mode:            p.Mode,
		Theme:           p.Theme,
		KeyboardHandler: p.KeyboardHandler,
		FontSize:        p.FontSize,
		Width:           p.Width,
		Height:          p.Height,
		ClassName:       p.ClassName,

		ShowGutter:        p.ShowGutter,
		ShowPrintMargin:   p.ShowPrintMargin,
		WrapEnabled:       p.WrapEnabled,
		Focus:             p.Focus && i == 0,
		NavigateToFileEnd: p.NavigateToFileEnd,

		MinLines:                  p.MinLines,
		MaxLines:                  p.MaxLines,
		ReadOnly:                  p.ReadOnly,
		HighlightActiveLine:       p.HighlightActiveLine,
		TabSize:                   p.TabSize,
		EnableBasicAutocompletion: p.EnableBasicAutocompletion,
		EnableLiveAutocompletion:  p.EnableLiveAutocompletion,
		EnableSnippets:            p.EnableSnippets,

		Commands:    p.Commands,
		SetOptions:  p.SetOptions,
		EditorProps: p.EditorProps,

		OnInput: func() {
			if fn := s.props.OnInput; fn != nil {
				fn(i)
			}
		},
		OnCopy: func(text string) {
			if fn := s.props.OnCopy; fn != nil {
				fn(i, text)
			}
		},
		OnPaste: func(text string) {
			if fn := s.props.OnPaste; fn != nil {
				fn(i, text)
			}
		},
		OnFocus: func(ev engine.Event, ed engine.Editor) {
			if fn := s.props.OnFocus; fn != nil {
				fn(i, ev, ed)
			}
		},
		OnBlur: func(ev engine.Event, ed engine.Editor) {
			if fn := s.props.OnBlur; fn != nil {
				fn(i, ev, ed)
			}
		},
		OnSelectionChange: func(sel engine.Selection, ev engine.Event) {
			if fn := s.props.OnSelectionChange; fn != nil {
				fn(i, sel, ev)
			}
		},
		OnCursorChange: func(sel engine.Selection, ev engine.Event) {
			if fn := s.props.OnCursorChange; fn != nil {
				fn(i, sel, ev)
			}
		},
		OnValidate: func(list []engine.Annotation) {
			if fn := s.props.OnValidate; fn != nil {
				fn(i, list)
			}
		},
		OnScroll: func(ed engine.Editor) {
			if fn := s.props.OnScroll; fn != nil {
				fn(i, ed)
			}
		},
	}
}
