package adapter

import (
	"reflect"
	"time"

	"github.com/dshills/editsync/internal/command"
	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/marker"
)

// Props is one configuration snapshot. Build a fresh value for every
// re-configuration, starting from DefaultProps; the adapter compares it field
// by field with the previous snapshot.
type Props struct {
	Name string

	// Value is the controlled buffer content. Nil leaves the buffer alone;
	// otherwise it is compared with the live buffer, not the previous props.
	Value *string
	// DefaultValue is the initial content, used at mount only. It wins over
	// Value when non-empty.
	DefaultValue string
	// CursorStart places the cursor when Value replaces the buffer
	// (engine.CursorSelectAll, engine.CursorDocStart or engine.CursorDocEnd).
	CursorStart int
	// Placeholder is shown while the buffer is empty.
	Placeholder string

	Mode            engine.Mode
	Theme           string
	KeyboardHandler string
	FontSize        int
	Width           string
	Height          string
	ClassName       string
	ScrollMargin    [4]int

	ShowGutter        bool
	ShowPrintMargin   bool
	WrapEnabled       bool
	Focus             bool
	NavigateToFileEnd bool

	// Editor options, validated against the engine before they are set.
	// Zero integers leave the engine's value in place.
	MinLines                  int
	MaxLines                  int
	ReadOnly                  bool
	HighlightActiveLine       bool
	TabSize                   int
	EnableBasicAutocompletion bool
	EnableLiveAutocompletion  bool
	EnableSnippets            bool

	// DebounceChangePeriod coalesces change notifications. Zero delivers
	// every change synchronously.
	DebounceChangePeriod time.Duration

	Markers     []marker.Descriptor
	Annotations []engine.Annotation
	Commands    []command.Descriptor

	// SetOptions is passed to the engine verbatim; unknown keys are reported
	// and skipped.
	SetOptions map[string]any
	// EditorProps are assigned onto the engine instance at mount.
	EditorProps map[string]any

	OnBeforeLoad      func(lib engine.Library)
	OnLoad            func(ed engine.Editor)
	OnChange          func(value string, d engine.Delta)
	OnInput           func()
	OnCopy            func(text string)
	OnPaste           func(text string)
	OnFocus           func(ev engine.Event, ed engine.Editor)
	OnBlur            func(ev engine.Event, ed engine.Editor)
	OnSelectionChange func(sel engine.Selection, ev engine.Event)
	OnCursorChange    func(sel engine.Selection, ev engine.Event)
	OnValidate        func(annotations []engine.Annotation)
	OnScroll          func(ed engine.Editor)
}

// DefaultProps returns the defaults every snapshot starts from.
func DefaultProps() Props {
	return Props{
		Name:                "editsync",
		Mode:                engine.Mode{},
		FontSize:            12,
		Width:               "500px",
		Height:              "500px",
		CursorStart:         engine.CursorDocEnd,
		ShowGutter:          true,
		ShowPrintMargin:     true,
		HighlightActiveLine: true,
		NavigateToFileEnd:   true,
	}
}

// String returns a pointer to s, for Props.Value.
func String(s string) *string {
	return &s
}

// editorOption is one validated option drawn from Props.
type editorOption struct {
	name string
	get  func(p Props) any
}

var editorOptions = []editorOption{
	{"minLines", func(p Props) any { return p.MinLines }},
	{"maxLines", func(p Props) any { return p.MaxLines }},
	{"readOnly", func(p Props) any { return p.ReadOnly }},
	{"highlightActiveLine", func(p Props) any { return p.HighlightActiveLine }},
	{"tabSize", func(p Props) any { return p.TabSize }},
	{"enableBasicAutocompletion", func(p Props) any { return p.EnableBasicAutocompletion }},
	{"enableLiveAutocompletion", func(p Props) any { return p.EnableLiveAutocompletion }},
	{"enableSnippets", func(p Props) any { return p.EnableSnippets }},
}

// activated reports whether v asks the engine for something: true, or a
// non-zero number.
func activated(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int:
		return x != 0
	case nil:
		return false
	}
	return !reflect.ValueOf(v).IsZero()
}

// applicable reports whether v should be sent to the engine. Booleans always
// are; zero integers are left to the engine.
func applicable(v any) bool {
	if _, ok := v.(bool); ok {
		return true
	}
	return activated(v)
}

func modeEqual(a, b engine.Mode) bool {
	return a.Path == b.Path && reflect.DeepEqual(a.Options, b.Options)
}

func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func mapsEqual(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
