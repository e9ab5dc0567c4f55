package adapter

import (
	"reflect"
	"testing"

	"github.com/dshills/editsync/internal/command"
	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/marker"
)

func TestConfigure_ValueIsSilent(t *testing.T) {
	changes := 0
	p := DefaultProps()
	p.Value = String("a\nb\nc")
	p.Annotations = []engine.Annotation{{Row: 2, Text: "bad", Type: "error"}}
	p.OnChange = func(string, engine.Delta) { changes++ }
	f := mount(t, p)

	next := p
	next.Value = String("x\ny\nz")
	f.configure(t, next)

	if f.editor.Value() != "x\ny\nz" {
		t.Errorf("Value() = %q", f.editor.Value())
	}
	if changes != 0 {
		t.Errorf("OnChange called %d times for a prop-driven value", changes)
	}
	decs := f.editor.Renderer().GutterDecorations()
	if len(decs) != 1 || decs[0].Row != 2 || decs[0].ClassName != "ace_error" {
		t.Errorf("GutterDecorations() = %+v, want row 2 re-applied", decs)
	}
}

func TestConfigure_SameValueLeavesBuffer(t *testing.T) {
	p := DefaultProps()
	p.Value = String("same")
	f := mount(t, p)

	f.configure(t, p)

	if f.editor.Session().UndoManager().HasUndo() {
		t.Error("equal value was written to the buffer")
	}
}

func TestConfigure_ValueKeepsSelection(t *testing.T) {
	p := DefaultProps()
	p.Value = String("hello world")
	p.NavigateToFileEnd = false
	f := mount(t, p)

	want := engine.NewRange(0, 0, 0, 5)
	f.editor.Selection().SetRange(want)

	next := p
	next.Value = String("hello there")
	f.configure(t, next)

	if got := f.editor.Selection().Range(); got != want {
		t.Errorf("selection = %v, want %v", got, want)
	}
}

func TestConfigure_Markers(t *testing.T) {
	m1 := []marker.Descriptor{{StartRow: 0, StartCol: 0, EndRow: 0, EndCol: 1, ClassName: "one"}}
	m2 := []marker.Descriptor{
		{StartRow: 0, StartCol: 0, EndRow: 0, EndCol: 2, ClassName: "two"},
		{StartRow: 0, StartCol: 1, EndRow: 0, EndCol: 3, ClassName: "three", InFront: true},
	}

	p := DefaultProps()
	p.Value = String("marked text")
	p.Markers = m1
	f := mount(t, p)

	steps := []struct {
		markers []marker.Descriptor
		want    []int
	}{
		{m2, []int{4, 5}},
		{nil, []int{}},
		{m1, []int{6}},
		{[]marker.Descriptor{}, []int{}},
	}
	for i, step := range steps {
		next := p
		next.Markers = step.markers
		f.configure(t, next)
		p = next

		ids, _ := f.a.MarkerIDs()
		if !reflect.DeepEqual(ids, step.want) {
			t.Errorf("step %d: MarkerIDs() = %v, want %v", i, ids, step.want)
		}
		back := f.editor.Session().Markers(false)
		if back[1].Class != engine.ClassActiveLine || back[2].Class != engine.ClassSelectedWord {
			t.Errorf("step %d: engine markers lost: %+v", i, back)
		}
	}
}

func TestConfigure_Annotations(t *testing.T) {
	p := DefaultProps()
	p.Value = String("one\ntwo")
	p.Annotations = []engine.Annotation{{Row: 0, Column: 1, Text: "hmm", Type: "warning"}}
	f := mount(t, p)

	if got := f.editor.Session().Annotations(); !reflect.DeepEqual(got, p.Annotations) {
		t.Errorf("Annotations() = %+v", got)
	}

	next := p
	next.Annotations = nil
	f.configure(t, next)

	if got := f.editor.Session().Annotations(); len(got) != 0 {
		t.Errorf("Annotations() = %+v, want empty", got)
	}
	if decs := f.editor.Renderer().GutterDecorations(); len(decs) != 0 {
		t.Errorf("GutterDecorations() = %+v, want none", decs)
	}
}

func TestConfigure_EditorOptions(t *testing.T) {
	p := DefaultProps()
	p.MinLines = 1
	p.TabSize = 4
	f := mount(t, p)

	next := p
	next.MinLines = 2
	f.configure(t, next)
	if v, _ := f.editor.Option("minLines"); v != 2 {
		t.Errorf("minLines = %v, want 2", v)
	}

	// Untouched fields do not clobber state changed on the engine directly.
	if err := f.editor.SetOption("tabSize", 8); err != nil {
		t.Fatal(err)
	}
	f.configure(t, next)
	if v, _ := f.editor.Option("tabSize"); v != 8 {
		t.Errorf("tabSize = %v, want 8", v)
	}

	next.HighlightActiveLine = false
	f.configure(t, next)
	if _, ok := f.editor.Session().Markers(false)[1]; ok {
		t.Error("active-line marker kept after highlightActiveLine=false")
	}
}

func TestConfigure_SetOptions(t *testing.T) {
	p := DefaultProps()
	p.SetOptions = map[string]any{"printMargin": 100, "misspelled": 1}
	f := mount(t, p)

	next := p
	next.SetOptions = map[string]any{"printMargin": 200, "animatedScroll": true, "misspelled": 1}
	f.configure(t, next)

	if v, _ := f.editor.Option("printMargin"); v != 200 {
		t.Errorf("printMargin = %v, want 200", v)
	}
	if v, _ := f.editor.Option("animatedScroll"); v != true {
		t.Errorf("animatedScroll = %v, want true", v)
	}
	if n := len(f.a.Diagnostics()); n != 1 {
		t.Errorf("%d diagnostics, want the unchanged unknown key reported once", n)
	}
}

func TestConfigure_Presentation(t *testing.T) {
	p := DefaultProps()
	f := mount(t, p)

	next := p
	next.Mode = engine.Mode{Path: "mode/python", Options: map[string]any{"inline": true}}
	next.Theme = "github"
	next.KeyboardHandler = "emacs"
	next.FontSize = 16
	next.WrapEnabled = true
	next.ShowGutter = false
	next.ShowPrintMargin = false
	next.ClassName = "dark"
	next.ScrollMargin = [4]int{1, 2, 3, 4}
	next.Width = "800px"
	f.configure(t, next)

	ed := f.editor
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"mode", ed.Session().Mode().Path, "mode/python"},
		{"theme", ed.Theme(), "ace/theme/github"},
		{"keyboard", ed.KeyboardHandler(), "ace/keyboard/emacs"},
		{"font size", ed.FontSize(), "16px"},
		{"wrap", ed.Session().UseWrapMode(), true},
		{"gutter", ed.Renderer().ShowGutter(), false},
		{"print margin", ed.ShowPrintMargin(), false},
		{"class", ed.ClassName(), "dark"},
		{"scroll margin", ed.Renderer().ScrollMargin(), [4]int{1, 2, 3, 4}},
		{"resizes", ed.MemoryRenderer().Resizes(), 2},
	}
	for _, tt := range tests {
		if !reflect.DeepEqual(tt.got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	next.KeyboardHandler = ""
	f.configure(t, next)
	if ed.KeyboardHandler() != "" {
		t.Errorf("KeyboardHandler() = %q, want detached", ed.KeyboardHandler())
	}
}

func TestConfigure_Commands(t *testing.T) {
	ran := 0
	p := DefaultProps()
	p.Commands = []command.Descriptor{
		{Name: "selectMoreAfter", BindKey: engine.KeyBinding{Win: "ctrl-d", Mac: "command-d"}, ExecName: "selectMoreAfter"},
	}
	f := mount(t, p)
	cmds := f.editor.Commands()

	f.configure(t, p)
	if n := len(cmds.Bindings("ctrl-d")); n != 2 {
		t.Errorf("ctrl-d has %d bindings after reconfigure, want 2", n)
	}

	next := p
	next.Commands = []command.Descriptor{{
		Name:    "countLines",
		BindKey: engine.KeyBinding{Win: "ctrl-k", Mac: "command-k"},
		Exec: func(ed engine.Editor, _ any) bool {
			ran++
			return true
		},
	}}
	f.configure(t, next)
	f.configure(t, next)

	if got := cmds.Bindings("ctrl-d"); len(got) != 1 || got[0].Name() != "removeline" {
		t.Errorf("ctrl-d bindings = %+v, want the built-in only", got)
	}
	if got := cmds.Bindings("ctrl-k"); len(got) != 1 {
		t.Errorf("ctrl-k bindings = %+v, want one", got)
	}
	if !cmds.ExecKey("ctrl-k", f.editor) || ran != 1 {
		t.Errorf("command ran %d times", ran)
	}
}

func TestConfigure_FocusTransition(t *testing.T) {
	focused := 0
	p := DefaultProps()
	p.OnFocus = func(engine.Event, engine.Editor) { focused++ }
	f := mount(t, p)

	next := p
	next.Focus = true
	f.configure(t, next)
	f.configure(t, next)

	if focused != 1 {
		t.Errorf("OnFocus called %d times, want 1", focused)
	}
}

func TestConfigure_Placeholder(t *testing.T) {
	const text = "Placeholder Text Here"
	p := DefaultProps()
	p.Placeholder = text
	p.Value = String("Code here")
	f := mount(t, p)
	r := f.editor.Renderer()

	next := p
	next.Value = String("")
	f.configure(t, next)
	if _, shown := r.Placeholder(); !shown {
		t.Error("placeholder not reinstated for an empty value")
	}

	f.editor.Insert("x")
	if _, shown := r.Placeholder(); shown {
		t.Error("placeholder still shown after typing")
	}

	next.Placeholder = ""
	f.configure(t, next)
	f.editor.Selection().SelectAll()
	f.editor.Insert("")
	if _, shown := r.Placeholder(); shown {
		t.Error("placeholder shown after it was removed from props")
	}
}

func TestConfigure_DeliversEventsAfterSnapshot(t *testing.T) {
	var seen [][]int
	p := DefaultProps()
	p.Value = String("first")
	f := mount(t, p)

	next := p
	next.Value = String("second value")
	next.Markers = []marker.Descriptor{{StartRow: 0, EndRow: 0, EndCol: 6, ClassName: "m"}}
	next.OnCursorChange = func(engine.Selection, engine.Event) {
		ids, _ := f.a.MarkerIDs()
		seen = append(seen, ids)
	}
	f.configure(t, next)

	if len(seen) == 0 {
		t.Fatal("OnCursorChange not called")
	}
	for _, ids := range seen {
		if len(ids) != 1 {
			t.Errorf("callback saw markers %v before the snapshot was applied", ids)
		}
	}
}

func TestConfigure_ReentrantFromCallback(t *testing.T) {
	p := DefaultProps()
	var f *fixture
	p.OnChange = func(value string, _ engine.Delta) {
		next := p
		next.OnChange = nil
		next.Value = String(value)
		next.Markers = []marker.Descriptor{{EndCol: len(value), ClassName: "typed"}}
		if err := f.a.Configure(next); err != nil {
			t.Errorf("Configure from callback: %v", err)
		}
	}
	f = mount(t, p)

	f.editor.Insert("abc")

	ids, _ := f.a.MarkerIDs()
	if len(ids) != 1 {
		t.Errorf("MarkerIDs() = %v, want one marker", ids)
	}
	if f.editor.Value() != "abc" {
		t.Errorf("Value() = %q", f.editor.Value())
	}
}
