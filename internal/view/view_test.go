package view

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/editsync/internal/debounce"
	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/engine/memory"
	"github.com/dshills/editsync/internal/logging"
	"github.com/dshills/editsync/internal/split"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func newEditor(value string) engine.Editor {
	ed := memory.New().NewEditor()
	ed.SetValue(value, engine.CursorDocStart)
	return ed
}

func rowText(s tcell.Screen, y, x, width int) string {
	var b strings.Builder
	for i := 0; i < width; i++ {
		r, _, _, _ := s.GetContent(x+i, y) //nolint:staticcheck // GetContent reads back the simulation screen
		b.WriteRune(r)
	}
	return b.String()
}

func styleAt(s tcell.Screen, x, y int) tcell.Style {
	_, _, style, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent reads back the simulation screen
	return style
}

func TestDrawEditor_TextAndGutter(t *testing.T) {
	tests := []struct {
		name   string
		gutter bool
		want   []string
	}{
		{"gutter", true, []string{"  1 hello ", "  2 world ", "          "}},
		{"no gutter", false, []string{"hello     ", "world     ", "          "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scr := newScreen(t, 10, 3)
			ed := newEditor("hello\nworld")
			ed.Renderer().SetShowGutter(tt.gutter)

			New(scr).DrawEditor(ed, split.Rect{Width: 10, Height: 3}, false)
			for y, want := range tt.want {
				if got := rowText(scr, y, 0, 10); got != want {
					t.Errorf("row %d = %q, want %q", y, got, want)
				}
			}
		})
	}
}

func TestDrawEditor_AnnotationSigns(t *testing.T) {
	scr := newScreen(t, 12, 3)
	ed := newEditor("a\nb\nc")
	ed.Session().SetAnnotations([]engine.Annotation{
		{Row: 1, Text: "bad", Type: "error"},
		{Row: 2, Text: "hmm", Type: "warning"},
	})
	theme := DefaultTheme()

	New(scr).DrawEditor(ed, split.Rect{Width: 12, Height: 3}, false)
	tests := []struct {
		y     int
		sign  string
		style tcell.Style
	}{
		{0, " ", theme.Text},
		{1, "E", theme.Error},
		{2, "W", theme.Warning},
	}
	for _, tt := range tests {
		if got := rowText(scr, tt.y, 0, 1); got != tt.sign {
			t.Errorf("row %d sign = %q, want %q", tt.y, got, tt.sign)
		}
		if tt.sign != " " && styleAt(scr, 0, tt.y) != tt.style {
			t.Errorf("row %d sign style differs", tt.y)
		}
	}
}

func TestDrawEditor_MarkersAndActiveLine(t *testing.T) {
	scr := newScreen(t, 10, 2)
	ed := newEditor("abcdef\nghijkl")
	ed.Renderer().SetShowGutter(false)
	ed.Session().AddMarker(engine.NewRange(1, 1, 1, 3), "hl", "text", false)
	theme := DefaultTheme()

	New(scr).DrawEditor(ed, split.Rect{Width: 10, Height: 2}, false)

	if styleAt(scr, 0, 0) != theme.ActiveLine || styleAt(scr, 8, 0) != theme.ActiveLine {
		t.Error("cursor row is not drawn as the active line")
	}
	for x, want := range []tcell.Style{theme.Text, theme.Marker, theme.Marker, theme.Text} {
		if got := styleAt(scr, x, 1); got != want {
			t.Errorf("row 1 col %d style = %v, want %v", x, got, want)
		}
	}
}

func TestDrawEditor_Selection(t *testing.T) {
	scr := newScreen(t, 10, 1)
	ed := newEditor("abcdef")
	ed.Renderer().SetShowGutter(false)
	if err := ed.SetOption("highlightActiveLine", false); err != nil {
		t.Fatal(err)
	}
	ed.Selection().SetRange(engine.NewRange(0, 4, 0, 2))
	theme := DefaultTheme()

	New(scr).DrawEditor(ed, split.Rect{Width: 10, Height: 1}, false)
	for x, want := range []tcell.Style{theme.Text, theme.Text, theme.Selection, theme.Selection, theme.Text} {
		if got := styleAt(scr, x, 0); got != want {
			t.Errorf("col %d style = %v, want %v", x, got, want)
		}
	}
}

func TestDrawEditor_CursorAndScroll(t *testing.T) {
	var lines []string
	for i := 0; i < 10; i++ {
		lines = append(lines, strings.Repeat("x", i))
	}
	scr := newScreen(t, 20, 3)
	ed := newEditor(strings.Join(lines, "\n"))
	ed.Selection().MoveCursorTo(9, 4)

	New(scr).DrawEditor(ed, split.Rect{Width: 20, Height: 3}, true)

	if got := rowText(scr, 0, 0, 4); got != "  8 " {
		t.Errorf("first visible row = %q, want line 8", got)
	}
	x, y, visible := scr.GetCursor()
	if !visible || x != 4+4 || y != 2 {
		t.Errorf("cursor = (%d, %d, %v), want (8, 2, true)", x, y, visible)
	}
	if ed.Session().ScrollTop() != 0 {
		t.Errorf("drawing changed ScrollTop to %d", ed.Session().ScrollTop())
	}
}

func TestDrawEditor_Placeholder(t *testing.T) {
	scr := newScreen(t, 12, 1)
	ed := newEditor("")
	ed.Renderer().SetShowGutter(false)
	ed.Renderer().SetPlaceholder("type here")

	New(scr).DrawEditor(ed, split.Rect{Width: 12, Height: 1}, false)
	if got := rowText(scr, 0, 0, 9); got != "type here" {
		t.Errorf("row = %q, want the placeholder", got)
	}
	if styleAt(scr, 0, 0) != DefaultTheme().Placeholder {
		t.Error("placeholder not drawn with the placeholder style")
	}
}

func TestDrawEditor_TabsAndWideRunes(t *testing.T) {
	scr := newScreen(t, 12, 2)
	ed := newEditor("a\tb\n世界x")
	ed.Renderer().SetShowGutter(false)

	New(scr).DrawEditor(ed, split.Rect{Width: 12, Height: 2}, false)
	if got := rowText(scr, 0, 0, 5); got != "a   b" {
		t.Errorf("tab row = %q", got)
	}
	if r, _, _, _ := scr.GetContent(4, 1); r != 'x' { //nolint:staticcheck // GetContent reads back the simulation screen
		t.Errorf("cell after two wide runes = %q, want x", r)
	}
}

func TestDisplayColumn(t *testing.T) {
	tests := []struct {
		line string
		col  int
		want int
	}{
		{"abc", 2, 2},
		{"a\tb", 2, 4},
		{"\t\tb", 2, 8},
		{"世界x", len("世界"), 4},
		{"short", 99, 5},
	}
	for _, tt := range tests {
		if got := displayColumn(tt.line, tt.col, 4); got != tt.want {
			t.Errorf("displayColumn(%q, %d) = %d, want %d", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestScrollTop(t *testing.T) {
	tests := []struct {
		top, row, height int
		want             int
	}{
		{0, 0, 5, 0},
		{0, 4, 5, 0},
		{0, 5, 5, 1},
		{10, 3, 5, 3},
		{-2, 0, 5, 0},
	}
	for _, tt := range tests {
		if got := scrollTop(tt.top, tt.row, tt.height); got != tt.want {
			t.Errorf("scrollTop(%d, %d, %d) = %d, want %d", tt.top, tt.row, tt.height, got, tt.want)
		}
	}
}

func TestDrawSplit(t *testing.T) {
	tests := []struct {
		name        string
		orientation split.Orientation
		check       func(t *testing.T, scr tcell.Screen)
	}{
		{"beside", split.Beside, func(t *testing.T, scr tcell.Screen) {
			if got := rowText(scr, 0, 0, 21); got != "left       │right    " {
				t.Errorf("row 0 = %q", got)
			}
		}},
		{"below", split.Below, func(t *testing.T, scr tcell.Screen) {
			want := map[int]string{0: "left", 2: "────", 3: "righ"}
			for y, w := range want {
				if got := rowText(scr, y, 0, 4); got != w {
					t.Errorf("row %d = %q, want %q", y, got, w)
				}
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := split.DefaultProps()
			p.Value = []string{"left", "right"}
			p.ShowGutter = false
			p.HighlightActiveLine = false
			p.Orientation = tt.orientation
			s := split.New(memory.New(), p, split.WithLogger(logging.Discard()), split.WithScheduler(debounce.NewManualScheduler()))
			defer s.Destroy()

			scr := newScreen(t, 21, 4)
			New(scr).DrawSplit(s, 21, 4, 1)
			tt.check(t, scr)
		})
	}
}

func TestDrawStatus(t *testing.T) {
	scr := newScreen(t, 8, 2)
	New(scr).DrawStatus(1, 8, "saved")
	if got := rowText(scr, 1, 0, 8); got != "saved   " {
		t.Errorf("status = %q", got)
	}
	if styleAt(scr, 7, 1) != DefaultTheme().Status {
		t.Error("status row not filled with the status style")
	}
}
