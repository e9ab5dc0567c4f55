package annotation

import (
	"testing"

	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/engine/memory"
)

func TestSync(t *testing.T) {
	s := memory.New().NewEditor().Session()
	list := []engine.Annotation{{Row: 3, Column: 4, Text: "error.message", Type: "error"}}

	Sync(s, list)
	got := s.Annotations()
	if len(got) != 1 || got[0] != list[0] {
		t.Fatalf("Annotations() = %+v, want %+v", got, list)
	}

	list[0].Text = "mutated"
	if s.Annotations()[0].Text != "error.message" {
		t.Error("Sync kept a reference to the caller's slice")
	}

	Sync(s, nil)
	if got := s.Annotations(); len(got) != 0 {
		t.Errorf("Annotations() after nil = %+v, want empty", got)
	}

	Sync(s, list)
	Sync(s, []engine.Annotation{})
	if got := s.Annotations(); len(got) != 0 {
		t.Errorf("Annotations() after empty = %+v, want empty", got)
	}
}

func TestSync_DoesNotFollowEdits(t *testing.T) {
	ed := memory.New().NewEditor()
	ed.SetValue("a\nb\nc", engine.CursorDocStart)
	Sync(ed.Session(), []engine.Annotation{{Row: 2, Text: "x", Type: "warning"}})

	ed.Insert("new\n")

	if got := ed.Session().Annotations(); got[0].Row != 2 {
		t.Errorf("annotation row = %d, want 2 (not re-anchored)", got[0].Row)
	}
}

func TestEqual(t *testing.T) {
	a := []engine.Annotation{{Row: 1, Text: "x", Type: "error"}}
	tests := []struct {
		name string
		x, y []engine.Annotation
		want bool
	}{
		{"nil and empty", nil, []engine.Annotation{}, true},
		{"same", a, []engine.Annotation{{Row: 1, Text: "x", Type: "error"}}, true},
		{"different row", a, []engine.Annotation{{Row: 2, Text: "x", Type: "error"}}, false},
		{"different length", a, nil, false},
	}
	for _, tt := range tests {
		if got := Equal(tt.x, tt.y); got != tt.want {
			t.Errorf("%s: Equal = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOutOfRange(t *testing.T) {
	list := []engine.Annotation{{Row: 0}, {Row: 2}, {Row: -1}}
	got := OutOfRange(list, 2)
	if len(got) != 2 || got[0].Row != 2 || got[1].Row != -1 {
		t.Errorf("OutOfRange = %+v", got)
	}
}
