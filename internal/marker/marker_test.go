package marker

import (
	"testing"

	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/engine/memory"
)

// owned returns the markers in both registries not created by the engine.
func owned(s engine.Session) []engine.Marker {
	var out []engine.Marker
	for _, front := range []bool{false, true} {
		for _, m := range s.Markers(front) {
			if m.Class != engine.ClassActiveLine && m.Class != engine.ClassSelectedWord {
				out = append(out, m)
			}
		}
	}
	return out
}

func assertOwnedMatch(t *testing.T, s engine.Session, r *Reconciler, descs []Descriptor) {
	t.Helper()
	got := owned(s)
	if len(got) != len(descs) {
		t.Fatalf("registry holds %d reconciler markers, want %d: %+v", len(got), len(descs), got)
	}
	ids := r.IDs()
	all := s.Markers(false)
	for id, m := range s.Markers(true) {
		all[id] = m
	}
	for i, d := range descs {
		m, ok := all[ids[i]]
		if !ok {
			t.Fatalf("id %d for descriptor %d missing from registry", ids[i], i)
		}
		if !d.Matches(m) {
			t.Errorf("marker %d = %+v, does not match %+v", ids[i], m, d)
		}
	}
}

func TestReconciler_PreservesEngineMarkers(t *testing.T) {
	ed := memory.New().NewEditor()
	s := ed.Session()
	r := NewReconciler(s)

	m1 := []Descriptor{
		{StartRow: 0, StartCol: 2, EndRow: 1, EndCol: 20, ClassName: "test-marker-old", Type: "text"},
		{StartRow: 4, ClassName: "fullline", Type: "fullLine", InFront: true},
	}
	m2 := []Descriptor{
		{StartRow: 2, EndRow: 3, EndCol: 5, ClassName: "test-marker-new", Type: "text"},
	}

	tests := []struct {
		name  string
		descs []Descriptor
	}{
		{"initial", m1},
		{"replace", m2},
		{"empty", nil},
		{"again", m1},
		{"same content twice", m1},
	}

	for _, tt := range tests {
		r.Reconcile(tt.descs)
		assertOwnedMatch(t, s, r, tt.descs)

		back := s.Markers(false)
		if back[1].Class != engine.ClassActiveLine {
			t.Errorf("%s: marker 1 = %+v, want active line", tt.name, back[1])
		}
		if back[2].Class != engine.ClassSelectedWord {
			t.Errorf("%s: marker 2 = %+v, want selected word", tt.name, back[2])
		}
	}
}

func TestReconciler_FirstIDsFollowEngineMarkers(t *testing.T) {
	ed := memory.New().NewEditor()
	r := NewReconciler(ed.Session())

	r.Reconcile([]Descriptor{{StartRow: 0, ClassName: "a"}, {StartRow: 1, ClassName: "b"}})

	ids := r.IDs()
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 4 {
		t.Errorf("IDs() = %v, want [3 4]", ids)
	}
	if m := ed.Session().Markers(false)[3]; m.Type != DefaultType {
		t.Errorf("default type = %q, want %q", m.Type, DefaultType)
	}
	if !r.Owns(4) || r.Owns(1) {
		t.Error("Owns mismatch")
	}
}

func TestReconciler_Clear(t *testing.T) {
	ed := memory.New().NewEditor()
	s := ed.Session()
	r := NewReconciler(s)

	r.Reconcile([]Descriptor{{StartRow: 0, ClassName: "a", InFront: true}})
	r.Clear()

	if len(owned(s)) != 0 {
		t.Errorf("markers left after Clear: %+v", owned(s))
	}
	if len(r.IDs()) != 0 {
		t.Errorf("IDs() after Clear = %v", r.IDs())
	}
	if len(s.Markers(false)) != 2 {
		t.Errorf("engine markers = %+v", s.Markers(false))
	}
}

func TestReconciler_IndependentPerRegistry(t *testing.T) {
	lib := memory.New()
	a, b := lib.NewEditor().Session(), lib.NewEditor().Session()
	ra, rb := NewReconciler(a), NewReconciler(b)

	ra.Reconcile([]Descriptor{{StartRow: 0, ClassName: "only-a"}})
	rb.Reconcile(nil)

	if len(owned(a)) != 1 || len(owned(b)) != 0 {
		t.Errorf("owned a=%d b=%d, want 1 0", len(owned(a)), len(owned(b)))
	}
}

func TestDescriptor_Range(t *testing.T) {
	d := Descriptor{StartRow: 5, StartCol: 1, EndRow: 0, EndCol: 3}
	if got := d.Range(); got != engine.NewRange(5, 1, 5, 3) {
		t.Errorf("Range() = %v", got)
	}
}

func TestEqual(t *testing.T) {
	a := []Descriptor{{StartRow: 1, ClassName: "x"}}
	tests := []struct {
		name string
		x, y []Descriptor
		want bool
	}{
		{"nil and empty", nil, []Descriptor{}, true},
		{"same", a, []Descriptor{{StartRow: 1, ClassName: "x"}}, true},
		{"different class", a, []Descriptor{{StartRow: 1, ClassName: "y"}}, false},
		{"different length", a, nil, false},
	}
	for _, tt := range tests {
		if got := Equal(tt.x, tt.y); got != tt.want {
			t.Errorf("%s: Equal = %v, want %v", tt.name, got, tt.want)
		}
	}
}
