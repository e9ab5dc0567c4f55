// Package marker reconciles declared markers against an engine's marker
// registry.
//
// The registry also holds markers the engine creates for its own features
// (active line, selected word). A Reconciler only ever removes ids it added
// itself, so those survive every reconciliation with their original ids.
package marker

import "github.com/dshills/editsync/internal/engine"

// DefaultType is the marker type used when a descriptor leaves it empty.
const DefaultType = "text"

// Descriptor declares one marker. Rows and columns are zero-based.
// An EndRow before StartRow is treated as StartRow.
type Descriptor struct {
	StartRow  int    `json:"startRow" yaml:"startRow" toml:"startRow"`
	StartCol  int    `json:"startCol" yaml:"startCol" toml:"startCol"`
	EndRow    int    `json:"endRow" yaml:"endRow" toml:"endRow"`
	EndCol    int    `json:"endCol" yaml:"endCol" toml:"endCol"`
	ClassName string `json:"className" yaml:"className" toml:"className"`
	Type      string `json:"type" yaml:"type" toml:"type"`
	InFront   bool   `json:"inFront" yaml:"inFront" toml:"inFront"`
}

// Range returns the range the descriptor covers.
func (d Descriptor) Range() engine.Range {
	endRow := d.EndRow
	if endRow < d.StartRow {
		endRow = d.StartRow
	}
	return engine.NewRange(d.StartRow, d.StartCol, endRow, d.EndCol)
}

func (d Descriptor) typ() string {
	if d.Type == "" {
		return DefaultType
	}
	return d.Type
}

// Matches reports whether m is what d would add to a registry.
func (d Descriptor) Matches(m engine.Marker) bool {
	return m.Range == d.Range() && m.Class == d.ClassName && m.Type == d.typ() && m.InFront == d.InFront
}

// Equal reports whether a and b declare the same markers in the same order.
// A nil list equals an empty one.
func Equal(a, b []Descriptor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Registry is the part of a session a Reconciler drives.
type Registry interface {
	AddMarker(r engine.Range, class, typ string, inFront bool) int
	RemoveMarker(id int)
}

// Reconciler owns the markers it added to one registry.
type Reconciler struct {
	registry Registry
	ids      []int
}

// NewReconciler creates a reconciler for registry.
func NewReconciler(registry Registry) *Reconciler {
	return &Reconciler{registry: registry}
}

// Reconcile makes the reconciler's markers in the registry equal descs.
// Every previously added marker is removed first, then descs are added in
// order and the ids the registry assigns are recorded. Ids are not stable
// across calls.
func (r *Reconciler) Reconcile(descs []Descriptor) {
	r.Clear()
	if len(descs) == 0 {
		return
	}
	ids := make([]int, 0, len(descs))
	for _, d := range descs {
		ids = append(ids, r.registry.AddMarker(d.Range(), d.ClassName, d.typ(), d.InFront))
	}
	r.ids = ids
}

// Clear removes every marker the reconciler added.
func (r *Reconciler) Clear() {
	for _, id := range r.ids {
		r.registry.RemoveMarker(id)
	}
	r.ids = nil
}

// IDs returns the ids of the reconciler's markers, in descriptor order.
func (r *Reconciler) IDs() []int {
	out := make([]int, len(r.ids))
	copy(out, r.ids)
	return out
}

// Owns reports whether id was added by the reconciler.
func (r *Reconciler) Owns(id int) bool {
	for _, own := range r.ids {
		if own == id {
			return true
		}
	}
	return false
}
