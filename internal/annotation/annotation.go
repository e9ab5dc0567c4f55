// Package annotation replaces an engine session's annotation list.
//
// Annotations are anchored to row/column coordinates and are applied as
// given. Nothing here follows text edits: when the buffer changes under a
// list, the caller re-applies the list it wants against the new coordinates.
package annotation

import "github.com/dshills/editsync/internal/engine"

// Setter is the part of a session Sync drives.
type Setter interface {
	SetAnnotations(list []engine.Annotation)
}

// Sync replaces the annotation list with list. A nil or empty list clears it.
func Sync(s Setter, list []engine.Annotation) {
	if len(list) == 0 {
		s.SetAnnotations(nil)
		return
	}
	out := make([]engine.Annotation, len(list))
	copy(out, list)
	s.SetAnnotations(out)
}

// Equal reports whether a and b hold the same annotations in the same order.
// A nil list equals an empty one.
func Equal(a, b []engine.Annotation) bool {
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

// OutOfRange returns the annotations whose row does not exist in a buffer of
// lineCount rows.
func OutOfRange(list []engine.Annotation, lineCount int) []engine.Annotation {
	var out []engine.Annotation
	for _, a := range list {
		if a.Row < 0 || a.Row >= lineCount {
			out = append(out, a)
		}
	}
	return out
}
