package memory

import "github.com/dshills/editsync/internal/engine"

// Renderer implements engine.Renderer. It holds state only; nothing is drawn.
type Renderer struct {
	editor       *Editor
	scrollMargin [4]int
	placeholder  string
	placeholding bool
	resizes      int
}

// ShowGutter reports whether the gutter is visible.
func (r *Renderer) ShowGutter() bool {
	v, _ := r.editor.options["showGutter"].(bool)
	return v
}

// SetShowGutter toggles the gutter.
func (r *Renderer) SetShowGutter(show bool) {
	r.editor.options["showGutter"] = show
}

// ScrollMargin returns top, bottom, left and right margins.
func (r *Renderer) ScrollMargin() [4]int {
	return r.scrollMargin
}

// SetScrollMargin sets the scroll margins.
func (r *Renderer) SetScrollMargin(top, bottom, left, right int) {
	r.scrollMargin = [4]int{top, bottom, left, right}
}

// Placeholder returns the placeholder text and whether the node exists.
func (r *Renderer) Placeholder() (string, bool) {
	return r.placeholder, r.placeholding
}

// SetPlaceholder creates or updates the placeholder node.
func (r *Renderer) SetPlaceholder(text string) {
	r.placeholder = text
	r.placeholding = true
}

// RemovePlaceholder removes the placeholder node.
func (r *Renderer) RemovePlaceholder() {
	r.placeholder = ""
	r.placeholding = false
}

// GutterDecorations returns the gutter's annotation decorations by row.
func (r *Renderer) GutterDecorations() []engine.GutterDecoration {
	return r.editor.session.gutterDecorations()
}

// Resize recomputes layout. The memory engine only counts calls.
func (r *Renderer) Resize(bool) {
	r.resizes++
}

// Resizes returns how many times Resize was called.
func (r *Renderer) Resizes() int {
	return r.resizes
}
