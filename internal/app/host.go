package app

import (
	"github.com/dshills/editsync/internal/adapter"
	"github.com/dshills/editsync/internal/config"
	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/split"
	"github.com/dshills/editsync/internal/view"
)

// host is the mounted editor: one adapter or a split.
type host interface {
	editors() []engine.Editor
	diagnostics() []adapter.Diagnostic
	configure(doc *config.Document) error
	isSplit() bool
	draw(v *view.View, r split.Rect, focus int)
	destroy()
}

type singleHost struct {
	app *App
	a   *adapter.Adapter
}

func (h *singleHost) editors() []engine.Editor {
	ed, err := h.a.Editor()
	if err != nil {
		return nil
	}
	return []engine.Editor{ed}
}

func (h *singleHost) diagnostics() []adapter.Diagnostic {
	return h.a.Diagnostics()
}

func (h *singleHost) configure(doc *config.Document) error {
	p, err := doc.AdapterProps(h.app.scripts)
	if err != nil {
		return err
	}
	h.app.singleCallbacks(&p)
	return h.a.Configure(p)
}

func (h *singleHost) isSplit() bool { return false }

func (h *singleHost) draw(v *view.View, r split.Rect, focus int) {
	if ed, err := h.a.Editor(); err == nil {
		v.DrawEditor(ed, r, focus == 0)
	}
}

func (h *singleHost) destroy() {
	h.a.Destroy()
}

type splitHost struct {
	app *App
	s   *split.Split
}

func (h *splitHost) editors() []engine.Editor {
	var eds []engine.Editor
	h.s.ForEach(func(_ int, ed engine.Editor) {
		eds = append(eds, ed)
	})
	return eds
}

func (h *splitHost) diagnostics() []adapter.Diagnostic {
	return h.s.Diagnostics()
}

func (h *splitHost) configure(doc *config.Document) error {
	p, err := doc.SplitProps(h.app.scripts)
	if err != nil {
		return err
	}
	h.app.splitCallbacks(&p)
	return h.s.Configure(p)
}

func (h *splitHost) isSplit() bool { return true }

// draw ignores r's origin; a split always fills the screen from the top
// left corner.
func (h *splitHost) draw(v *view.View, r split.Rect, focus int) {
	v.DrawSplit(h.s, r.Width, r.Height, focus)
}

func (h *splitHost) destroy() {
	h.s.Destroy()
}
