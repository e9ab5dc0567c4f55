// Package adapter drives one engine instance from configuration snapshots.
//
// An Adapter mounts an editor from a Props snapshot, then applies each later
// snapshot by diffing it field by field against the previous one, so only
// changed options reach the engine and engine-owned state (active-line
// highlight, undo history, selection) is left alone for untouched fields.
// Markers, annotations and commands are reconciled by the marker, annotation
// and command packages; change notifications go through a debounce.Func.
//
// An Adapter is not safe for concurrent use. Drive it, and deliver its
// debounce timers, from one goroutine (see package loop).
package adapter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/editsync/internal/annotation"
	"github.com/dshills/editsync/internal/command"
	"github.com/dshills/editsync/internal/debounce"
	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/logging"
	"github.com/dshills/editsync/internal/marker"
)

// Path prefixes used when a theme or keyboard handler is given by bare name.
const (
	ThemePrefix    = "ace/theme/"
	KeyboardPrefix = "ace/keyboard/"
)

// change is one buffer change paired with the buffer value right after it.
type change struct {
	value string
	delta engine.Delta
}

// Adapter owns one engine instance.
type Adapter struct {
	id        string
	lib       engine.Library
	editor    engine.Editor
	props     Props
	logger    *logging.Logger
	scheduler debounce.Scheduler

	diagnose      bool
	onDiagnostic  func(Diagnostic)
	diagnostics   []Diagnostic
	changeHandler func(value string, d engine.Delta)

	markers  *marker.Reconciler
	commands *command.Installer
	change   *debounce.Func[change]
	subs     []engine.Subscription

	// applying counts nested snapshot applications; events raised meanwhile
	// wait in queue until the outermost one finishes.
	applying int
	queue    []func()
	// silent suppresses change notifications for values set from props.
	silent bool

	destroyed bool
}

// New mounts an editor created from lib and applies props in full.
func New(lib engine.Library, props Props, opts ...Option) *Adapter {
	a := &Adapter{
		id:        uuid.NewString(),
		lib:       lib,
		logger:    logging.Default(),
		scheduler: debounce.SystemScheduler{},
		diagnose:  true,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithComponent("adapter").WithField("editor", a.id)
	a.mount(props)
	return a
}

func (a *Adapter) mount(p Props) {
	a.props = p
	if p.OnBeforeLoad != nil {
		p.OnBeforeLoad(a.lib)
	}

	ed := a.lib.NewEditor()
	a.editor = ed
	a.markers = marker.NewReconciler(ed.Session())
	a.commands = command.NewInstaller(ed.Commands())

	for _, key := range sortedKeys(p.EditorProps) {
		ed.SetProperty(key, p.EditorProps[key])
	}
	a.change = a.newCoalescer(p.DebounceChangePeriod)

	// The initial value is applied before subscribing, so it raises no
	// notifications, and through the session, so it cannot be undone.
	ed.Renderer().SetScrollMargin(p.ScrollMargin[0], p.ScrollMargin[1], p.ScrollMargin[2], p.ScrollMargin[3])
	ed.Session().SetMode(p.Mode)
	if p.Theme != "" {
		ed.SetTheme(resolvePath(ThemePrefix, p.Theme))
	}
	if p.FontSize > 0 {
		ed.SetFontSize(fontSize(p.FontSize))
	}
	ed.Session().SetValue(initialValue(p))
	if p.NavigateToFileEnd {
		ed.NavigateFileEnd()
	}
	ed.Renderer().SetShowGutter(p.ShowGutter)
	ed.Session().SetUseWrapMode(p.WrapEnabled)
	ed.SetShowPrintMargin(p.ShowPrintMargin)

	a.subscribe()

	a.apply(func() {
		if p.Placeholder != "" {
			a.updatePlaceholder()
		}
		annotation.Sync(ed.Session(), p.Annotations)
		if len(p.Markers) > 0 {
			a.markers.Reconcile(p.Markers)
		}
		a.applyEditorOptions(nil, p)
		a.applySetOptions(nil, p.SetOptions)
		a.installCommands(p.Commands)
		if p.KeyboardHandler != "" {
			ed.SetKeyboardHandler(resolvePath(KeyboardPrefix, p.KeyboardHandler))
		}
		if p.ClassName != "" {
			ed.SetClassName(p.ClassName)
		}
		if p.OnLoad != nil {
			p.OnLoad(ed)
		}
		ed.Renderer().Resize(false)
		if p.Focus {
			ed.Focus()
		}
	})
	a.logger.Debug("mounted")
}

func initialValue(p Props) string {
	if p.DefaultValue != "" {
		return p.DefaultValue
	}
	if p.Value != nil {
		return *p.Value
	}
	return ""
}

// Configure applies next, touching only the fields that differ from the
// previous snapshot. Events raised while it runs are delivered after the
// whole snapshot is applied.
func (a *Adapter) Configure(next Props) error {
	if a.destroyed {
		return ErrDestroyed
	}
	prev := a.props
	a.props = next
	a.apply(func() {
		a.update(prev, next)
	})
	return nil
}

func (a *Adapter) update(prev, next Props) {
	ed := a.editor

	a.applyEditorOptions(&prev, next)

	if next.ClassName != prev.ClassName {
		ed.SetClassName(next.ClassName)
	}

	// The value goes first: annotations below are re-applied against it.
	valueChanged := next.Value != nil && ed.Value() != *next.Value
	if valueChanged {
		a.setValueSilently(*next.Value, next.CursorStart)
	}

	if next.Placeholder != prev.Placeholder {
		a.updatePlaceholder()
	}
	if !modeEqual(next.Mode, prev.Mode) {
		ed.Session().SetMode(next.Mode)
	}
	if next.Theme != prev.Theme {
		ed.SetTheme(resolvePath(ThemePrefix, next.Theme))
	}
	if next.KeyboardHandler != prev.KeyboardHandler {
		ed.SetKeyboardHandler(resolvePath(KeyboardPrefix, next.KeyboardHandler))
	}
	if next.FontSize != prev.FontSize {
		ed.SetFontSize(fontSize(next.FontSize))
	}
	if next.WrapEnabled != prev.WrapEnabled {
		ed.Session().SetUseWrapMode(next.WrapEnabled)
	}
	if next.ShowPrintMargin != prev.ShowPrintMargin {
		ed.SetShowPrintMargin(next.ShowPrintMargin)
	}
	if next.ShowGutter != prev.ShowGutter {
		ed.Renderer().SetShowGutter(next.ShowGutter)
	}
	if !mapsEqual(next.SetOptions, prev.SetOptions) {
		a.applySetOptions(prev.SetOptions, next.SetOptions)
	}
	if valueChanged || !annotation.Equal(next.Annotations, prev.Annotations) {
		annotation.Sync(ed.Session(), next.Annotations)
	}
	if !marker.Equal(next.Markers, prev.Markers) {
		a.markers.Reconcile(next.Markers)
	}
	if next.ScrollMargin != prev.ScrollMargin {
		m := next.ScrollMargin
		ed.Renderer().SetScrollMargin(m[0], m[1], m[2], m[3])
	}
	if !command.Equal(next.Commands, prev.Commands) {
		a.installCommands(next.Commands)
	}
	if next.DebounceChangePeriod != prev.DebounceChangePeriod {
		a.change.Cancel()
		a.change = a.newCoalescer(next.DebounceChangePeriod)
	}
	if next.Width != prev.Width || next.Height != prev.Height {
		ed.Renderer().Resize(false)
	}
	if next.Focus && !prev.Focus {
		ed.Focus()
	}
}

// setValueSilently replaces the buffer without reporting the change and puts
// the selection back where it was.
func (a *Adapter) setValueSilently(value string, cursorStart int) {
	sel := a.editor.Selection()
	r, cursor, empty := sel.Range(), sel.Cursor(), sel.IsEmpty()

	a.silent = true
	a.editor.SetValue(value, cursorStart)
	a.silent = false

	if empty {
		sel.MoveCursorTo(cursor.Row, cursor.Column)
	} else {
		sel.SetRange(r)
	}
}

// applyEditorOptions sets the validated editor options. With prev nil every
// option is considered; otherwise only those whose value changed.
func (a *Adapter) applyEditorOptions(prev *Props, next Props) {
	for _, opt := range editorOptions {
		v := opt.get(next)
		if prev != nil && opt.get(*prev) == v {
			continue
		}
		if !a.editor.HasOption(opt.name) {
			if activated(v) {
				a.report(unknownOption(opt.name))
			}
			continue
		}
		if !applicable(v) {
			continue
		}
		if err := a.editor.SetOption(opt.name, v); err != nil {
			a.logger.Warn("setting option %s: %v", opt.name, err)
		}
	}
}

// applySetOptions passes next to the engine. Unknown keys are reported when
// they are new or changed since prev.
func (a *Adapter) applySetOptions(prev, next map[string]any) {
	for _, name := range sortedKeys(next) {
		v := next[name]
		if !a.editor.HasOption(name) {
			if old, ok := prev[name]; !ok || !valuesEqual(old, v) {
				a.report(unknownOption(name))
			}
			continue
		}
		if err := a.editor.SetOption(name, v); err != nil {
			a.logger.Warn("setting option %s: %v", name, err)
		}
	}
}

func (a *Adapter) installCommands(descs []command.Descriptor) {
	if err := a.commands.Install(descs); err != nil {
		a.logger.Warn("installing commands: %v", err)
	}
}

func (a *Adapter) report(d Diagnostic) {
	if !a.diagnose {
		return
	}
	a.diagnostics = append(a.diagnostics, d)
	a.logger.WithField("option", d.Option).Warn("%s", d.Message)
	if a.onDiagnostic != nil {
		a.onDiagnostic(d)
	}
}

// updatePlaceholder shows the placeholder while the buffer is empty and
// removes it otherwise.
func (a *Adapter) updatePlaceholder() {
	r := a.editor.Renderer()
	text := a.props.Placeholder
	_, shown := r.Placeholder()
	show := text != "" && a.editor.Value() == ""
	switch {
	case !show && shown:
		r.RemovePlaceholder()
	case show:
		r.SetPlaceholder(text)
	}
}

// apply runs fn as one snapshot application and then flushes queued events.
func (a *Adapter) apply(fn func()) {
	a.applying++
	fn()
	a.applying--
	if a.applying > 0 {
		return
	}
	for len(a.queue) > 0 && !a.destroyed {
		next := a.queue[0]
		a.queue = a.queue[1:]
		next()
	}
	a.queue = nil
}

// dispatch runs fn now, or after the snapshot being applied.
func (a *Adapter) dispatch(fn func()) {
	if a.destroyed {
		return
	}
	if a.applying > 0 {
		a.queue = append(a.queue, fn)
		return
	}
	fn()
}

// Editor returns the engine instance.
func (a *Adapter) Editor() (engine.Editor, error) {
	if a.destroyed {
		return nil, ErrDestroyed
	}
	return a.editor, nil
}

// Props returns the snapshot applied last.
func (a *Adapter) Props() (Props, error) {
	if a.destroyed {
		return Props{}, ErrDestroyed
	}
	return a.props, nil
}

// ID returns the adapter's unique id, used in log fields.
func (a *Adapter) ID() string {
	return a.id
}

// Diagnostics returns the diagnostics reported so far.
func (a *Adapter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(a.diagnostics))
	copy(out, a.diagnostics)
	return out
}

// MarkerIDs returns the registry ids of the markers the adapter added.
func (a *Adapter) MarkerIDs() ([]int, error) {
	if a.destroyed {
		return nil, ErrDestroyed
	}
	return a.markers.IDs(), nil
}

// FlushChange delivers a pending debounced change notification now.
func (a *Adapter) FlushChange() bool {
	if a.destroyed {
		return false
	}
	return a.change.Flush()
}

// Destroy cancels pending notifications and subscriptions and destroys the
// editor. It is safe to call more than once.
func (a *Adapter) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true
	a.change.Cancel()
	for _, sub := range a.subs {
		sub.Cancel()
	}
	a.subs = nil
	a.queue = nil
	a.editor.Destroy()
	a.editor = nil
	a.logger.Debug("destroyed")
}

// Destroyed reports whether Destroy was called.
func (a *Adapter) Destroyed() bool {
	return a.destroyed
}

func resolvePath(prefix, name string) string {
	if name == "" || strings.Contains(name, "/") {
		return name
	}
	return prefix + name
}

func fontSize(px int) string {
	if px <= 0 {
		return ""
	}
	return strconv.Itoa(px) + "px"
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
