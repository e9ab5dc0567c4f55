// Package app is the editsync command's host: it mounts a props document on
// the in-memory engine, drives it from a terminal or headless, and reloads it
// when the file changes.
//
// Everything that touches the editors runs on one loop.Loop goroutine. Key
// events, debounce timers and file reloads are all posted onto it.
package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/dshills/editsync/internal/adapter"
	"github.com/dshills/editsync/internal/annotation"
	"github.com/dshills/editsync/internal/config"
	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/engine/memory"
	"github.com/dshills/editsync/internal/logging"
	"github.com/dshills/editsync/internal/loop"
	"github.com/dshills/editsync/internal/script"
	"github.com/dshills/editsync/internal/split"
	"github.com/dshills/editsync/internal/view"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the props document to mount. Empty mounts a blank
	// single editor.
	ConfigPath string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Watch reloads the document when its file changes.
	Watch bool
}

// extensions maps document extension names to the engine's extensions.
var extensions = map[string]func() engine.Extension{
	memory.ExtLanguageTools: memory.LanguageTools,
}

// App owns the engine, the mounted editor and the event loop.
type App struct {
	opts    Options
	logger  *logging.Logger
	loop    *loop.Loop
	lib     *memory.Library
	scripts *script.Runtime
	watcher *config.Watcher

	doc   *config.Document
	host  host
	view  *view.View
	out   io.Writer
	focus int

	status  string
	running atomic.Bool
}

// New loads the document and mounts it.
func New(opts Options) (*App, error) {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	a := &App{
		opts: opts,
		logger: logging.New(logging.Config{
			Level:  logging.ParseLevel(opts.LogLevel),
			Output: opts.LogOutput,
			Prefix: "editsync",
		}),
	}
	a.loop = loop.New(loop.WithPanicHandler(func(v any) {
		a.logger.Error("task panicked: %v", v)
	}))

	doc := &config.Document{}
	if opts.ConfigPath != "" {
		var err error
		if doc, err = config.Load(opts.ConfigPath); err != nil {
			return nil, &InitError{Component: "config", Err: err}
		}
	}

	a.scripts = script.NewRuntime(
		script.WithLogger(a.logger),
		script.WithErrorHandler(func(err error) { a.setStatus(err.Error()) }),
	)
	if err := a.mount(doc); err != nil {
		a.scripts.Close()
		return nil, &InitError{Component: "editor", Err: err}
	}

	if opts.Watch && opts.ConfigPath != "" {
		w, err := config.Watch(opts.ConfigPath, a.reload,
			config.WithReloadScheduler(a.loop),
			config.WithWatchLogger(a.logger),
			config.WithReloadError(func(err error) {
				a.loop.Post(func() { a.setStatus(err.Error()) })
			}))
		if err != nil {
			a.Close()
			return nil, &InitError{Component: "watcher", Err: err}
		}
		a.watcher = w
	}
	return a, nil
}

// mount creates the engine library and the editor doc describes.
func (a *App) mount(doc *config.Document) error {
	for _, name := range doc.Extensions {
		if _, ok := extensions[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownExtension, name)
		}
	}
	a.lib = memory.New(memory.WithPlatform(doc.EnginePlatform()))
	a.focus = 0

	if doc.IsSplit() {
		p, err := doc.SplitProps(a.scripts)
		if err != nil {
			return err
		}
		p.OnBeforeLoad = func(lib engine.Library) { a.registerExtensions(lib, doc) }
		p.OnLoad = func(s *split.Split) {
			a.logger.Info("mounted split %s with %d panes", s.ID(), s.Splits())
		}
		a.splitCallbacks(&p)
		s := split.New(a.lib, p, split.WithLogger(a.logger), split.WithScheduler(a.loop))
		a.host = &splitHost{app: a, s: s}
	} else {
		p, err := doc.AdapterProps(a.scripts)
		if err != nil {
			return err
		}
		p.OnBeforeLoad = func(lib engine.Library) { a.registerExtensions(lib, doc) }
		p.OnLoad = func(engine.Editor) {
			a.logger.Info("mounted editor")
		}
		a.singleCallbacks(&p)
		ad := adapter.New(a.lib, p, adapter.WithLogger(a.logger), adapter.WithScheduler(a.loop))
		a.host = &singleHost{app: a, a: ad}
	}
	a.doc = doc
	return nil
}

func (a *App) registerExtensions(lib engine.Library, doc *config.Document) {
	for _, name := range doc.Extensions {
		if err := lib.Register(extensions[name]()); err != nil {
			a.logger.Warn("register %s: %v", name, err)
		}
	}
}

// reload applies a changed document. A change of layout or of the engine
// setup remounts; anything else reconfigures the live editor.
func (a *App) reload(doc *config.Document) {
	status := "reloaded"
	if a.host == nil || a.needsRemount(doc) {
		if a.host != nil {
			a.host.destroy()
			a.host = nil
		}
		if err := a.mount(doc); err != nil {
			a.setStatus("reload: " + err.Error())
			return
		}
		status = "remounted"
	} else {
		if err := a.host.configure(doc); err != nil {
			a.setStatus("reload: " + err.Error())
			return
		}
		a.doc = doc
		if n := len(a.host.editors()); a.focus >= n {
			a.focus = n - 1
		}
	}
	a.setStatus(status)
	if a.out != nil {
		a.Summary(a.out)
	}
}

func (a *App) needsRemount(doc *config.Document) bool {
	return doc.IsSplit() != a.host.isSplit() ||
		doc.EnginePlatform() != a.doc.EnginePlatform() ||
		strings.Join(doc.Extensions, ",") != strings.Join(a.doc.Extensions, ",")
}

func (a *App) singleCallbacks(p *adapter.Props) {
	p.OnChange = func(value string, d engine.Delta) {
		a.logger.Debug("change %s at %s", d.Action, d.Start)
		a.setStatus(fmt.Sprintf("%s %q", d.Action, d.Text()))
	}
	p.OnValidate = func(list []engine.Annotation) {
		a.setStatus(fmt.Sprintf("%d annotations", len(list)))
	}
	p.OnCopy = func(text string) { a.setStatus(fmt.Sprintf("copied %d bytes", len(text))) }
}

func (a *App) splitCallbacks(p *split.Props) {
	p.OnChange = func(pane int, values []string, d engine.Delta) {
		a.logger.Debug("pane %d change %s at %s", pane, d.Action, d.Start)
		a.setStatus(fmt.Sprintf("pane %d: %s %q", pane, d.Action, d.Text()))
	}
	p.OnValidate = func(pane int, list []engine.Annotation) {
		a.setStatus(fmt.Sprintf("pane %d: %d annotations", pane, len(list)))
	}
	p.OnFocus = func(pane int, _ engine.Event, _ engine.Editor) {
		a.logger.Debug("pane %d focused", pane)
	}
	p.OnCopy = func(pane int, text string) {
		a.setStatus(fmt.Sprintf("pane %d: copied %d bytes", pane, len(text)))
	}
}

// setStatus sets the status line and redraws. Headless, the message is
// written out instead.
func (a *App) setStatus(s string) {
	a.status = s
	if a.out != nil {
		fmt.Fprintf(a.out, "status: %s\n", s)
	}
	a.draw()
}

// Editors returns the mounted editors in pane order.
func (a *App) Editors() []engine.Editor {
	if a.host == nil {
		return nil
	}
	return a.host.editors()
}

// Focused returns the editor keys go to, or nil.
func (a *App) Focused() engine.Editor {
	eds := a.Editors()
	if a.focus < 0 || a.focus >= len(eds) {
		return nil
	}
	return eds[a.focus]
}

// Status returns the status line message.
func (a *App) Status() string {
	return a.status
}

// Do runs fn on the loop goroutine and waits for it. It reports false when
// the loop is not running.
func (a *App) Do(fn func()) bool {
	done := make(chan struct{})
	if !a.loop.Post(func() {
		defer close(done)
		fn()
	}) {
		return false
	}
	select {
	case <-done:
		return true
	case <-a.loop.Done():
		return false
	}
}

// Summary writes the mounted state: per pane the line count, markers,
// annotations, cursor and content.
func (a *App) Summary(w io.Writer) {
	layout := config.LayoutSingle
	if a.doc.IsSplit() {
		layout = config.LayoutSplit + " " + a.doc.Orientation
	}
	eds := a.Editors()
	fmt.Fprintf(w, "editsync: %s, %d pane(s)\n", strings.TrimSpace(layout), len(eds))
	for i, ed := range eds {
		sess := ed.Session()
		markers := len(sess.Markers(false)) + len(sess.Markers(true))
		fmt.Fprintf(w, "pane %d: %d lines, %d markers, %d annotations, cursor %s\n",
			i, sess.LineCount(), markers, len(sess.Annotations()), ed.Selection().Cursor())
		for row := 0; row < sess.LineCount(); row++ {
			fmt.Fprintf(w, "  %3d | %s\n", row+1, sess.Line(row))
		}
		for _, an := range annotation.OutOfRange(sess.Annotations(), sess.LineCount()) {
			fmt.Fprintf(w, "warning: pane %d annotation %q is on row %d, past the end of the buffer\n", i, an.Text, an.Row)
		}
	}
	if a.host == nil {
		return
	}
	for _, d := range a.host.diagnostics() {
		fmt.Fprintf(w, "warning: %s\n", d)
	}
}

// Close tears down the watcher, the editors and the script runtime.
func (a *App) Close() {
	if a.watcher != nil {
		_ = a.watcher.Close()
		a.watcher = nil
	}
	if a.host != nil {
		a.host.destroy()
		a.host = nil
	}
	a.scripts.Close()
	a.loop.Stop()
}
