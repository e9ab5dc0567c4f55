package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/editsync/internal/config"
	"github.com/dshills/editsync/internal/engine"
)

const singleDoc = `
name: notes
editor:
  tabSize: 2
panes:
  - value: "hello"
commands:
  - name: shout
    bindKey: {win: Ctrl-U, mac: Command-U}
    lua: editor.set_value(string.upper(editor.value()))
`

const splitDoc = `
mode: split
splits: 2
panes:
  - value: "left"
  - value: "right"
    annotations:
      - {row: 7, text: stale, type: warning}
setOptions:
  bogusOption: 1
`

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "editor.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newApp(t *testing.T, content string) *App {
	t.Helper()
	opts := Options{LogOutput: io.Discard}
	if content != "" {
		opts.ConfigPath = writeDoc(t, content)
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func key(k tcell.Key, r rune, mod tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(k, r, mod)
}

func TestNew_Blank(t *testing.T) {
	a := newApp(t, "")
	eds := a.Editors()
	if len(eds) != 1 {
		t.Fatalf("got %d editors, want 1", len(eds))
	}
	if eds[0].Value() != "" {
		t.Errorf("Value() = %q, want empty", eds[0].Value())
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		component string
		want      error
	}{
		{"missing file", filepath.Join(t.TempDir(), "none.yaml"), "config", config.ErrFileNotFound},
		{"unknown extension", writeDoc(t, "extensions: [spellcheck]\n"), "editor", ErrUnknownExtension},
		{"lua syntax error", writeDoc(t, "commands:\n  - {name: x, lua: 'return (', bindKey: {win: Ctrl-X}}\n"), "editor", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Options{ConfigPath: tt.path, LogOutput: io.Discard})
			if err == nil {
				t.Fatal("expected error")
			}
			var ie *InitError
			if !errors.As(err, &ie) || ie.Component != tt.component {
				t.Errorf("got %v, want an InitError for %s", err, tt.component)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHandleKey_Editing(t *testing.T) {
	tests := []struct {
		name string
		keys []*tcell.EventKey
		want string
	}{
		{"type", []*tcell.EventKey{key(tcell.KeyRune, '!', tcell.ModNone)}, "hello!"},
		{"enter and tab", []*tcell.EventKey{key(tcell.KeyEnter, 0, tcell.ModNone), key(tcell.KeyTab, 0, tcell.ModNone)}, "hello\n\t"},
		{"backspace", []*tcell.EventKey{key(tcell.KeyBackspace2, 0, tcell.ModNone)}, "hell"},
		{"delete after home", []*tcell.EventKey{key(tcell.KeyHome, 0, tcell.ModNone), key(tcell.KeyDelete, 0, tcell.ModNone)}, "ello"},
		{"left then type", []*tcell.EventKey{key(tcell.KeyLeft, 0, tcell.ModNone), key(tcell.KeyRune, 'X', tcell.ModNone)}, "hellXo"},
		{"bound lua command", []*tcell.EventKey{key(tcell.KeyCtrlU, 0, tcell.ModCtrl)}, "HELLO"},
		{"built-in command", []*tcell.EventKey{key(tcell.KeyCtrlA, 0, tcell.ModCtrl), key(tcell.KeyRune, 'z', tcell.ModNone)}, "z"},
		{"unbound ctrl key", []*tcell.EventKey{key(tcell.KeyRune, 'k', tcell.ModCtrl)}, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newApp(t, singleDoc)
			for _, ev := range tt.keys {
				if err := a.handleKey(ev); err != nil {
					t.Fatalf("handleKey: %v", err)
				}
			}
			if got := a.Focused().Value(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandleKey_Quit(t *testing.T) {
	a := newApp(t, "")
	for _, ev := range []*tcell.EventKey{
		key(tcell.KeyEscape, 0, tcell.ModNone),
		key(tcell.KeyCtrlQ, 0, tcell.ModCtrl),
		key(tcell.KeyRune, 'q', tcell.ModCtrl),
	} {
		if err := a.handleKey(ev); !errors.Is(err, ErrQuit) {
			t.Errorf("%s: got %v, want ErrQuit", ev.Name(), err)
		}
	}
}

func TestHandleKey_CycleFocus(t *testing.T) {
	a := newApp(t, splitDoc)
	if err := a.handleKey(key(tcell.KeyBacktab, 0, tcell.ModShift)); err != nil {
		t.Fatal(err)
	}
	if a.focus != 1 {
		t.Fatalf("focus = %d, want 1", a.focus)
	}
	if !a.Editors()[1].IsFocused() {
		t.Error("pane 1 editor not focused")
	}
	if err := a.handleKey(key(tcell.KeyRune, '!', tcell.ModNone)); err != nil {
		t.Fatal(err)
	}
	if got := a.Editors()[1].Value(); got != "right!" {
		t.Errorf("pane 1 = %q, want right!", got)
	}
	if got := a.Editors()[0].Value(); got != "left" {
		t.Errorf("pane 0 = %q, want left", got)
	}
}

func TestKeySpec(t *testing.T) {
	tests := []struct {
		ev       *tcell.EventKey
		platform engine.Platform
		want     string
	}{
		{key(tcell.KeyCtrlS, 0, tcell.ModCtrl), engine.PlatformWin, "ctrl-s"},
		{key(tcell.KeyCtrlS, 0, tcell.ModCtrl), engine.PlatformMac, "command-s"},
		{key(tcell.KeyRune, 'f', tcell.ModAlt), engine.PlatformWin, "alt-f"},
		{key(tcell.KeyRune, 'd', tcell.ModCtrl|tcell.ModAlt), engine.PlatformWin, "ctrl-alt-d"},
		{key(tcell.KeyRune, 'x', tcell.ModNone), engine.PlatformWin, ""},
		{key(tcell.KeyTab, 0, tcell.ModNone), engine.PlatformWin, ""},
		{key(tcell.KeyEnter, 0, tcell.ModNone), engine.PlatformWin, ""},
	}
	for _, tt := range tests {
		if got := keySpec(tt.ev, tt.platform); got != tt.want {
			t.Errorf("keySpec(%s, %s) = %q, want %q", tt.ev.Name(), tt.platform, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	a := newApp(t, splitDoc)
	var buf bytes.Buffer
	if err := a.RunHeadless(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"editsync: split, 2 pane(s)",
		"pane 0: 1 lines",
		"    1 | left",
		"pane 1: 1 lines",
		"    1 | right",
		"warning: editor option bogusOption was activated but not found",
		`warning: pane 1 annotation "stale" is on row 7, past the end of the buffer`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if err := a.RunHeadless(context.Background(), &buf); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second run: got %v, want ErrAlreadyRunning", err)
	}
}

func TestReload(t *testing.T) {
	a := newApp(t, singleDoc)
	ed := a.Editors()[0]

	doc, err := config.Parse("next", config.FormatYAML, []byte("panes:\n  - value: bye\n"))
	if err != nil {
		t.Fatal(err)
	}
	a.reload(doc)
	if a.Editors()[0] != ed {
		t.Error("a props-only change remounted the editor")
	}
	if ed.Value() != "bye" || a.Status() != "reloaded" {
		t.Errorf("value %q status %q after reload", ed.Value(), a.Status())
	}

	doc, err = config.Parse("split", config.FormatYAML, []byte(splitDoc))
	if err != nil {
		t.Fatal(err)
	}
	a.reload(doc)
	if len(a.Editors()) != 2 || a.Status() != "remounted" {
		t.Fatalf("got %d editors, status %q after switching to split", len(a.Editors()), a.Status())
	}
	if !ed.Destroyed() {
		t.Error("old editor not destroyed on remount")
	}

	doc, err = config.Parse("bad", config.FormatYAML, []byte("extensions: [nope]\n"))
	if err != nil {
		t.Fatal(err)
	}
	a.reload(doc)
	if a.Editors() != nil || !strings.Contains(a.Status(), "unknown engine extension") {
		t.Errorf("status %q after a failed remount", a.Status())
	}

	doc, err = config.Parse("good", config.FormatYAML, []byte("panes:\n  - value: back\n"))
	if err != nil {
		t.Fatal(err)
	}
	a.reload(doc)
	if eds := a.Editors(); len(eds) != 1 || eds[0].Value() != "back" {
		t.Error("app did not recover after a failed remount")
	}
}

func TestRun(t *testing.T) {
	a := newApp(t, singleDoc)
	scr := tcell.NewSimulationScreen("UTF-8")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, scr) }()

	// The loop starts after the screen is initialized.
	if !a.Do(func() {}) {
		t.Fatal("loop did not start")
	}
	scr.InjectKey(tcell.KeyRune, '!', tcell.ModNone)

	waitFor(t, "the typed rune on screen", func() bool {
		var value, row string
		a.Do(func() {
			value = a.Focused().Value()
			for x := 0; x < 10; x++ {
				r, _, _, _ := scr.GetContent(x, 0) //nolint:staticcheck // GetContent reads back the simulation screen
				row += string(r)
			}
		})
		return value == "hello!" && row == "  1 hello!"
	})

	scr.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	select {
	case err := <-done:
		if !errors.Is(err, ErrQuit) {
			t.Errorf("Run = %v, want ErrQuit", err)
		}
	case <-ctx.Done():
		t.Fatal("Run did not return after Ctrl-Q")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunHeadless_Watch(t *testing.T) {
	path := writeDoc(t, singleDoc)
	a, err := New(Options{ConfigPath: path, LogOutput: io.Discard, Watch: true})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.Close)

	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunHeadless(ctx, &out) }()

	waitFor(t, "the loop to take the writer", func() bool {
		var ready bool
		a.Do(func() { ready = a.out != nil })
		return ready
	})
	if !strings.Contains(out.String(), "    1 | hello") {
		t.Fatalf("initial summary missing:\n%s", out.String())
	}

	if err := os.WriteFile(path, []byte("panes:\n  - value: bye\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "the reloaded summary", func() bool {
		return strings.Contains(out.String(), "    1 | bye")
	})
	if !strings.Contains(out.String(), "status: reloaded") {
		t.Errorf("reload status missing:\n%s", out.String())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("RunHeadless = %v, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("RunHeadless did not return after cancel")
	}
}
