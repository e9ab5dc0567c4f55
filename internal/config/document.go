// Package config reads props documents: YAML or TOML files describing a
// single or split editor.
//
// A document carries the shared editor settings, the per-pane content
// (value, markers, annotations) and the command list. Commands either bind
// keys to an existing engine command ("exec") or carry a Lua action ("lua")
// compiled through a script.Runtime. Callbacks are never part of a document;
// the host fills them in on the props it gets back.
//
// # Example
//
//	mode: split
//	splits: 2
//	orientation: below
//	editor:
//	  mode: javascript
//	  theme: github
//	  debounce: 100ms
//	panes:
//	  - value: "left"
//	    markers:
//	      - {startRow: 0, endRow: 0, endCol: 4, className: warn}
//	  - value: "right"
//	commands:
//	  - name: upper
//	    bindKey: {win: Ctrl-U, mac: Command-U}
//	    lua: editor.set_value(string.upper(editor.value()))
//
// Watch reloads a document whenever its file changes.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/marker"
	"github.com/dshills/editsync/internal/split"
)

// Document layouts.
const (
	LayoutSingle = "single"
	LayoutSplit  = "split"
)

// Document is a decoded props document.
type Document struct {
	// Mode is "single" (the default) or "split".
	Mode        string `yaml:"mode" toml:"mode"`
	Name        string `yaml:"name" toml:"name"`
	Splits      int    `yaml:"splits" toml:"splits"`
	Orientation string `yaml:"orientation" toml:"orientation"`

	// Platform selects the key binding half: "win" (the default) or "mac".
	Platform string `yaml:"platform" toml:"platform"`

	// Extensions name engine extensions the host registers before load.
	Extensions []string `yaml:"extensions" toml:"extensions"`

	Editor   Editor    `yaml:"editor" toml:"editor"`
	Panes    []Pane    `yaml:"panes" toml:"panes"`
	Commands []Command `yaml:"commands" toml:"commands"`

	SetOptions  map[string]any `yaml:"setOptions" toml:"setOptions"`
	EditorProps map[string]any `yaml:"editorProps" toml:"editorProps"`
}

// Editor holds the settings every pane shares. Pointer fields are optional
// and fall back to the props defaults.
type Editor struct {
	Mode            string   `yaml:"mode" toml:"mode"`
	Theme           string   `yaml:"theme" toml:"theme"`
	KeyboardHandler string   `yaml:"keyboardHandler" toml:"keyboardHandler"`
	FontSize        int      `yaml:"fontSize" toml:"fontSize"`
	Width           string   `yaml:"width" toml:"width"`
	Height          string   `yaml:"height" toml:"height"`
	ClassName       string   `yaml:"className" toml:"className"`
	Placeholder     string   `yaml:"placeholder" toml:"placeholder"`
	ScrollMargin    []int    `yaml:"scrollMargin" toml:"scrollMargin"`
	CursorStart     string   `yaml:"cursorStart" toml:"cursorStart"`
	Debounce        Duration `yaml:"debounce" toml:"debounce"`

	ShowGutter        *bool `yaml:"showGutter" toml:"showGutter"`
	ShowPrintMargin   *bool `yaml:"showPrintMargin" toml:"showPrintMargin"`
	WrapEnabled       bool  `yaml:"wrapEnabled" toml:"wrapEnabled"`
	Focus             bool  `yaml:"focus" toml:"focus"`
	NavigateToFileEnd *bool `yaml:"navigateToFileEnd" toml:"navigateToFileEnd"`

	MinLines                  int   `yaml:"minLines" toml:"minLines"`
	MaxLines                  int   `yaml:"maxLines" toml:"maxLines"`
	ReadOnly                  bool  `yaml:"readOnly" toml:"readOnly"`
	HighlightActiveLine       *bool `yaml:"highlightActiveLine" toml:"highlightActiveLine"`
	TabSize                   int   `yaml:"tabSize" toml:"tabSize"`
	EnableBasicAutocompletion bool  `yaml:"enableBasicAutocompletion" toml:"enableBasicAutocompletion"`
	EnableLiveAutocompletion  bool  `yaml:"enableLiveAutocompletion" toml:"enableLiveAutocompletion"`
	EnableSnippets            bool  `yaml:"enableSnippets" toml:"enableSnippets"`
}

// Pane is the content of one pane. A single editor uses the first pane.
type Pane struct {
	// Value is the controlled content; absent leaves the buffer alone.
	Value        *string             `yaml:"value" toml:"value"`
	DefaultValue string              `yaml:"defaultValue" toml:"defaultValue"`
	Markers      []marker.Descriptor `yaml:"markers" toml:"markers"`
	Annotations  []engine.Annotation `yaml:"annotations" toml:"annotations"`
}

// Command declares one command. Exactly one of Exec and Lua is set.
type Command struct {
	Name     string            `yaml:"name" toml:"name"`
	BindKey  engine.KeyBinding `yaml:"bindKey" toml:"bindKey"`
	Exec     string            `yaml:"exec" toml:"exec"`
	Lua      string            `yaml:"lua" toml:"lua"`
	ReadOnly bool              `yaml:"readOnly" toml:"readOnly"`
}

// Duration is a time.Duration written as a string such as "150ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// IsSplit reports whether the document describes a split editor.
func (d *Document) IsSplit() bool {
	return strings.EqualFold(d.Mode, LayoutSplit)
}

// EnginePlatform returns the platform the document selects.
func (d *Document) EnginePlatform() engine.Platform {
	if strings.EqualFold(d.Platform, string(engine.PlatformMac)) {
		return engine.PlatformMac
	}
	return engine.PlatformWin
}

// Validate checks the fields whose values are constrained.
func (d *Document) Validate() error {
	switch strings.ToLower(d.Mode) {
	case "", LayoutSingle, LayoutSplit:
	default:
		return &ValidationError{Field: "mode", Message: "must be single or split", Value: d.Mode}
	}
	if _, err := split.ParseOrientation(d.Orientation); err != nil {
		return &ValidationError{Field: "orientation", Message: err.Error(), Value: d.Orientation}
	}
	if d.Splits < 0 {
		return &ValidationError{Field: "splits", Message: "must not be negative", Value: d.Splits}
	}
	switch strings.ToLower(d.Platform) {
	case "", string(engine.PlatformWin), string(engine.PlatformMac):
	default:
		return &ValidationError{Field: "platform", Message: "must be win or mac", Value: d.Platform}
	}
	if _, err := cursorStart(d.Editor.CursorStart); err != nil {
		return &ValidationError{Field: "editor.cursorStart", Message: err.Error(), Value: d.Editor.CursorStart}
	}
	if n := len(d.Editor.ScrollMargin); n > 4 {
		return &ValidationError{Field: "editor.scrollMargin", Message: "takes at most 4 values", Value: d.Editor.ScrollMargin}
	}
	if d.Editor.Debounce < 0 {
		return &ValidationError{Field: "editor.debounce", Message: "must not be negative", Value: time.Duration(d.Editor.Debounce)}
	}
	for i, c := range d.Commands {
		field := fmt.Sprintf("commands[%d]", i)
		if c.Name == "" {
			return &ValidationError{Field: field + ".name", Message: "is required", Value: c.Name}
		}
		if (c.Exec == "") == (c.Lua == "") {
			return &ValidationError{Field: field, Message: "needs exactly one of exec and lua", Value: c.Name}
		}
	}
	return nil
}

// cursorStart maps a cursorStart name to the engine constant.
func cursorStart(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "end":
		return engine.CursorDocEnd, nil
	case "start":
		return engine.CursorDocStart, nil
	case "select", "selectall":
		return engine.CursorSelectAll, nil
	}
	return 0, fmt.Errorf("unknown cursor start %q", s)
}
