// Package memory is an in-process implementation of the engine API.
//
// It keeps real state (a line buffer, undo snapshots, a session marker
// registry with engine-assigned ids, annotations and their gutter view, a
// command table with multi-bound keys, an anchor/lead selection) but draws
// nothing. Editors are driven from one goroutine and deliver their events
// synchronously on it.
package memory

import (
	"fmt"
	"sort"

	"github.com/dshills/editsync/internal/engine"
)

// ExtLanguageTools is the name of the extension that contributes the
// autocompletion and snippet options.
const ExtLanguageTools = "language_tools"

// DefaultOptions returns the option set every editor recognizes, with
// default values.
func DefaultOptions() map[string]any {
	return map[string]any{
		"selectionStyle":           "line",
		"highlightActiveLine":      true,
		"highlightSelectedWord":    true,
		"readOnly":                 false,
		"cursorStyle":              "ace",
		"mergeUndoDeltas":          true,
		"behavioursEnabled":        true,
		"wrapBehavioursEnabled":    true,
		"autoScrollEditorIntoView": false,
		"copyWithEmptySelection":   false,
		"useSoftTabs":              true,
		"navigateWithinSoftTabs":   false,
		"enableMultiselect":        true,
		"hScrollBarAlwaysVisible":  false,
		"vScrollBarAlwaysVisible":  false,
		"highlightGutterLine":      true,
		"animatedScroll":           false,
		"showInvisibles":           false,
		"showPrintMargin":          true,
		"printMarginColumn":        80,
		"printMargin":              80,
		"fadeFoldWidgets":          false,
		"showFoldWidgets":          true,
		"showLineNumbers":          true,
		"showGutter":               true,
		"displayIndentGuides":      true,
		"fontSize":                 "12px",
		"fontFamily":               "",
		"maxLines":                 0,
		"minLines":                 0,
		"scrollPastEnd":            0,
		"fixedWidthGutter":         false,
		"theme":                    "",
		"keyboardHandler":          "",
		"firstLineNumber":          1,
		"overwrite":                false,
		"newLineMode":              "auto",
		"useWorker":                true,
		"tabSize":                  4,
		"wrap":                     false,
		"foldStyle":                "markbegin",
		"mode":                     "",
		"placeholder":              "",
		"dragEnabled":              true,
		"dragDelay":                0,
		"focusTimeout":             0,
		"tooltipFollowsMouse":      true,
		"scrollSpeed":              2,
		"indentedSoftWrap":         true,
		"enableAutoIndent":         true,
		"hasCssTransforms":         false,
		"customScrollbar":          false,
		"relativeLineNumbers":      false,
		"highlightIndentGuides":    true,
		"useSvgGutterIcons":        false,
		"showFoldedAnnotations":    false,
	}
}

// LanguageTools returns the extension that adds autocompletion and snippet
// options, the usual reason an option is reported as unknown.
func LanguageTools() engine.Extension {
	return engine.Extension{
		Name: ExtLanguageTools,
		Options: map[string]any{
			"enableBasicAutocompletion": false,
			"enableLiveAutocompletion":  false,
			"enableSnippets":            false,
		},
	}
}

// Option configures a Library.
type Option func(*Library)

// WithPlatform selects which half of key bindings editors honour.
func WithPlatform(p engine.Platform) Option {
	return func(l *Library) {
		l.platform = p
	}
}

// WithExtensions registers extensions up front.
func WithExtensions(exts ...engine.Extension) Option {
	return func(l *Library) {
		l.extensions = append(l.extensions, exts...)
	}
}

// Library implements engine.Library.
type Library struct {
	platform   engine.Platform
	extensions []engine.Extension
	created    int
}

// New creates a library.
func New(opts ...Option) *Library {
	l := &Library{platform: engine.PlatformWin}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register adds an extension to editors created afterwards.
func (l *Library) Register(ext engine.Extension) error {
	for _, e := range l.extensions {
		if e.Name == ext.Name {
			return fmt.Errorf("%w: %s", engine.ErrDuplicateExtension, ext.Name)
		}
	}
	l.extensions = append(l.extensions, ext)
	return nil
}

// Extensions returns the sorted names of registered extensions.
func (l *Library) Extensions() []string {
	names := make([]string, 0, len(l.extensions))
	for _, e := range l.extensions {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// NewEditor creates an editor with the default options and commands plus
// whatever registered extensions contribute.
func (l *Library) NewEditor() engine.Editor {
	return l.NewMemoryEditor()
}

// NewMemoryEditor is NewEditor returning the concrete type.
func (l *Library) NewMemoryEditor() *Editor {
	options := DefaultOptions()
	commands := builtinCommands()
	for _, ext := range l.extensions {
		for name, v := range ext.Options {
			options[name] = v
		}
		commands = append(commands, ext.Commands...)
	}
	l.created++
	return newEditor(l.platform, options, commands)
}

// Created returns how many editors the library has created.
func (l *Library) Created() int {
	return l.created
}
