package config

import (
	"fmt"
	"time"

	"github.com/dshills/editsync/internal/adapter"
	"github.com/dshills/editsync/internal/command"
	"github.com/dshills/editsync/internal/engine"
	"github.com/dshills/editsync/internal/script"
	"github.com/dshills/editsync/internal/split"
)

// CommandDescriptors converts the command list. Lua actions are compiled
// with rt, which may be nil when no command carries one.
func (d *Document) CommandDescriptors(rt *script.Runtime) ([]command.Descriptor, error) {
	if len(d.Commands) == 0 {
		return nil, nil
	}
	descs := make([]command.Descriptor, 0, len(d.Commands))
	for i, c := range d.Commands {
		if c.Exec != "" {
			descs = append(descs, command.Descriptor{Name: c.Name, BindKey: c.BindKey, ExecName: c.Exec, ReadOnly: c.ReadOnly})
			continue
		}
		if rt == nil {
			return nil, fmt.Errorf("commands[%d] %s: %w", i, c.Name, ErrScriptRuntime)
		}
		desc, err := rt.Command(c.Name, c.BindKey, c.Lua, c.ReadOnly)
		if err != nil {
			return nil, fmt.Errorf("commands[%d]: %w", i, err)
		}
		descs = append(descs, desc)
	}
	return descs, nil
}

// AdapterProps converts a document into single-editor props. The first pane
// supplies the content.
func (d *Document) AdapterProps(rt *script.Runtime) (adapter.Props, error) {
	p := adapter.DefaultProps()
	if err := d.applyEditor(&p); err != nil {
		return p, err
	}
	if len(d.Panes) > 0 {
		pane := d.Panes[0]
		p.Value = pane.Value
		p.DefaultValue = pane.DefaultValue
		p.Markers = pane.Markers
		p.Annotations = pane.Annotations
	}

	cmds, err := d.CommandDescriptors(rt)
	if err != nil {
		return p, err
	}
	p.Commands = cmds
	return p, nil
}

// SplitProps converts a document into split-editor props. Panes without an
// entry in the document are empty.
func (d *Document) SplitProps(rt *script.Runtime) (split.Props, error) {
	sp := split.DefaultProps()
	var base adapter.Props
	if err := d.applyEditor(&base); err != nil {
		return sp, err
	}
	if d.Name != "" {
		sp.Name = d.Name
	}
	if d.Splits > 0 {
		sp.Splits = d.Splits
	}
	o, err := split.ParseOrientation(d.Orientation)
	if err != nil {
		return sp, err
	}
	sp.Orientation = o

	sp.CursorStart = base.CursorStart
	sp.Mode = base.Mode
	sp.Theme = base.Theme
	sp.KeyboardHandler = base.KeyboardHandler
	if base.FontSize > 0 {
		sp.FontSize = base.FontSize
	}
	if base.Width != "" {
		sp.Width = base.Width
	}
	if base.Height != "" {
		sp.Height = base.Height
	}
	sp.ClassName = base.ClassName
	sp.ShowGutter = boolOr(d.Editor.ShowGutter, sp.ShowGutter)
	sp.ShowPrintMargin = boolOr(d.Editor.ShowPrintMargin, sp.ShowPrintMargin)
	sp.WrapEnabled = base.WrapEnabled
	sp.Focus = base.Focus
	sp.NavigateToFileEnd = boolOr(d.Editor.NavigateToFileEnd, sp.NavigateToFileEnd)
	sp.MinLines = base.MinLines
	sp.MaxLines = base.MaxLines
	sp.ReadOnly = base.ReadOnly
	sp.HighlightActiveLine = boolOr(d.Editor.HighlightActiveLine, sp.HighlightActiveLine)
	sp.TabSize = base.TabSize
	sp.EnableBasicAutocompletion = base.EnableBasicAutocompletion
	sp.EnableLiveAutocompletion = base.EnableLiveAutocompletion
	sp.EnableSnippets = base.EnableSnippets
	sp.DebounceChangePeriod = base.DebounceChangePeriod
	sp.SetOptions = base.SetOptions
	sp.EditorProps = base.EditorProps

	controlled := false
	for _, pane := range d.Panes {
		if pane.Value != nil {
			controlled = true
		}
	}
	if controlled {
		sp.Value = make([]string, len(d.Panes))
	}
	for i, pane := range d.Panes {
		if controlled && pane.Value != nil {
			sp.Value[i] = *pane.Value
		}
		sp.DefaultValue = append(sp.DefaultValue, pane.DefaultValue)
		sp.Markers = append(sp.Markers, pane.Markers)
		sp.Annotations = append(sp.Annotations, pane.Annotations)
	}

	cmds, err := d.CommandDescriptors(rt)
	if err != nil {
		return sp, err
	}
	sp.Commands = cmds
	return sp, nil
}

// applyEditor copies the shared editor settings onto p. Settings the
// document leaves out keep p's values.
func (d *Document) applyEditor(p *adapter.Props) error {
	e := d.Editor
	start, err := cursorStart(e.CursorStart)
	if err != nil {
		return err
	}
	p.CursorStart = start

	if d.Name != "" {
		p.Name = d.Name
	}
	p.Mode = engine.ModeNamed(e.Mode)
	p.Theme = e.Theme
	p.KeyboardHandler = e.KeyboardHandler
	if e.FontSize > 0 {
		p.FontSize = e.FontSize
	}
	if e.Width != "" {
		p.Width = e.Width
	}
	if e.Height != "" {
		p.Height = e.Height
	}
	p.ClassName = e.ClassName
	p.Placeholder = e.Placeholder
	copy(p.ScrollMargin[:], e.ScrollMargin)

	p.ShowGutter = boolOr(e.ShowGutter, p.ShowGutter)
	p.ShowPrintMargin = boolOr(e.ShowPrintMargin, p.ShowPrintMargin)
	p.WrapEnabled = e.WrapEnabled
	p.Focus = e.Focus
	p.NavigateToFileEnd = boolOr(e.NavigateToFileEnd, p.NavigateToFileEnd)

	p.MinLines = e.MinLines
	p.MaxLines = e.MaxLines
	p.ReadOnly = e.ReadOnly
	p.HighlightActiveLine = boolOr(e.HighlightActiveLine, p.HighlightActiveLine)
	p.TabSize = e.TabSize
	p.EnableBasicAutocompletion = e.EnableBasicAutocompletion
	p.EnableLiveAutocompletion = e.EnableLiveAutocompletion
	p.EnableSnippets = e.EnableSnippets

	p.DebounceChangePeriod = time.Duration(e.Debounce)
	p.SetOptions = d.SetOptions
	p.EditorProps = d.EditorProps
	return nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
