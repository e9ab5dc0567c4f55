package memory

import (
	"strings"

	"github.com/dshills/editsync/internal/engine"
)

// Commands implements engine.CommandManager.
type Commands struct {
	platform engine.Platform
	commands map[string]*engine.Command
	keys     map[string][]engine.Binding
	readOnly func() bool
}

func newCommands(p engine.Platform, readOnly func() bool) *Commands {
	return &Commands{
		platform: p,
		commands: make(map[string]*engine.Command),
		keys:     make(map[string][]engine.Binding),
		readOnly: readOnly,
	}
}

// Platform returns the platform used to pick key specifications.
func (c *Commands) Platform() engine.Platform {
	return c.platform
}

// Command returns the command registered under name.
func (c *Commands) Command(name string) (*engine.Command, bool) {
	cmd, ok := c.commands[name]
	return cmd, ok
}

// Commands returns a copy of the command table.
func (c *Commands) Commands() map[string]*engine.Command {
	out := make(map[string]*engine.Command, len(c.commands))
	for name, cmd := range c.commands {
		out[name] = cmd
	}
	return out
}

// AddCommand registers cmd, replacing any command with the same name.
func (c *Commands) AddCommand(cmd *engine.Command) {
	if cmd == nil || cmd.Name == "" {
		return
	}
	if _, ok := c.commands[cmd.Name]; ok {
		c.RemoveCommand(cmd.Name)
	}
	c.commands[cmd.Name] = cmd
	if !cmd.BindKey.IsZero() {
		c.BindKey(cmd.BindKey, engine.CommandBinding(cmd))
	}
}

// RemoveCommand removes a command and every binding that points at it.
func (c *Commands) RemoveCommand(name string) (*engine.Command, bool) {
	cmd, ok := c.commands[name]
	if !ok {
		return nil, false
	}
	delete(c.commands, name)
	for key, bindings := range c.keys {
		kept := bindings[:0:0]
		for _, b := range bindings {
			if b.Command != cmd {
				kept = append(kept, b)
			}
		}
		c.setKey(key, kept)
	}
	return cmd, true
}

// BindKey appends target to the candidates of each key.
func (c *Commands) BindKey(keys engine.KeyBinding, target engine.Binding) {
	for _, key := range keys.Keys(c.platform) {
		c.keys[key] = append(c.keys[key], target)
	}
}

// UnbindKey removes the most recent candidate equal to target.
func (c *Commands) UnbindKey(keys engine.KeyBinding, target engine.Binding) bool {
	removed := false
	for _, key := range keys.Keys(c.platform) {
		bindings := c.keys[key]
		for i := len(bindings) - 1; i >= 0; i-- {
			if bindings[i] == target {
				kept := append(bindings[:i:i], bindings[i+1:]...)
				c.setKey(key, kept)
				removed = true
				break
			}
		}
	}
	return removed
}

func (c *Commands) setKey(key string, bindings []engine.Binding) {
	if len(bindings) == 0 {
		delete(c.keys, key)
		return
	}
	c.keys[key] = bindings
}

// Bindings returns the candidates bound to key, in registration order.
func (c *Commands) Bindings(key string) []engine.Binding {
	bindings := c.keys[engine.NormalizeKey(key)]
	out := make([]engine.Binding, len(bindings))
	copy(out, bindings)
	return out
}

// KeyBindings returns a copy of the key table.
func (c *Commands) KeyBindings() map[string][]engine.Binding {
	out := make(map[string][]engine.Binding, len(c.keys))
	for key := range c.keys {
		out[key] = c.Bindings(key)
	}
	return out
}

// Exec runs the command called name. Commands that are not marked
// ReadOnly are refused while the editor is read-only.
func (c *Commands) Exec(name string, ed engine.Editor, args any) bool {
	cmd, ok := c.commands[name]
	if !ok || cmd.Exec == nil {
		return false
	}
	if c.readOnly != nil && c.readOnly() && !cmd.ReadOnly {
		return false
	}
	return cmd.Exec(ed, args)
}

// ExecKey tries each candidate bound to key until one handles it.
func (c *Commands) ExecKey(key string, ed engine.Editor) bool {
	for _, b := range c.Bindings(key) {
		if c.Exec(b.Name(), ed, nil) {
			return true
		}
	}
	return false
}

// builtinCommands returns the default command table.
func builtinCommands() []*engine.Command {
	return []*engine.Command{
		{
			Name:     "selectall",
			BindKey:  engine.KeyBinding{Win: "Ctrl-A", Mac: "Command-A"},
			ReadOnly: true,
			Exec: func(ed engine.Editor, _ any) bool {
				ed.Selection().SelectAll()
				return true
			},
		},
		{
			Name:    "removeline",
			BindKey: engine.KeyBinding{Win: "Ctrl-D", Mac: "Command-D"},
			Exec: func(ed engine.Editor, _ any) bool {
				e, ok := ed.(*Editor)
				if !ok {
					return false
				}
				e.removeLine(ed.Selection().Cursor().Row)
				return true
			},
		},
		{
			Name:    "undo",
			BindKey: engine.KeyBinding{Win: "Ctrl-Z", Mac: "Command-Z"},
			Exec: func(ed engine.Editor, _ any) bool {
				ed.Undo()
				return true
			},
		},
		{
			Name:     "gotoend",
			BindKey:  engine.KeyBinding{Win: "Ctrl-End", Mac: "Command-End|Command-Down"},
			ReadOnly: true,
			Exec: func(ed engine.Editor, _ any) bool {
				ed.NavigateFileEnd()
				return true
			},
		},
		{
			Name:     "gotostart",
			BindKey:  engine.KeyBinding{Win: "Ctrl-Home", Mac: "Command-Home|Command-Up"},
			ReadOnly: true,
			Exec: func(ed engine.Editor, _ any) bool {
				ed.NavigateFileStart()
				return true
			},
		},
		{
			Name:     "selectMoreAfter",
			BindKey:  engine.KeyBinding{Win: "Ctrl-Alt-Right", Mac: "Ctrl-Alt-Right"},
			ReadOnly: true,
			Exec:     selectMoreAfter,
		},
	}
}

// selectMoreAfter extends the selection to the next occurrence of the
// selected text.
func selectMoreAfter(ed engine.Editor, _ any) bool {
	sel := ed.Selection()
	if sel.IsEmpty() {
		return false
	}
	session := ed.Session()
	r := sel.Range()
	needle := session.TextRange(r)
	if needle == "" || strings.Contains(needle, "\n") {
		return false
	}
	for row := r.End.Row; row < session.LineCount(); row++ {
		line := session.Line(row)
		from := 0
		if row == r.End.Row {
			from = r.End.Column
		}
		if from > len(line) {
			continue
		}
		if i := strings.Index(line[from:], needle); i >= 0 {
			col := from + i + len(needle)
			sel.SetRange(engine.Range{Start: r.Start, End: engine.Position{Row: row, Column: col}})
			return true
		}
	}
	return false
}
