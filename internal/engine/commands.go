package engine

import "strings"

// Platform selects which half of a KeyBinding applies.
type Platform string

// Supported platforms.
const (
	PlatformWin Platform = "win"
	PlatformMac Platform = "mac"
)

// KeyBinding holds per-platform key specifications such as "Ctrl-D".
// A specification may list alternatives separated by "|".
type KeyBinding struct {
	Win string `json:"win" yaml:"win" toml:"win"`
	Mac string `json:"mac" yaml:"mac" toml:"mac"`
}

// For returns the specification for platform p.
func (k KeyBinding) For(p Platform) string {
	if p == PlatformMac {
		return k.Mac
	}
	return k.Win
}

// IsZero reports whether no key is bound on any platform.
func (k KeyBinding) IsZero() bool {
	return k.Win == "" && k.Mac == ""
}

// Keys returns the normalized keys bound for platform p.
func (k KeyBinding) Keys(p Platform) []string {
	spec := k.For(p)
	if spec == "" {
		return nil
	}
	parts := strings.Split(spec, "|")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		if key := NormalizeKey(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// NormalizeKey lowercases a key specification and strips spaces, so that
// "Ctrl-D" and "ctrl-d" address the same binding.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), " ", ""))
}

// ExecFunc runs a command. Returning false declines, letting the next
// candidate bound to the same key run.
type ExecFunc func(ed Editor, args any) bool

// Command is an entry in the command table.
type Command struct {
	Name     string
	BindKey  KeyBinding
	Exec     ExecFunc
	ReadOnly bool
}

// Binding is one candidate bound to a key: either a registered command or a
// reference to a command by name, resolved at execution time.
type Binding struct {
	Command *Command
	Ref     string
}

// CommandBinding returns a binding to cmd.
func CommandBinding(cmd *Command) Binding {
	return Binding{Command: cmd}
}

// RefBinding returns a binding to the command called name.
func RefBinding(name string) Binding {
	return Binding{Ref: name}
}

// Name returns the command name the binding resolves to.
func (b Binding) Name() string {
	if b.Command != nil {
		return b.Command.Name
	}
	return b.Ref
}

// IsRef reports whether the binding refers to a command by name.
func (b Binding) IsRef() bool {
	return b.Command == nil
}

// CommandManager is an editor's command table.
type CommandManager interface {
	// Platform returns the platform used to pick key specifications.
	Platform() Platform

	// Command returns the command registered under name.
	Command(name string) (*Command, bool)

	// Commands returns a copy of the command table.
	Commands() map[string]*Command

	// AddCommand registers cmd and binds its keys. A command with the same
	// name is removed first, together with its bindings.
	AddCommand(cmd *Command)

	// RemoveCommand removes the command and every binding to it.
	RemoveCommand(name string) (*Command, bool)

	// BindKey appends target to the candidates of every key in keys.
	BindKey(keys KeyBinding, target Binding)

	// UnbindKey removes the last candidate equal to target from every key in
	// keys. It reports whether anything was removed.
	UnbindKey(keys KeyBinding, target Binding) bool

	// Bindings returns the candidates bound to key, in registration order.
	Bindings(key string) []Binding

	// KeyBindings returns a copy of the whole key table.
	KeyBindings() map[string][]Binding

	// Exec runs the command called name.
	Exec(name string, ed Editor, args any) bool

	// ExecKey tries the candidates bound to key in registration order and
	// stops at the first that handles it.
	ExecKey(key string, ed Editor) bool
}
