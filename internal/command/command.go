// Package command installs declared commands into an engine's command table.
//
// A descriptor either carries an action, registered as a command under its
// name, or names an existing command, in which case its keys are bound to
// that command by reference. Binding never unbinds what is already on a key:
// the engine tries a key's candidates in registration order, so a built-in
// command on a shared key stays reachable ahead of the new one.
package command

import (
	"errors"
	"fmt"

	"github.com/dshills/editsync/internal/engine"
)

// Errors reported by Install for descriptors it skips.
var (
	ErrMissingName   = errors.New("command has no name")
	ErrMissingAction = errors.New("command has neither an action nor a command reference")
)

// Descriptor declares one command.
type Descriptor struct {
	Name    string
	BindKey engine.KeyBinding
	// Exec is the action to register. When nil, ExecName names an existing
	// command the keys are bound to.
	Exec     engine.ExecFunc
	ExecName string
	ReadOnly bool
}

// IsRef reports whether the descriptor binds keys to an existing command.
func (d Descriptor) IsRef() bool {
	return d.Exec == nil && d.ExecName != ""
}

// Equal reports whether a and b declare the same commands. Actions are
// functions and cannot be compared, so lists holding any action are never
// equal; reinstalling them is idempotent.
func Equal(a, b []Descriptor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.Exec != nil || y.Exec != nil {
			return false
		}
		if x.Name != y.Name || x.BindKey != y.BindKey || x.ExecName != y.ExecName || x.ReadOnly != y.ReadOnly {
			return false
		}
	}
	return true
}

// Dedupe returns descs with only the last descriptor for each name, kept at
// the position of that last occurrence.
func Dedupe(descs []Descriptor) []Descriptor {
	last := make(map[string]int, len(descs))
	for i, d := range descs {
		last[d.Name] = i
	}
	out := make([]Descriptor, 0, len(last))
	for i, d := range descs {
		if last[d.Name] == i {
			out = append(out, d)
		}
	}
	return out
}

// installed records one change Install made so it can be withdrawn.
type installed struct {
	name string
	// cmd is the command registered for an action descriptor.
	cmd *engine.Command
	// displaced is the command cmd replaced under the same name.
	displaced *engine.Command
	// keys and ref describe a by-reference binding.
	keys engine.KeyBinding
	ref  engine.Binding
}

// Installer owns the commands and bindings it added to one command table.
type Installer struct {
	commands  engine.CommandManager
	installed []installed
}

// NewInstaller creates an installer for commands.
func NewInstaller(commands engine.CommandManager) *Installer {
	return &Installer{commands: commands}
}

// Install withdraws whatever the previous Install added, then installs descs.
// Later descriptors replace earlier ones with the same name. Descriptors
// without a name or an action are skipped and reported in the returned error;
// the rest are still installed.
func (in *Installer) Install(descs []Descriptor) error {
	in.Uninstall()

	var errs []error
	for _, d := range Dedupe(descs) {
		switch {
		case d.Name == "":
			errs = append(errs, ErrMissingName)
		case d.Exec != nil:
			in.addCommand(d)
		case d.ExecName != "":
			ref := engine.RefBinding(d.ExecName)
			in.commands.BindKey(d.BindKey, ref)
			in.installed = append(in.installed, installed{name: d.Name, keys: d.BindKey, ref: ref})
		default:
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingAction, d.Name))
		}
	}
	return errors.Join(errs...)
}

func (in *Installer) addCommand(d Descriptor) {
	displaced, _ := in.commands.Command(d.Name)
	cmd := &engine.Command{
		Name:     d.Name,
		BindKey:  d.BindKey,
		Exec:     d.Exec,
		ReadOnly: d.ReadOnly,
	}
	in.commands.AddCommand(cmd)
	in.installed = append(in.installed, installed{name: d.Name, cmd: cmd, displaced: displaced})
}

// Uninstall withdraws everything the installer added, newest first, and
// restores commands its registrations displaced.
func (in *Installer) Uninstall() {
	for i := len(in.installed) - 1; i >= 0; i-- {
		entry := in.installed[i]
		if entry.cmd == nil {
			in.commands.UnbindKey(entry.keys, entry.ref)
			continue
		}
		if current, ok := in.commands.Command(entry.name); ok && current == entry.cmd {
			in.commands.RemoveCommand(entry.name)
			if entry.displaced != nil {
				in.commands.AddCommand(entry.displaced)
			}
		}
	}
	in.installed = nil
}

// Names returns the names of the installed descriptors, in install order.
func (in *Installer) Names() []string {
	names := make([]string, len(in.installed))
	for i, entry := range in.installed {
		names[i] = entry.name
	}
	return names
}
