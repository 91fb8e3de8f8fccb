package core

import (
	"fmt"

	"github.com/solixos/solixsh/commands"
	"github.com/solixos/solixsh/core/vos"
)

// ShellBuiltin is a command that runs inside the interpreter. Output goes to
// the streams of s.VirtualOS.
type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// ProcessBuiltin adapts a command that only needs its VOS. The configured
// color mode becomes the command's color preference.
func ProcessBuiltin(fn vos.ProcessFunc) ShellBuiltin {
	return ShellBuiltinFunc(func(s *Shell, args []string) int {
		view := s.VirtualOS.WithArgs(args)
		pty := view.GetPTY()
		pty.Color = s.Config.Color
		return fn(view.WithPTY(pty))
	})
}

// BuiltinEntry is a registered builtin.
type BuiltinEntry struct {
	Name        string
	Description string
	Builtin     ShellBuiltin
}

// Registry maps names to builtins and remembers registration order.
type Registry struct {
	entries []BuiltinEntry
	index   map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a builtin, replacing any previous one of the same name in
// place.
func (r *Registry) Register(name, description string, builtin ShellBuiltin) {
	entry := BuiltinEntry{Name: name, Description: description, Builtin: builtin}
	if i, ok := r.index[name]; ok {
		r.entries[i] = entry
		return
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, entry)
}

// Lookup finds the builtin called name.
func (r *Registry) Lookup(name string) (ShellBuiltin, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i].Builtin, true
}

// Entries lists the builtins in registration order.
func (r *Registry) Entries() []BuiltinEntry {
	return append([]BuiltinEntry(nil), r.entries...)
}

// Names lists builtin names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Name
	}
	return out
}

func (r *Registry) registerCommand(name string) {
	entry, ok := commands.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("builtin command %q is not registered", name))
	}
	r.Register(name, entry.Short, ProcessBuiltin(entry.Proc))
}

// DefaultBuiltins returns the registry every shell starts with.
func DefaultBuiltins() *Registry {
	r := NewRegistry()
	r.Register("cd", "Change directory", ShellBuiltinFunc(Cd))
	r.registerCommand("pwd")
	r.Register("help", "Show this help message", ShellBuiltinFunc(Help))
	r.Register("exit", "Exit the shell", ShellBuiltinFunc(Exit))
	r.registerCommand("clear")
	r.registerCommand("echo")
	r.registerCommand("ls")
	r.registerCommand("cat")
	r.Register("history", "Show command history", ShellBuiltinFunc(History))
	r.registerCommand("uptime")
	r.registerCommand("which")
	r.Register("export", "Set environment variables", ShellBuiltinFunc(Export))
	r.Register("unset", "Remove environment variables", ShellBuiltinFunc(Unset))
	return r
}
