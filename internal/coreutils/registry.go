// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps command names to their implementations.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Default returns a registry holding every command in this package.
func Default() *Registry {
	r := NewRegistry()
	for _, cmd := range []Command{
		commandFunc{name: "basename", run: runBasename},
		commandFunc{name: "cat", run: runCat},
		commandFunc{name: "dirname", run: runDirname},
		commandFunc{name: "head", run: runHead},
		commandFunc{name: "realpath", run: runRealpath},
	} {
		r.Register(cmd)
	}
	return r
}

// Register adds a command to the registry.
// Panics if a command with the same name is already registered.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := cmd.Name()
	if name == "" {
		panic("coreutils: cannot register command with empty name")
	}
	if _, exists := r.commands[name]; exists {
		panic(fmt.Sprintf("coreutils: command %q already registered", name))
	}
	r.commands[name] = cmd
}

// Lookup retrieves a command by name.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the names of all registered commands in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
